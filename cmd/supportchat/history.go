package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print the conversation stored on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			messages, err := opts.conversation().History(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch history: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(messages) == 0 {
				fmt.Fprintln(out, hintStyle.Render("No conversation yet for "+opts.user+"."))
				return nil
			}
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%d messages for %s", len(messages), opts.user)))
			fmt.Fprintln(out)
			for _, m := range messages {
				printMessage(out, m)
			}
			return nil
		},
	}
}
