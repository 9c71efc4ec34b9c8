package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newChatCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long: `Start an interactive conversation with the support bot.

Type a message and press enter. /reset clears the local conversation,
/quit (or end of input) leaves.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			conv := opts.conversation()

			fmt.Fprintln(out, headerStyle.Render("AI Customer Support Bot"))
			fmt.Fprintln(out, hintStyle.Render("Chatting as "+opts.user+". /reset to start over, /quit to leave."))
			fmt.Fprintln(out)
			for _, m := range conv.Messages() {
				printMessage(out, m)
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}
				line := scanner.Text()
				switch strings.TrimSpace(line) {
				case "":
					continue
				case "/quit", "/exit":
					return nil
				case "/reset":
					conv.Reset()
					fmt.Fprintln(out, hintStyle.Render("Conversation reset."))
					for _, m := range conv.Messages() {
						printMessage(out, m)
					}
					continue
				}

				fmt.Fprintln(out, hintStyle.Render("🤖 Typing..."))
				reply, err := conv.Send(cmd.Context(), line)
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), hintStyle.Render("request failed: "+err.Error()))
				}
				printMessage(out, reply)
			}
		},
	}
}
