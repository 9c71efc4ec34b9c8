package main

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"supportchat/client"
)

type options struct {
	server  string
	user    string
	timeout time.Duration
}

func (o *options) conversation() *client.Conversation {
	return client.New(o.server, o.user, &http.Client{Timeout: o.timeout})
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "supportchat",
		Short: "Talk to the AI customer support bot",
		Long: `A terminal client for the AI customer support bot.

Quick Start:
  supportchat chat                      # Start a conversation
  supportchat chat --user alice         # Continue alice's conversation
  supportchat history --user alice      # Print what the server has stored`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.server, "server", "s", "http://localhost:8080", "Support chat server URL")
	rootCmd.PersistentFlags().StringVarP(&opts.user, "user", "u", "demo-user", "User id to chat as")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Per-request timeout")

	rootCmd.AddCommand(newChatCmd(opts), newHistoryCmd(opts))
	return rootCmd
}
