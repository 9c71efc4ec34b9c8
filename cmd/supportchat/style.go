package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"supportchat/client"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	botLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true)

	contentStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

func printMessage(w io.Writer, m client.Message) {
	label := botLabelStyle.Render("🤖 Bot")
	if m.Role == "user" {
		label = userLabelStyle.Render("🧑 You")
	}
	ts := ""
	if !m.Timestamp.IsZero() {
		ts = " " + timestampStyle.Render(m.Timestamp.Local().Format(time.Kitchen))
	}
	fmt.Fprintf(w, "%s%s\n%s\n\n", label, ts, contentStyle.Render(m.Content))
}
