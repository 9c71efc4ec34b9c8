package service

import (
	"strings"

	"supportchat/faq"
	"supportchat/model"
)

// EscalationPhrase is the reply the assistant is told to give when it
// cannot help. Replies containing it are handed to the notifier.
const EscalationPhrase = "Sorry, I’ll escalate this to a human representative"

// SystemInstruction is sent to the model alongside every prompt.
const SystemInstruction = `You are a helpful AI customer support assistant.
- Answer customer questions based on your knowledge and provided FAQs.
- Be friendly, concise, and professional.
- Only respond with "` + EscalationPhrase + `" if you truly cannot answer.`

const promptInstructions = `You are a helpful AI customer support assistant.
Use the FAQ context to answer questions if possible.
If the FAQs do not cover the question, answer from your general knowledge.
Only respond with "` + EscalationPhrase + `" if you truly cannot answer.`

// Speaker maps a stored role to its label in the prompt. Anything that
// is not the user is the assistant.
func Speaker(role model.Role) string {
	if role == model.RoleUser {
		return "User"
	}
	return "Assistant"
}

func renderFAQ(entries []faq.Entry) string {
	blocks := make([]string, len(entries))
	for i, e := range entries {
		blocks[i] = "Q: " + e.Question + "\nA: " + e.Answer
	}
	return strings.Join(blocks, "\n")
}

func renderHistory(history []model.Turn) string {
	lines := make([]string, len(history))
	for i, t := range history {
		lines[i] = Speaker(t.Role) + ": " + t.Content
	}
	return strings.Join(lines, "\n")
}

// AssemblePrompt builds the single text prompt for the model.
func AssemblePrompt(history []model.Turn, entries []faq.Entry, newMessage string) string {
	var b strings.Builder
	b.WriteString(promptInstructions)
	b.WriteString("\n\nFAQs:\n")
	b.WriteString(renderFAQ(entries))
	b.WriteString("\n\nConversation history:\n")
	b.WriteString(renderHistory(history))
	b.WriteString("\n\nUser: ")
	b.WriteString(newMessage)
	b.WriteString("\n\nAssistant:")
	return b.String()
}
