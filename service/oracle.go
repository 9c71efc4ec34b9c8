package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/sirupsen/logrus"
)

var ErrEmptyCompletion = errors.New("completion is empty")

// Oracle turns a prompt into a reply.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type OracleFunc func(ctx context.Context, prompt string) (string, error)

func (f OracleFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// OpenAIOracle calls an OpenAI-compatible chat completions endpoint:
// OpenAI itself, or Gemini through its compatibility layer.
type OpenAIOracle struct {
	client *openai.Client
	model  string
	system string
	logger *logrus.Logger
}

func NewOpenAIOracle(client *openai.Client, model, system string, logger *logrus.Logger) *OpenAIOracle {
	return &OpenAIOracle{client: client, model: model, system: system, logger: logger}
}

func (o *OpenAIOracle) Complete(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(o.system),
			openai.UserMessage(prompt),
		}),
		Model: openai.F(o.model),
	}
	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	o.logger.Debugf("completion tokens: prompt=%d, response=%d, total=%d",
		completion.Usage.PromptTokens, completion.Usage.CompletionTokens, completion.Usage.TotalTokens)

	if len(completion.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	content := completion.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}
