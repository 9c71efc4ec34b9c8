package platform

import (
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// geminiOpenAIBaseURL is Gemini's OpenAI-compatible endpoint.
const geminiOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// llmBaseURL returns LLM_BASE_URL if set, Gemini's endpoint for the gemini
// provider, and "" (the SDK default) otherwise.
func llmBaseURL(config LLMConfig) string {
	if config.BaseURL != "" {
		return config.BaseURL
	}
	if config.Provider == "gemini" {
		return geminiOpenAIBaseURL
	}
	return ""
}

// NewLLMClient builds an OpenAI-compatible client for either provider.
// Retries are disabled: a failed completion is reported once.
func NewLLMClient(config LLMConfig) *openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(config.Timeout),
	}
	if baseURL := llmBaseURL(config); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return openai.NewClient(opts...)
}
