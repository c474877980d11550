package service

import (
	"context"
	"fmt"
	"log"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"estate/internal/config"
)

// LangChainCompleter drives the interpreter through a langchaingo model
type LangChainCompleter struct {
	client      llms.Model
	temperature float64
	maxTokens   int
}

// NewLangChainCompleter creates a completer backed by langchaingo's OpenAI client
func NewLangChainCompleter(cfg *config.InterpreterConfig) (*LangChainCompleter, error) {
	client, err := openai.New(
		openai.WithBaseURL(cfg.APIBase),
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create langchain client: %w", err)
	}

	log.Printf("🔧 Interpreter using langchaingo provider (model %s)", cfg.Model)
	return &LangChainCompleter{
		client:      client,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Complete sends one system+user exchange in JSON mode and returns the reply text
func (c *LangChainCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(user)},
		},
	}

	opts := []llms.CallOption{llms.WithTemperature(c.temperature), llms.WithJSONMode()}
	if c.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(c.maxTokens))
	}

	response, err := c.client.GenerateContent(ctx, content, opts...)
	if err != nil {
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", fmt.Errorf("no choices returned from model")
	}
	return response.Choices[0].Content, nil
}
