package openai

import (
	"WidgetBackend/pkg/prompt"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"
)

const (
	GroqBaseURL      = "https://api.groq.com/openai/v1"
	DefaultGroqModel = "llama-3.1-8b-instant"
)

type IChatCompletion interface {
	Complete(ctx context.Context, turns []prompt.Turn) (string, error)
}

type chatCompletion struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewGroq builds a client for Groq's OpenAI-compatible endpoint from
// GROQ_API_KEY, GROQ_BASE_URL and GROQ_MODEL.
func NewGroq() (IChatCompletion, error) {
	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		return nil, errors.New("groq API key is required")
	}

	baseURL := os.Getenv("GROQ_BASE_URL")
	if baseURL == "" {
		baseURL = GroqBaseURL
	}

	model := os.Getenv("GROQ_MODEL")
	if model == "" {
		model = DefaultGroqModel
	}

	return NewWithConfig(apiKey, baseURL, model), nil
}

func NewWithConfig(apiKey, baseURL, model string) IChatCompletion {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &chatCompletion{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: 0.7,
		maxTokens:   512,
	}
}

func (c *chatCompletion) Complete(ctx context.Context, turns []prompt.Turn) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, turn := range turns {
		role := openai.ChatMessageRoleUser
		if turn.Role == prompt.RoleSystem {
			role = openai.ChatMessageRoleSystem
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    messages,
			Temperature: c.temperature,
			MaxTokens:   c.maxTokens,
		},
	)
	if err != nil {
		return "", fmt.Errorf("chat completion error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from chat completion")
	}

	return resp.Choices[0].Message.Content, nil
}
