package llm

import (
	"WidgetBackend/pkg/gemini"
	"WidgetBackend/pkg/openai"
	"WidgetBackend/pkg/prompt"
	"context"
	"fmt"
	"strings"
)

const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// IChatModel answers an assembled prompt.
type IChatModel interface {
	Complete(ctx context.Context, turns []prompt.Turn) (string, error)
}

// New picks the provider named by LLM_PROVIDER. Groq is the default.
func New(provider string) (IChatModel, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderGroq:
		return openai.NewGroq()
	case ProviderGemini:
		return gemini.NewGeminiClient()
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}
