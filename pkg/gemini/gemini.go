package gemini

import (
	"WidgetBackend/pkg/prompt"
	"context"
	"errors"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultModelName = "gemini-1.5-flash"

type IGemini interface {
	Complete(ctx context.Context, turns []prompt.Turn) (string, error)
	Close()
}

type geminiClient struct {
	modelName string
	client    *genai.Client
}

func NewGeminiClient() (IGemini, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	modelName := os.Getenv("GEMINI_MODEL_NAME")
	if modelName == "" {
		modelName = DefaultModelName
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &geminiClient{
		modelName: modelName,
		client:    client,
	}, nil
}

// Complete sends system turns as the system instruction and the remaining
// turns as the user content, keeping their order.
func (g *geminiClient) Complete(ctx context.Context, turns []prompt.Turn) (string, error) {
	system, user := SplitTurns(turns)
	if len(user) == 0 {
		return "", errors.New("no user message to send")
	}

	model := g.client.GenerativeModel(g.modelName)
	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{Parts: system}
	}

	res, err := model.GenerateContent(ctx, user...)
	if err != nil {
		return "", err
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no response from Gemini API")
	}

	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("unexpected response format from Gemini API")
	}

	return sb.String(), nil
}

func (g *geminiClient) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

func SplitTurns(turns []prompt.Turn) (system []genai.Part, user []genai.Part) {
	for _, turn := range turns {
		if turn.Role == prompt.RoleSystem {
			system = append(system, genai.Text(turn.Content))
			continue
		}
		user = append(user, genai.Text(turn.Content))
	}
	return system, user
}
