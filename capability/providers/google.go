package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/PaawanBarach/ai-content-intelligence/capability"
)

// DefaultGeminiModel is the Gemini model used when none is given.
const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiCompleter implements capability.Completer using Google's Gemini API
// with the response MIME type pinned to JSON. Close releases the client.
type GeminiCompleter struct {
	client *genai.Client
	model  string
}

// NewGeminiCompleter creates a Gemini completion client. An empty model
// selects DefaultGeminiModel.
func NewGeminiCompleter(ctx context.Context, apiKey, model string) (*GeminiCompleter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: API key cannot be empty")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiCompleter{client: client, model: model}, nil
}

// Close releases the underlying client.
func (p *GeminiCompleter) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

func (p *GeminiCompleter) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	model := p.client.GenerativeModel(p.model)
	model.ResponseMIMEType = "application/json"
	temp := float32(0)
	model.Temperature = &temp

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", mapError("gemini", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", capability.ErrEmptyResponse
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	if text == "" {
		return "", capability.ErrEmptyResponse
	}
	return text, nil
}
