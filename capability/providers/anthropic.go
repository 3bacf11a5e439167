package providers

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/PaawanBarach/ai-content-intelligence/capability"
)

// DefaultAnthropicModel is the Claude model used when none is given.
const DefaultAnthropicModel = "claude-3-5-haiku-latest"

// AnthropicCompleter implements capability.Completer using the Anthropic
// Messages API. Claude has no dedicated JSON mode, so the prompt carries the
// JSON instruction and callers extract the object from the text. Safe for
// concurrent use.
type AnthropicCompleter struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicCompleter creates an Anthropic completion client. An empty
// model selects DefaultAnthropicModel.
func NewAnthropicCompleter(apiKey, model string) (*AnthropicCompleter, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic: API key cannot be empty")
	}
	if model == "" {
		model = DefaultAnthropicModel
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicCompleter{client: &client, model: model}, nil
}

func (p *AnthropicCompleter) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: maxCompletionTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", mapError("anthropic", err)
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", capability.ErrEmptyResponse
	}
	return text, nil
}
