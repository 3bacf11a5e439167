// Package providers contains concrete LLM completion clients behind the
// capability.Completer port: OpenRouter (OpenAI-compatible), Anthropic, and
// Google Gemini.
package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/PaawanBarach/ai-content-intelligence/capability"
)

const (
	// OpenRouterBaseURL is the OpenAI-compatible endpoint OpenRouter exposes.
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"

	// DefaultOpenRouterModel is the model used when none is given.
	DefaultOpenRouterModel = "deepseek/deepseek-r1:free"

	maxCompletionTokens = 1000
)

// OpenRouterCompleter implements capability.Completer against OpenRouter's
// OpenAI-compatible chat completions API. Safe for concurrent use.
type OpenRouterCompleter struct {
	client *openai.Client
	model  string
}

// NewOpenRouterCompleter creates an OpenRouter completion client. An empty
// model selects DefaultOpenRouterModel.
func NewOpenRouterCompleter(apiKey, model string) (*OpenRouterCompleter, error) {
	if apiKey == "" {
		return nil, errors.New("openrouter: API key cannot be empty")
	}
	if model == "" {
		model = DefaultOpenRouterModel
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(OpenRouterBaseURL),
	)

	return &OpenRouterCompleter{client: &client, model: model}, nil
}

// CompleteJSON requests a completion in JSON mode with temperature 0.
func (p *OpenRouterCompleter) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(prompt),
					},
				},
			},
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: openai.Ptr(shared.NewResponseFormatJSONObjectParam()),
		},
		Temperature:         openai.Float(0),
		MaxCompletionTokens: openai.Int(maxCompletionTokens),
	})
	if err != nil {
		return "", mapError("openrouter", err)
	}

	if len(completion.Choices) == 0 {
		return "", capability.ErrEmptyResponse
	}
	return completion.Choices[0].Message.Content, nil
}

// mapError classifies an SDK error into a capability.Error. Classification is
// by error text, which is the common denominator across the SDKs used here.
func mapError(name string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &capability.Error{
			Capability: name,
			Code:       capability.CodeNetworkError,
			Message:    "request timed out",
			Retryable:  true,
			Cause:      err,
		}
	}

	lower := strings.ToLower(err.Error())

	switch {
	case strings.Contains(lower, "429"),
		strings.Contains(lower, "rate limit"),
		strings.Contains(lower, "rate_limit"),
		strings.Contains(lower, "too many requests"),
		strings.Contains(lower, "resource_exhausted"):
		return &capability.Error{
			Capability: name,
			Code:       capability.CodeRateLimited,
			Message:    "rate limit exceeded",
			Retryable:  true,
			Cause:      err,
		}
	case strings.Contains(lower, "401"),
		strings.Contains(lower, "403"),
		strings.Contains(lower, "unauthorized"),
		strings.Contains(lower, "authentication"),
		strings.Contains(lower, "api key"),
		strings.Contains(lower, "api_key"):
		return &capability.Error{
			Capability: name,
			Code:       capability.CodeInvalidAPIKey,
			Message:    "API key is invalid or expired",
			Retryable:  false,
			Cause:      err,
		}
	case strings.Contains(lower, "quota"),
		strings.Contains(lower, "billing"):
		return &capability.Error{
			Capability: name,
			Code:       capability.CodeQuotaExceeded,
			Message:    "API quota exceeded",
			Retryable:  false,
			Cause:      err,
		}
	case strings.Contains(lower, "500"),
		strings.Contains(lower, "502"),
		strings.Contains(lower, "503"),
		strings.Contains(lower, "504"),
		strings.Contains(lower, "internal server error"),
		strings.Contains(lower, "bad gateway"),
		strings.Contains(lower, "service unavailable"),
		strings.Contains(lower, "gateway timeout"):
		return &capability.Error{
			Capability: name,
			Code:       capability.CodeServerError,
			Message:    fmt.Sprintf("server error: %v", err),
			Retryable:  true,
			Cause:      err,
		}
	case strings.Contains(lower, "connection"),
		strings.Contains(lower, "timeout"),
		strings.Contains(lower, "network"):
		return &capability.Error{
			Capability: name,
			Code:       capability.CodeNetworkError,
			Message:    fmt.Sprintf("network error: %v", err),
			Retryable:  true,
			Cause:      err,
		}
	}

	return &capability.Error{
		Capability: name,
		Code:       capability.CodeBadRequest,
		Message:    fmt.Sprintf("API error: %v", err),
		Retryable:  false,
		Cause:      err,
	}
}
