// Package genai wraps the hosted generation API behind capability
// interfaces: classify a message, summarize a chat into clues, illustrate a
// card. All intelligence is delegated upstream; nothing is reimplemented
// locally.
package genai

import (
	"context"
	"errors"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var (
	// ErrNoSuggestions is the typed "nothing to offer" result: the upstream
	// call failed or returned an empty set. Callers surface a friendly
	// message instead of an error page.
	ErrNoSuggestions = errors.New("no suggestions available")
	// ErrTopicTooShort is a validation failure raised before any upstream call.
	ErrTopicTooShort = errors.New("topic must be at least 3 characters")
	// ErrSafetyBlocked means the provider's safety filter refused the prompt.
	// An expected outcome, not a failure.
	ErrSafetyBlocked = errors.New("image could not be generated due to safety policies")
)

// Generator is the capability boundary to the hosted model. Complete sends a
// prompt pair and returns the raw JSON text of the reply; Illustrate returns
// a base64-encoded PNG.
type Generator interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Illustrate(ctx context.Context, prompt string) (string, error)
}

// OpenAIGenerator implements Generator against the OpenAI-compatible API.
type OpenAIGenerator struct {
	client     *openai.Client
	chatModel  string
	imageModel string
}

// NewOpenAIGenerator builds a generator from the environment
// (OPENAI_API_KEY, optional OPENAI_CHAT_MODEL / OPENAI_IMAGE_MODEL).
func NewOpenAIGenerator() (*OpenAIGenerator, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}

	chatModel := os.Getenv("OPENAI_CHAT_MODEL")
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}
	imageModel := os.Getenv("OPENAI_IMAGE_MODEL")
	if imageModel == "" {
		imageModel = openai.CreateImageModelDallE3
	}

	return &OpenAIGenerator{
		client:     openai.NewClient(apiKey),
		chatModel:  chatModel,
		imageModel: imageModel,
	}, nil
}

// Complete runs one structured request/response pair in JSON mode. No
// streaming, no retries: every retry is a manual user action.
func (g *OpenAIGenerator) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Illustrate requests a single 9:16 image and returns its base64 PNG bytes.
// Provider safety refusals map to ErrSafetyBlocked.
func (g *OpenAIGenerator) Illustrate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Model:          g.imageModel,
		Prompt:         prompt,
		N:              1,
		Size:           openai.CreateImageSize1024x1792,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		if isSafetyRefusal(err) {
			return "", ErrSafetyBlocked
		}
		return "", err
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", errors.New("the model did not return an image")
	}
	return resp.Data[0].B64JSON, nil
}

func isSafetyRefusal(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if code, ok := apiErr.Code.(string); ok && strings.Contains(code, "content_policy") {
			return true
		}
	}
	return strings.Contains(err.Error(), "content_policy")
}
