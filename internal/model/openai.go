package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

type openAIClient struct {
	client    openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewOpenAIClient creates a client for OpenAI-compatible chat completion endpoints.
// An empty baseURL uses the OpenAI default.
func NewOpenAIClient(apiKey, baseURL, model string, maxTokens int, timeout time.Duration, opts ...option.RequestOption) Client {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		base = append(base, option.WithBaseURL(baseURL))
	}
	return &openAIClient{
		client:    openai.NewClient(append(base, opts...)...),
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
	}
}

func (o *openAIClient) Ask(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(int64(o.maxTokens)),
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("openai api: %w", ErrTimeout)
		}
		return "", fmt.Errorf("openai api: %v: %w", err, ErrModel)
	}

	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	text := resp.Choices[0].Message.Content
	if text == "" {
		text = resp.Choices[0].Message.Refusal
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
