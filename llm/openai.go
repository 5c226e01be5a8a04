package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIBackend serves generation capabilities through the OpenAI API.
// The conversational kind maps to chat completions and the text-generation
// kind to legacy completions. Canonical result shapes:
// chat -> choices[0].message.content, completion -> choices[0].text.
type OpenAIBackend struct {
	client *openai.Client
}

func NewOpenAIBackend(apiKey string) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	return &OpenAIBackend{client: openai.NewClient(apiKey)}, nil
}

func (b *OpenAIBackend) Load(ctx context.Context, model string, kind Kind) (Capability, error) {
	switch kind {
	case KindConversational:
		return &chatCapability{client: b.client, model: model}, nil
	case KindTextGeneration:
		return &completionCapability{client: b.client, model: model}, nil
	default:
		return nil, fmt.Errorf("unknown capability kind %q", kind)
	}
}

type chatCapability struct {
	client *openai.Client
	model  string
}

func (c *chatCapability) Generate(ctx context.Context, prompt string, p Params) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: p.MaxLength,
		TopP:      float32(p.TopP),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// completionCapability drives the legacy completions endpoint. The API has
// no top_k parameter, so Params.TopK is ignored here.
type completionCapability struct {
	client *openai.Client
	model  string
}

func (c *completionCapability) Generate(ctx context.Context, prompt string, p Params) (string, error) {
	resp, err := c.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:     c.model,
		Prompt:    prompt,
		MaxTokens: p.MaxLength,
		TopP:      float32(p.TopP),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Text, nil
}
