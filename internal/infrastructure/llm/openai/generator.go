package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"

	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/application/itinerary"
	"github.com/baechuer/real-time-ressys/services/itinerary-service/internal/tracing"
)

const DefaultModel = "gpt-4o-mini"

var (
	_ itinerary.ContentGenerator = (*Generator)(nil)

	ErrEmptyCompletion = errors.New("openai: completion has no content")
)

// Generator produces itinerary content through the chat completions API in
// JSON mode. The deadline comes from the caller's context.
type Generator struct {
	client      *goopenai.Client
	model       string
	temperature float32
	maxTokens   int
}

func New(opts ...Option) (*Generator, error) {
	o := &options{
		model:       DefaultModel,
		httpClient:  http.DefaultClient,
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(o)
	}
	if strings.TrimSpace(o.token) == "" {
		return nil, errors.New("missing the OpenAI API key, set it in the OPENAI_API_KEY environment variable")
	}

	cfg := goopenai.DefaultConfig(o.token)
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	if o.httpClient != nil {
		cfg.HTTPClient = o.httpClient
	}

	return &Generator{
		client:      goopenai.NewClientWithConfig(cfg),
		model:       o.model,
		temperature: o.temperature,
		maxTokens:   o.maxTokens,
	}, nil
}

func (g *Generator) Generate(ctx context.Context, b itinerary.Brief) (content string, err error) {
	ctx, span := tracing.StartCollaboratorSpan(ctx, "openai", "chat_completion",
		attribute.String("llm.model", g.model),
		attribute.Int("itinerary.days", b.Days),
	)
	defer func() { tracing.End(span, err) }()

	req := goopenai.ChatCompletionRequest{
		Model: g.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: b.Instructions},
			{Role: goopenai.ChatMessageRoleUser, Content: b.Prompt},
		},
		Temperature: g.temperature,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	if g.maxTokens > 0 {
		req.MaxCompletionTokens = g.maxTokens
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}

	span.SetAttributes(attribute.Int("llm.total_tokens", resp.Usage.TotalTokens))
	return resp.Choices[0].Message.Content, nil
}
