package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/spec-kit/triage-service/internal/domain"
)

// AnthropicProvider calls the Anthropic messages API.
type AnthropicProvider struct {
	client    *anthropic.Client
	model     anthropic.Model
	modelName string
	maxTokens int64
}

// NewAnthropicProvider builds a provider for the given API key and model.
func NewAnthropicProvider(apiKey, model string, maxTokens int) *AnthropicProvider {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &AnthropicProvider{
		client:    &client,
		model:     anthropic.Model(model),
		modelName: model,
		maxTokens: int64(maxTokens),
	}
}

func (p *AnthropicProvider) Name() string {
	return "anthropic/" + p.modelName
}

// Analyze submits the ticket for classification and parses the JSON reply.
func (p *AnthropicProvider) Analyze(ctx context.Context, ticket domain.SupportTicket) (*domain.TicketAnalysis, error) {
	content, err := p.complete(ctx, analysisSystemPrompt, buildAnalysisPrompt(ticket))
	if err != nil {
		return nil, err
	}
	return parseAnalysisReply(content)
}

// Respond submits the analysis for response generation and parses the JSON reply.
func (p *AnthropicProvider) Respond(ctx context.Context, in ResponseInput) (*domain.ResponseSuggestion, error) {
	content, err := p.complete(ctx, buildResponseSystemPrompt(in.Templates), buildResponsePrompt(in))
	if err != nil {
		return nil, err
	}
	return parseResponseReply(content)
}

func (p *AnthropicProvider) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", errors.New("no response from anthropic")
	}
	return resp.Content[0].Text, nil
}
