package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/spec-kit/triage-service/internal/domain"
)

// OpenAIProvider calls the OpenAI chat completions API.
type OpenAIProvider struct {
	client    *openai.Client
	model     openai.ChatModel
	modelName string
}

// NewOpenAIProvider builds a provider for the given API key and model.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{
		client:    &client,
		model:     openai.ChatModel(model),
		modelName: model,
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai/" + p.modelName
}

// Analyze submits the ticket for classification and parses the JSON reply.
func (p *OpenAIProvider) Analyze(ctx context.Context, ticket domain.SupportTicket) (*domain.TicketAnalysis, error) {
	content, err := p.complete(ctx, analysisSystemPrompt, buildAnalysisPrompt(ticket))
	if err != nil {
		return nil, err
	}
	return parseAnalysisReply(content)
}

// Respond submits the analysis for response generation and parses the JSON reply.
func (p *OpenAIProvider) Respond(ctx context.Context, in ResponseInput) (*domain.ResponseSuggestion, error) {
	content, err := p.complete(ctx, buildResponseSystemPrompt(in.Templates), buildResponsePrompt(in))
	if err != nil {
		return nil, err
	}
	return parseResponseReply(content)
}

func (p *OpenAIProvider) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}
