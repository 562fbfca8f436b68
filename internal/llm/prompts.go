package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spec-kit/triage-service/internal/domain"
)

const analysisSystemPrompt = `You are an expert support ticket analyzer. Analyze the ticket based on:
1. Content and subject for category
2. Priority based on:
   - Urgency words ("ASAP", "urgent", "immediately")
   - Customer role (C-level, Director gets higher priority)
   - Business impact (payroll, revenue-impacting issues)
3. Extract key points for response
4. Identify required expertise
5. Analyze business impact

Output as JSON only, no other text:
{
  "category": "one of: technical, billing, feature, access",
  "priority": 1-4 (1=low, 2=medium, 3=high, 4=urgent),
  "key_points": ["main points from the ticket"],
  "required_expertise": ["expertise needed to handle this ticket"],
  "urgency_indicators": ["words or phrases indicating urgency"],
  "business_impact": "description of business impact",
  "suggested_response_type": "suggested response template name"
}`

func buildAnalysisPrompt(ticket domain.SupportTicket) string {
	customerInfo := "None"
	if len(ticket.CustomerInfo) > 0 {
		if b, err := json.Marshal(ticket.CustomerInfo); err == nil {
			customerInfo = string(b)
		}
	}
	return fmt.Sprintf("Analyze this support ticket: Subject: %s\n\nContent: %s\n\nCustomer Info: %s",
		ticket.Subject, ticket.Content, customerInfo)
}

func buildResponseSystemPrompt(templates map[string]string) string {
	templatesJSON, err := json.MarshalIndent(templates, "", "  ")
	if err != nil {
		templatesJSON = []byte("{}")
	}
	return fmt.Sprintf(`You are an expert support response generator. Generate a response based on:
1. The ticket analysis provided
2. Available response templates
3. Context information

Available templates:
%s

Guidelines:
- Use appropriate template based on ticket category
- Personalize the response using context
- Match technical detail level to customer expertise
- Include clear action items
- Mark for approval if response involves sensitive issues

Output as JSON only, no other text:
{
  "response_text": "the generated response",
  "confidence_score": 0.0-1.0,
  "requires_approval": true or false,
  "suggested_actions": ["follow-up actions"]
}`, templatesJSON)
}

func buildResponsePrompt(in ResponseInput) string {
	contextJSON := "None"
	if len(in.Context) > 0 {
		if b, err := json.MarshalIndent(in.Context, "", "  "); err == nil {
			contextJSON = string(b)
		}
	}
	return fmt.Sprintf(`Generate a response for this ticket analysis:
Category: %s
Priority: %d
Key Points: %s
Sentiment: %.4f
Business Impact: %s

Context Information:
%s`,
		in.Analysis.Category,
		in.Analysis.Priority,
		strings.Join(in.Analysis.KeyPoints, "; "),
		in.Analysis.Sentiment,
		in.Analysis.BusinessImpact,
		contextJSON)
}

type analysisReply struct {
	Category              string   `json:"category"`
	Priority              int      `json:"priority"`
	KeyPoints             []string `json:"key_points"`
	RequiredExpertise     []string `json:"required_expertise"`
	UrgencyIndicators     []string `json:"urgency_indicators"`
	BusinessImpact        string   `json:"business_impact"`
	SuggestedResponseType string   `json:"suggested_response_type"`
}

func parseAnalysisReply(content string) (*domain.TicketAnalysis, error) {
	content = cleanJSONResponse(content)

	var reply analysisReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return nil, fmt.Errorf("failed to parse analysis reply: %w, content: %s", err, content)
	}

	category, ok := domain.ParseCategory(strings.ToLower(strings.TrimSpace(reply.Category)))
	if !ok {
		return nil, fmt.Errorf("analysis reply has unknown category %q", reply.Category)
	}
	priority := domain.TicketPriority(reply.Priority)
	if !priority.Valid() {
		return nil, fmt.Errorf("analysis reply has priority %d outside 1-4", reply.Priority)
	}

	return &domain.TicketAnalysis{
		Category:              category,
		Priority:              priority,
		KeyPoints:             reply.KeyPoints,
		RequiredExpertise:     reply.RequiredExpertise,
		UrgencyIndicators:     reply.UrgencyIndicators,
		BusinessImpact:        reply.BusinessImpact,
		SuggestedResponseType: reply.SuggestedResponseType,
	}, nil
}

type responseReply struct {
	ResponseText     string   `json:"response_text"`
	ConfidenceScore  float64  `json:"confidence_score"`
	RequiresApproval bool     `json:"requires_approval"`
	SuggestedActions []string `json:"suggested_actions"`
}

func parseResponseReply(content string) (*domain.ResponseSuggestion, error) {
	content = cleanJSONResponse(content)

	var reply responseReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return nil, fmt.Errorf("failed to parse response reply: %w, content: %s", err, content)
	}
	if strings.TrimSpace(reply.ResponseText) == "" {
		return nil, errors.New("response reply has empty response_text")
	}
	if reply.ConfidenceScore < 0 || reply.ConfidenceScore > 1 {
		return nil, fmt.Errorf("response reply has confidence %v outside 0-1", reply.ConfidenceScore)
	}

	return &domain.ResponseSuggestion{
		ResponseText:     reply.ResponseText,
		ConfidenceScore:  reply.ConfidenceScore,
		RequiresApproval: reply.RequiresApproval,
		SuggestedActions: reply.SuggestedActions,
	}, nil
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around the JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
