package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spec-kit/triage-service/internal/config"
)

// HuggingFaceScorer calls the HuggingFace inference API's sentence-similarity
// pipeline. The model compares the ticket text against the two anchor
// sentences and returns one similarity per anchor.
type HuggingFaceScorer struct {
	apiKey     string
	model      string
	baseURL    string
	positive   string
	negative   string
	httpClient *http.Client
}

// NewHuggingFaceScorer builds a scorer from configuration.
func NewHuggingFaceScorer(cfg config.SentimentConfig) *HuggingFaceScorer {
	return &HuggingFaceScorer{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    cfg.BaseURL,
		positive:   cfg.PositiveAnchor,
		negative:   cfg.NegativeAnchor,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
	}
}

type similarityRequest struct {
	Inputs similarityInputs `json:"inputs"`
}

type similarityInputs struct {
	SourceSentence string   `json:"source_sentence"`
	Sentences      []string `json:"sentences"`
}

// Score computes similarity(positive anchor) - similarity(negative anchor).
func (s *HuggingFaceScorer) Score(ctx context.Context, text string) (float64, error) {
	payload := similarityRequest{
		Inputs: similarityInputs{
			SourceSentence: text,
			Sentences:      []string{s.positive, s.negative},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("sentiment request encode: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("sentiment call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("sentiment service returned %d: %s", resp.StatusCode, raw)
	}

	var similarities []float64
	if err := json.NewDecoder(resp.Body).Decode(&similarities); err != nil {
		return 0, fmt.Errorf("sentiment decode: %w", err)
	}
	if len(similarities) < 2 {
		return 0, fmt.Errorf("sentiment service returned %d similarities, want 2", len(similarities))
	}

	return similarities[0] - similarities[1], nil
}
