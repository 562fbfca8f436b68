package sentiment

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spec-kit/triage-service/internal/config"
)

func newTestScorer(baseURL string) *HuggingFaceScorer {
	return NewHuggingFaceScorer(config.SentimentConfig{
		APIKey:         "test-key",
		Model:          "sentence-transformers/all-MiniLM-L6-v2",
		BaseURL:        baseURL,
		TimeoutSeconds: 5,
		PositiveAnchor: "I am very happy and satisfied with the service",
		NegativeAnchor: "I am very frustrated and unhappy with the service",
	})
}

func TestScoreComputesDifference(t *testing.T) {
	var gotPath string
	var gotBody similarityRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization header = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]float64{0.83, 0.12})
	}))
	defer srv.Close()

	score, err := newTestScorer(srv.URL).Score(context.Background(), "This service is great!")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if math.Abs(score-0.71) > 1e-9 {
		t.Errorf("score = %v, want 0.71", score)
	}
	if gotPath != "/models/sentence-transformers/all-MiniLM-L6-v2" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotBody.Inputs.SourceSentence != "This service is great!" {
		t.Errorf("source sentence = %q", gotBody.Inputs.SourceSentence)
	}
	if len(gotBody.Inputs.Sentences) != 2 {
		t.Fatalf("anchors sent = %d, want 2", len(gotBody.Inputs.Sentences))
	}
}

func TestScoreErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := newTestScorer(srv.URL).Score(context.Background(), "text"); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestScoreMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected":"shape"}`))
	}))
	defer srv.Close()

	if _, err := newTestScorer(srv.URL).Score(context.Background(), "text"); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestScoreTooFewSimilarities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]float64{0.5})
	}))
	defer srv.Close()

	if _, err := newTestScorer(srv.URL).Score(context.Background(), "text"); err == nil {
		t.Fatal("expected error when fewer than 2 similarities returned")
	}
}
