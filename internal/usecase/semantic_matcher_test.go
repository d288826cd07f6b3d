package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/arbiscout/backend/internal/domain"
)

// vectorEmbedder returns fixed vectors for texts containing a keyword
type vectorEmbedder struct {
	vectors  map[string][]float32
	fallback []float32
	err      error
}

func (s *vectorEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	for keyword, vec := range s.vectors {
		if strings.Contains(strings.ToLower(text), keyword) {
			return vec, nil
		}
	}
	return s.fallback, nil
}

func TestSemanticMatcher_Match(t *testing.T) {
	t.Run("similar entry above threshold matches", func(t *testing.T) {
		catalog := &countingCatalog{byKeywords: []domain.CatalogEntry{
			{ASIN: "B0SIMILAR1", Title: "Cordless Vacuum Cleaner V15", Brand: "Dyson", Category: "home"},
		}}
		embedder := &vectorEmbedder{fallback: []float32{1, 0, 0}}
		matcher := NewSemanticMatcher(catalog, embedder, SemanticMatcherConfig{})

		candidate, err := matcher.Match(context.Background(), domain.ScrapedProduct{
			ID:       "p-1",
			Title:    "Dyson V15 Cordless Vacuum",
			Brand:    "Dyson",
			Category: "home",
		})
		if err != nil {
			t.Fatalf("Match() error = %v, want nil", err)
		}
		if candidate == nil {
			t.Fatal("Match() = nil, want candidate")
		}
		if candidate.Method != domain.MatchMethodSemantic {
			t.Errorf("Method = %s, want %s", candidate.Method, domain.MatchMethodSemantic)
		}
		if candidate.Confidence <= 0 || candidate.Confidence > 0.99 {
			t.Errorf("Confidence = %v, want in (0, 0.99]", candidate.Confidence)
		}
	})

	t.Run("dissimilar entry below threshold is rejected", func(t *testing.T) {
		catalog := &countingCatalog{byKeywords: []domain.CatalogEntry{
			{ASIN: "B0FARAWAY1", Title: "Garden Rake", Brand: "GrowGreen"},
		}}
		embedder := &vectorEmbedder{
			vectors:  map[string][]float32{"garden": {0, 1, 0}},
			fallback: []float32{1, 0, 0},
		}
		matcher := NewSemanticMatcher(catalog, embedder, SemanticMatcherConfig{})

		candidate, err := matcher.Match(context.Background(), domain.ScrapedProduct{
			ID:    "p-2",
			Title: "Dyson V15 Cordless Vacuum",
		})
		if err != nil {
			t.Fatalf("Match() error = %v, want nil", err)
		}
		if candidate != nil {
			t.Errorf("Match() = %v, want nil below similarity threshold", candidate)
		}
	})

	t.Run("most similar of several candidates wins", func(t *testing.T) {
		catalog := &countingCatalog{byKeywords: []domain.CatalogEntry{
			{ASIN: "B0PARTIAL1", Title: "Handheld Vacuum"},
			{ASIN: "B0CLOSEST1", Title: "Cordless Stick Vacuum"},
		}}
		embedder := &vectorEmbedder{
			vectors: map[string][]float32{
				"handheld": {0.8, 0.6, 0},
				"cordless": {1, 0, 0},
			},
			fallback: []float32{1, 0, 0},
		}
		matcher := NewSemanticMatcher(catalog, embedder, SemanticMatcherConfig{})

		candidate, err := matcher.Match(context.Background(), domain.ScrapedProduct{
			ID:    "p-3",
			Title: "Stick Vacuum Cleaner",
		})
		if err != nil {
			t.Fatalf("Match() error = %v, want nil", err)
		}
		if candidate == nil {
			t.Fatal("Match() = nil, want candidate")
		}
		if candidate.ASIN != "B0CLOSEST1" {
			t.Errorf("ASIN = %s, want B0CLOSEST1", candidate.ASIN)
		}
	})

	t.Run("empty title yields nil without embedding", func(t *testing.T) {
		matcher := NewSemanticMatcher(&countingCatalog{}, &vectorEmbedder{err: errors.New("must not be called")}, SemanticMatcherConfig{})

		candidate, err := matcher.Match(context.Background(), domain.ScrapedProduct{ID: "p-4"})
		if err != nil {
			t.Fatalf("Match() error = %v, want nil", err)
		}
		if candidate != nil {
			t.Errorf("Match() = %v, want nil", candidate)
		}
	})

	t.Run("nil embedder disables semantic matching", func(t *testing.T) {
		matcher := NewSemanticMatcher(&countingCatalog{}, nil, SemanticMatcherConfig{})

		candidate, err := matcher.Match(context.Background(), domain.ScrapedProduct{ID: "p-5", Title: "Anything"})
		if err != nil {
			t.Fatalf("Match() error = %v, want nil", err)
		}
		if candidate != nil {
			t.Errorf("Match() = %v, want nil", candidate)
		}
	})

	t.Run("product embedding failure is returned", func(t *testing.T) {
		matcher := NewSemanticMatcher(&countingCatalog{}, &vectorEmbedder{err: errors.New("model server down")}, SemanticMatcherConfig{})

		_, err := matcher.Match(context.Background(), domain.ScrapedProduct{ID: "p-6", Title: "Stick Vacuum"})
		if err == nil {
			t.Error("Match() error = nil, want embedding failure")
		}
	})
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"empty", nil, nil, 0},
		{"length mismatch", []float32{1, 0}, []float32{1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSemanticQuery(t *testing.T) {
	t.Run("brand plus meaningful title words", func(t *testing.T) {
		got := semanticQuery(domain.ScrapedProduct{
			Title: "the cordless vacuum cleaner for home use",
			Brand: "Dyson",
		})
		if !strings.HasPrefix(got, "Dyson") {
			t.Errorf("semanticQuery = %q, want brand prefix", got)
		}
		if strings.Contains(got, "the") || strings.Contains(got, "for") {
			t.Errorf("semanticQuery = %q, want stop words dropped", got)
		}
	})

	t.Run("bounded term count", func(t *testing.T) {
		got := semanticQuery(domain.ScrapedProduct{
			Title: "alpha bravo charlie delta echo foxtrot golf hotel",
		})
		if n := len(strings.Fields(got)); n > 4 {
			t.Errorf("semanticQuery has %d terms, want <= 4", n)
		}
	})
}
