package ranker

import (
	"context"
	"reflect"
	"testing"

	"blii-be/internal/constant"
)

func TestExtractHeuristic(t *testing.T) {
	e := NewKeywordExtractor(nil, constant.StopWords, constant.MinKeywordLength)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "drops stop words and short tokens",
			query: "what did the article say on mortgage rates?",
			want:  []string{"article", "mortgage", "rates"},
		},
		{
			name:  "strips punctuation and lowercases",
			query: "Explain (quickly!) the Mortgage process.",
			want:  []string{"explain", "quickly", "mortgage", "process"},
		},
		{
			name:  "deduplicates",
			query: "mortgage mortgage mortgage advice",
			want:  []string{"mortgage", "advice"},
		},
		{
			name:  "nothing usable",
			query: "how to do it",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(context.Background(), tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}
