package ranker

import (
	"context"
	"strings"

	"blii-be/pkg/llm"
)

// KeywordExtractor turns a natural-language query into a handful of search
// keywords. The heuristic path is always available; the LLM path is an
// enhancement that falls back to the heuristic on any failure.
type KeywordExtractor struct {
	llmProvider llm.LLMProvider // optional
	stopWords   map[string]bool
	minLength   int
}

func NewKeywordExtractor(llmProvider llm.LLMProvider, stopWords []string, minLength int) *KeywordExtractor {
	stops := make(map[string]bool, len(stopWords))
	for _, w := range stopWords {
		stops[w] = true
	}
	return &KeywordExtractor{
		llmProvider: llmProvider,
		stopWords:   stops,
		minLength:   minLength,
	}
}

// Extract returns lowercase keywords for the query. Never returns an error:
// a dead LLM just means heuristic keywords.
func (e *KeywordExtractor) Extract(ctx context.Context, query string) []string {
	if e.llmProvider != nil {
		if keywords := e.extractWithLLM(ctx, query); len(keywords) > 0 {
			return keywords
		}
	}
	return e.extractHeuristic(query)
}

func (e *KeywordExtractor) extractHeuristic(query string) []string {
	words := strings.Fields(strings.ToLower(query))
	keywords := make([]string, 0, len(words))
	seen := make(map[string]bool)
	for _, w := range words {
		w = strings.Trim(w, `.,!?;:"'()[]`)
		if len(w) < e.minLength || e.stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
	}
	return keywords
}

const keywordPrompt = `Extract 3-7 search keywords from this question. Return only the keywords, comma-separated, lowercase, no explanations.

Question: %s`

func (e *KeywordExtractor) extractWithLLM(ctx context.Context, query string) []string {
	response, err := e.llmProvider.Generate(ctx,
		strings.Replace(keywordPrompt, "%s", query, 1),
		llm.WithTemperature(0.3),
	)
	if err != nil || strings.TrimSpace(response) == "" {
		return nil
	}

	parts := strings.Split(response, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		kw := strings.ToLower(strings.TrimSpace(p))
		kw = strings.Trim(kw, `."'`)
		if kw == "" || strings.ContainsAny(kw, "\n:") {
			continue
		}
		keywords = append(keywords, kw)
	}
	if len(keywords) > 7 {
		keywords = keywords[:7]
	}
	return keywords
}
