package ranker

import (
	"context"
	"sort"
	"strings"

	"blii-be/internal/entity"

	"github.com/google/uuid"
)

// Config holds the tunable knobs of the cascade. Values come from
// internal/constant so tests can shrink the windows.
type Config struct {
	RecentWindowSize       int
	MinExtractedTextLength int
	MaxResults             int
	DeicticTerms           []string
}

// Ranker selects which of a user's saved items are relevant to a query.
// It is a prioritized cascade: each tier is tried only when the previous
// one produced nothing.
type Ranker struct {
	cfg       Config
	extractor *KeywordExtractor
}

func New(cfg Config, extractor *KeywordExtractor) *Ranker {
	return &Ranker{cfg: cfg, extractor: extractor}
}

type scoredItem struct {
	item  *entity.Item
	score int
}

// Rank returns a deduplicated, capped subset of non-deleted items believed
// relevant to the query, best first. An empty result tells the caller to
// answer from general knowledge.
//
// Tier order: recency-scoped keyword match, deictic recency fallback,
// global keyword match, media-type fallback, empty.
func (r *Ranker) Rank(ctx context.Context, query string, items []*entity.Item) []*entity.Item {
	return r.RankExcluding(ctx, query, items, nil)
}

// RankExcluding is Rank with an exclusion set, used when the user asks for
// "similar" items so the ones already shown are not repeated.
func (r *Ranker) RankExcluding(ctx context.Context, query string, items []*entity.Item, exclude []uuid.UUID) []*entity.Item {
	candidates := filterUsable(items, exclude)
	if len(candidates) == 0 {
		return nil
	}

	// Newest first; every tier leans on recency.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})

	keywords := r.extractor.Extract(ctx, query)

	if matched := r.recencyScopedMatch(candidates, keywords); len(matched) > 0 {
		return matched
	}
	if matched := r.deicticFallback(query, candidates); len(matched) > 0 {
		return matched
	}
	if matched := r.globalMatch(candidates, keywords); len(matched) > 0 {
		return matched
	}
	return r.typeFallback(candidates)
}

// filterUsable drops soft-deleted and explicitly excluded items.
func filterUsable(items []*entity.Item, exclude []uuid.UUID) []*entity.Item {
	excluded := make(map[uuid.UUID]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}
	usable := make([]*entity.Item, 0, len(items))
	for _, it := range items {
		if it == nil || it.IsDeleted || excluded[it.Id] {
			continue
		}
		usable = append(usable, it)
	}
	return usable
}

// Tier 1: keyword scoring over the most recent window of items that carry a
// substantial amount of extracted text.
func (r *Ranker) recencyScopedMatch(sorted []*entity.Item, keywords []string) []*entity.Item {
	if len(keywords) == 0 {
		return nil
	}

	window := make([]*entity.Item, 0, r.cfg.RecentWindowSize)
	for _, it := range sorted {
		if len(it.ExtractedText) > r.cfg.MinExtractedTextLength {
			window = append(window, it)
			if len(window) == r.cfg.RecentWindowSize {
				break
			}
		}
	}

	return r.scoreAndCap(window, keywords)
}

// Tier 2: the user is pointing at something ("it", "the pdf") rather than
// naming its content. Return the 1-2 most recent readable items.
func (r *Ranker) deicticFallback(query string, sorted []*entity.Item) []*entity.Item {
	lowered := strings.ToLower(query)
	referring := false
	for _, term := range r.cfg.DeicticTerms {
		if containsWord(lowered, term) {
			referring = true
			break
		}
	}
	if !referring {
		return nil
	}

	out := make([]*entity.Item, 0, 2)
	for _, it := range sorted {
		if it.ExtractedText != "" {
			out = append(out, it)
			if len(out) == 2 {
				break
			}
		}
	}
	return out
}

// Tier 3: same scoring as tier 1, but over the whole library.
func (r *Ranker) globalMatch(sorted []*entity.Item, keywords []string) []*entity.Item {
	if len(keywords) == 0 {
		return nil
	}
	return r.scoreAndCap(sorted, keywords)
}

// Tier 4: nothing matched at all; hand back the latest saved media so the
// assistant has something concrete to talk about.
func (r *Ranker) typeFallback(sorted []*entity.Item) []*entity.Item {
	out := make([]*entity.Item, 0, 2)
	for _, it := range sorted {
		switch it.Kind {
		case entity.ItemKindImage, entity.ItemKindFile, entity.ItemKindLink:
			out = append(out, it)
			if len(out) == 2 {
				return out
			}
		}
	}
	return out
}

// scoreAndCap scores each candidate against the keywords and returns the top
// MaxResults with score > 0, best first. The input is already newest-first,
// and the stable sort preserves that order among equal scores.
func (r *Ranker) scoreAndCap(candidates []*entity.Item, keywords []string) []*entity.Item {
	scored := make([]scoredItem, 0, len(candidates))
	for _, it := range candidates {
		if s := scoreItem(it, keywords); s > 0 {
			scored = append(scored, scoredItem{item: it, score: s})
		}
	}
	if len(scored) == 0 {
		return nil
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	n := r.cfg.MaxResults
	if len(scored) < n {
		n = len(scored)
	}
	out := make([]*entity.Item, n)
	for i := 0; i < n; i++ {
		out[i] = scored[i].item
	}
	return out
}

// scoreItem counts keyword hits over the item's searchable text: 2 points
// per occurrence plus 1 point for each keyword present at all.
func scoreItem(it *entity.Item, keywords []string) int {
	haystack := strings.ToLower(
		it.ExtractedText + " " + it.ExtractedTitle + " " + it.Content + " " + it.Filename,
	)
	score := 0
	for _, kw := range keywords {
		occurrences := strings.Count(haystack, kw)
		if occurrences > 0 {
			score += occurrences*2 + 1
		}
	}
	return score
}

// containsWord does a whole-word match so that "it" doesn't fire inside
// "fitness".
func containsWord(text, word string) bool {
	start := 0
	for {
		idx := strings.Index(text[start:], word)
		if idx < 0 {
			return false
		}
		idx += start
		before := idx == 0 || !isLetter(text[idx-1])
		afterIdx := idx + len(word)
		after := afterIdx >= len(text) || !isLetter(text[afterIdx])
		if before && after {
			return true
		}
		start = idx + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
