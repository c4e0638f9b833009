package ranker

import (
	"context"
	"strings"
	"testing"
	"time"

	"blii-be/internal/constant"
	"blii-be/internal/entity"

	"github.com/google/uuid"
)

func testRanker() *Ranker {
	extractor := NewKeywordExtractor(nil, constant.StopWords, constant.MinKeywordLength)
	return New(Config{
		RecentWindowSize:       constant.RecentWindowSize,
		MinExtractedTextLength: constant.MinExtractedTextLength,
		MaxResults:             constant.MaxRankedItems,
		DeicticTerms:           constant.DeicticTerms,
	}, extractor)
}

// longText pads a topic sentence so the item clears the extracted-text
// threshold for the recency tier.
func longText(topic string) string {
	return topic + " " + strings.Repeat("lorem ipsum filler words here ", 5)
}

func makeItem(kind, content, extracted string, age time.Duration) *entity.Item {
	return &entity.Item{
		Id:            uuid.New(),
		UserId:        uuid.New(),
		Kind:          kind,
		Content:       content,
		ExtractedText: extracted,
		CreatedAt:     time.Now().Add(-age),
	}
}

func TestRankKeywordMatch(t *testing.T) {
	mortgage := makeItem(entity.ItemKindLink, "", longText("current mortgage rates are falling"), time.Hour)
	recipe := makeItem(entity.ItemKindLink, "", longText("pasta recipe with garlic"), 2*time.Hour)

	r := testRanker()
	got := r.Rank(context.Background(), "what did that article say about mortgage rates?", []*entity.Item{recipe, mortgage})

	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Id != mortgage.Id {
		t.Errorf("ranked item = %v, want mortgage article", got[0].Content)
	}
}

func TestRankCapsResults(t *testing.T) {
	items := make([]*entity.Item, 0, 6)
	for i := 0; i < 6; i++ {
		items = append(items, makeItem(entity.ItemKindText, "", longText("mortgage notes"), time.Duration(i)*time.Hour))
	}

	got := testRanker().Rank(context.Background(), "mortgage", items)
	if len(got) != constant.MaxRankedItems {
		t.Errorf("len = %d, want %d", len(got), constant.MaxRankedItems)
	}
}

func TestRankTieBreaksNewestFirst(t *testing.T) {
	older := makeItem(entity.ItemKindText, "", longText("mortgage advice"), 3*time.Hour)
	newer := makeItem(entity.ItemKindText, "", longText("mortgage advice"), time.Hour)

	got := testRanker().Rank(context.Background(), "mortgage", []*entity.Item{older, newer})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Id != newer.Id {
		t.Errorf("first result is not the newest item")
	}
}

func TestRankHigherScoreBeatsRecency(t *testing.T) {
	// Older item mentions the keyword three times, newer only once.
	rich := makeItem(entity.ItemKindText, "", longText("mortgage mortgage mortgage"), 5*time.Hour)
	sparse := makeItem(entity.ItemKindText, "", longText("mortgage"), time.Hour)

	got := testRanker().Rank(context.Background(), "mortgage", []*entity.Item{sparse, rich})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Id != rich.Id {
		t.Errorf("higher-scoring item should rank first regardless of age")
	}
}

func TestRankExcludesDeleted(t *testing.T) {
	deleted := makeItem(entity.ItemKindText, "", longText("mortgage details"), time.Hour)
	deleted.IsDeleted = true

	got := testRanker().Rank(context.Background(), "mortgage", []*entity.Item{deleted})
	if len(got) != 0 {
		t.Errorf("soft-deleted item leaked into results")
	}
}

func TestRankExcluding(t *testing.T) {
	first := makeItem(entity.ItemKindText, "", longText("mortgage basics"), time.Hour)
	second := makeItem(entity.ItemKindText, "", longText("mortgage refinancing"), 2*time.Hour)

	got := testRanker().RankExcluding(context.Background(), "mortgage", []*entity.Item{first, second}, []uuid.UUID{first.Id})
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Id != second.Id {
		t.Errorf("excluded item came back")
	}
}

func TestRankDeicticFallback(t *testing.T) {
	// Short extracted text keeps both items out of the keyword window, and
	// "what does it say" carries no usable keywords anyway.
	newest := makeItem(entity.ItemKindFile, "", "short summary", time.Hour)
	older := makeItem(entity.ItemKindFile, "", "another summary", 2*time.Hour)
	unreadable := makeItem(entity.ItemKindImage, "", "", 30*time.Minute)

	got := testRanker().Rank(context.Background(), "what does it say?", []*entity.Item{older, unreadable, newest})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Id != newest.Id || got[1].Id != older.Id {
		t.Errorf("deictic fallback should return the two most recent readable items, newest first")
	}
}

func TestRankDeicticNeedsWholeWord(t *testing.T) {
	// "fitness" contains "it" but is not a deictic reference.
	item := makeItem(entity.ItemKindText, "", "short", time.Hour)

	got := testRanker().Rank(context.Background(), "fitness", []*entity.Item{item})
	if len(got) != 0 {
		t.Errorf("substring of a longer word triggered the deictic tier")
	}
}

func TestRankGlobalMatchBeyondWindow(t *testing.T) {
	r := New(Config{
		RecentWindowSize:       2,
		MinExtractedTextLength: constant.MinExtractedTextLength,
		MaxResults:             constant.MaxRankedItems,
		DeicticTerms:           constant.DeicticTerms,
	}, NewKeywordExtractor(nil, constant.StopWords, constant.MinKeywordLength))

	old := makeItem(entity.ItemKindText, "", longText("mortgage details"), 100*time.Hour)
	fillerA := makeItem(entity.ItemKindText, "", longText("gardening tips"), time.Hour)
	fillerB := makeItem(entity.ItemKindText, "", longText("travel plans"), 2*time.Hour)

	got := r.Rank(context.Background(), "mortgage", []*entity.Item{old, fillerA, fillerB})
	if len(got) != 1 || got[0].Id != old.Id {
		t.Errorf("global tier should find matches the recency window missed")
	}
}

func TestRankTypeFallback(t *testing.T) {
	image := makeItem(entity.ItemKindImage, "", "", time.Hour)
	note := makeItem(entity.ItemKindText, "plain note", "", 30*time.Minute)

	got := testRanker().Rank(context.Background(), "zzzz qqqq", []*entity.Item{note, image})
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Id != image.Id {
		t.Errorf("type fallback should return media items only")
	}
}

func TestRankEmptyLibrary(t *testing.T) {
	got := testRanker().Rank(context.Background(), "anything", nil)
	if len(got) != 0 {
		t.Errorf("empty library must rank to nothing")
	}
}
