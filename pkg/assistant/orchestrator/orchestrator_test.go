package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"blii-be/internal/constant"
	"blii-be/internal/entity"
	"blii-be/pkg/assistant/convstate"
	"blii-be/pkg/assistant/ranker"
	"blii-be/pkg/llm"

	"github.com/google/uuid"
)

// fakeLLM replays a canned reply and records the last prompts it received.
type fakeLLM struct {
	reply          string
	err            error
	lastSystem     string
	lastUserPrompt string
	calls          int
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	for _, m := range history {
		switch m.Role {
		case "system":
			f.lastSystem = m.Content
		case "user":
			f.lastUserPrompt = m.Content
		}
	}
	return f.reply, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return "", errors.New("generate disabled in tests")
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

func newTestOrchestrator(provider llm.LLMProvider) *Orchestrator {
	// nil keyword LLM keeps extraction on the heuristic path
	extractor := ranker.NewKeywordExtractor(nil, constant.StopWords, constant.MinKeywordLength)
	rk := ranker.New(ranker.Config{
		RecentWindowSize:       constant.RecentWindowSize,
		MinExtractedTextLength: constant.MinExtractedTextLength,
		MaxResults:             constant.MaxRankedItems,
		DeicticTerms:           constant.DeicticTerms,
	}, extractor)

	classifier := convstate.NewClassifier(constant.AffirmativeMarkers, constant.NegativeMarkers)

	return New(Config{
		MaxGroundingCharsPerItem: constant.MaxGroundingCharsPerItem,
		NegativeReply:            constant.NegativeFollowUpReply,
		ApologyReply:             constant.CollaboratorDownReply,
	}, rk, classifier, provider, noopLogger{})
}

func savedArticle(topic string) *entity.Item {
	return &entity.Item{
		Id:            uuid.New(),
		UserId:        uuid.New(),
		Kind:          entity.ItemKindLink,
		ExtractedText: topic + " " + strings.Repeat("supporting details and context ", 5),
		CreatedAt:     time.Now(),
	}
}

func TestRespondGroundedNewQuery(t *testing.T) {
	item := savedArticle("mortgage rates dropped sharply this quarter")
	provider := &fakeLLM{reply: "Rates fell. Want me to summarize the key points?"}
	o := newTestOrchestrator(provider)

	res := o.Respond(context.Background(), "what happened to mortgage rates?", nil, []*entity.Item{item})

	if res.Kind != convstate.NewQuery {
		t.Errorf("Kind = %v, want NewQuery", res.Kind)
	}
	if len(res.GroundedOn) != 1 || res.GroundedOn[0] != item.Id {
		t.Errorf("GroundedOn = %v, want the saved article", res.GroundedOn)
	}
	if !strings.Contains(provider.lastUserPrompt, "DOCUMENT CONTENT (Saved Document 1):") {
		t.Errorf("grounding context missing from prompt")
	}
	if !strings.Contains(provider.lastUserPrompt, "---END OF DOCUMENT---") {
		t.Errorf("document terminator missing from prompt")
	}
	if !strings.Contains(provider.lastSystem, "ONLY that content") {
		t.Errorf("grounded system prompt not used")
	}
	if res.UpdatedState.LastOfferedAction != "summarize the key points" {
		t.Errorf("offered action = %q", res.UpdatedState.LastOfferedAction)
	}
	if !res.UpdatedState.FollowUpExpected {
		t.Errorf("follow-up flag not set")
	}
	if len(res.UpdatedState.LastShownItemIDs) != 1 {
		t.Errorf("shown item IDs not recorded")
	}
}

func TestRespondFallsBackToGeneralKnowledge(t *testing.T) {
	provider := &fakeLLM{reply: "From general knowledge: compounding grows savings."}
	o := newTestOrchestrator(provider)

	res := o.Respond(context.Background(), "explain compound interest basics", nil, nil)

	if len(res.GroundedOn) != 0 {
		t.Errorf("empty library should not ground on anything")
	}
	if !strings.Contains(provider.lastSystem, "general knowledge") {
		t.Errorf("general knowledge system prompt not used")
	}
}

func TestRespondNegativeFollowUpIsFixedReply(t *testing.T) {
	provider := &fakeLLM{reply: "should never be called"}
	o := newTestOrchestrator(provider)

	state := convstate.NewState()
	state.FollowUpExpected = true
	state.LastOfferedAction = "summarize the key points"

	res := o.Respond(context.Background(), "no thanks", state, nil)

	if res.Kind != convstate.NegativeFollowUp {
		t.Fatalf("Kind = %v, want NegativeFollowUp", res.Kind)
	}
	if res.Reply != constant.NegativeFollowUpReply {
		t.Errorf("Reply = %q, want the fixed negative reply", res.Reply)
	}
	if provider.calls != 0 {
		t.Errorf("negative follow-up must not call the model")
	}
}

func TestRespondApologyOnProviderError(t *testing.T) {
	provider := &fakeLLM{err: errors.New("connection refused")}
	o := newTestOrchestrator(provider)

	res := o.Respond(context.Background(), "explain compound interest basics", nil, nil)

	if res.Reply != constant.CollaboratorDownReply {
		t.Errorf("Reply = %q, want the fixed apology", res.Reply)
	}
}

func TestRespondApologyOnEmptyCompletion(t *testing.T) {
	provider := &fakeLLM{reply: "   "}
	o := newTestOrchestrator(provider)

	res := o.Respond(context.Background(), "explain compound interest basics", nil, nil)

	if res.Reply != constant.CollaboratorDownReply {
		t.Errorf("Reply = %q, want the fixed apology", res.Reply)
	}
}

func TestRespondAffirmativeDetailUsesTopShownItem(t *testing.T) {
	item := savedArticle("mortgage rates dropped sharply this quarter")
	provider := &fakeLLM{reply: "Here is the longer version."}
	o := newTestOrchestrator(provider)

	state := convstate.NewState()
	state.FollowUpExpected = true
	state.LastOfferedAction = "share more details"
	state.LastUserQuery = "what happened to mortgage rates?"
	state.LastShownItemIDs = []uuid.UUID{item.Id}

	res := o.Respond(context.Background(), "yes please", state, []*entity.Item{item})

	if res.Kind != convstate.AffirmativeFollowUp {
		t.Fatalf("Kind = %v, want AffirmativeFollowUp", res.Kind)
	}
	if len(res.GroundedOn) != 1 || res.GroundedOn[0] != item.Id {
		t.Errorf("detail follow-up should re-ground on the previously shown item")
	}
	if !strings.Contains(provider.lastUserPrompt, "DOCUMENT CONTENT") {
		t.Errorf("detail follow-up lost the grounding context")
	}
}

func TestRespondAffirmativeSimilarExcludesShown(t *testing.T) {
	shown := savedArticle("mortgage rates dropped sharply this quarter")
	other := savedArticle("mortgage refinancing checklist for first-time buyers")
	provider := &fakeLLM{reply: "You also saved a refinancing checklist."}
	o := newTestOrchestrator(provider)

	state := convstate.NewState()
	state.FollowUpExpected = true
	state.LastOfferedAction = "find similar articles"
	state.LastUserQuery = "what happened to mortgage rates?"
	state.LastShownItemIDs = []uuid.UUID{shown.Id}

	res := o.Respond(context.Background(), "sure", state, []*entity.Item{shown, other})

	if len(res.GroundedOn) != 1 || res.GroundedOn[0] != other.Id {
		t.Errorf("similar follow-up returned the already-shown item")
	}
}

func TestRespondContinuation(t *testing.T) {
	provider := &fakeLLM{reply: "Building on that, here is more."}
	o := newTestOrchestrator(provider)

	state := convstate.NewState()
	state.FollowUpExpected = true
	state.LastAssistantReply = "Rates fell last quarter. Anything else?"

	res := o.Respond(context.Background(), "tell me more", state, nil)

	if res.Kind != convstate.Continuation {
		t.Fatalf("Kind = %v, want Continuation", res.Kind)
	}
	if !strings.Contains(provider.lastUserPrompt, "Rates fell last quarter.") {
		t.Errorf("continuation prompt lost the previous reply")
	}
}

func TestGroundingContextKeepsValidUTF8(t *testing.T) {
	// Multibyte rune straddling the truncation point must not be split.
	text := strings.Repeat("a", 999) + "é" + strings.Repeat("b", 50)
	item := &entity.Item{
		Id:             uuid.New(),
		Kind:           entity.ItemKindText,
		ExtractedTitle: "Accented",
		ExtractedText:  text,
	}

	out := buildGroundingContext([]*entity.Item{item}, 1000)

	if !utf8.ValidString(out) {
		t.Fatalf("grounding context contains invalid UTF-8 after truncation")
	}
	if !strings.Contains(out, "...") {
		t.Errorf("truncated document text lost its ellipsis")
	}
}
