package orchestrator

import (
	"context"
	"strings"

	"blii-be/internal/entity"
	"blii-be/internal/pkg/logger"
	"blii-be/pkg/assistant/convstate"
	"blii-be/pkg/assistant/ranker"
	"blii-be/pkg/llm"

	"github.com/google/uuid"
)

// Config carries the fixed reply texts and grounding limits as data.
type Config struct {
	MaxGroundingCharsPerItem int
	NegativeReply            string
	ApologyReply             string
}

// Orchestrator routes each user message to one of four handlers based on the
// conversation state, calls the completion provider, and returns the reply
// together with the updated state. Collaborator failures never escape: they
// degrade to the fixed apology.
type Orchestrator struct {
	cfg         Config
	ranker      *ranker.Ranker
	classifier  *convstate.Classifier
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func New(
	cfg Config,
	rk *ranker.Ranker,
	classifier *convstate.Classifier,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		ranker:      rk,
		classifier:  classifier,
		llmProvider: llmProvider,
		logger:      log,
	}
}

// Result is the outcome of one conversation turn.
type Result struct {
	Reply        string
	Kind         convstate.Kind
	GroundedOn   []uuid.UUID
	UpdatedState *convstate.State
}

// Respond processes one user message against the user's item history and the
// current conversation state.
func (o *Orchestrator) Respond(ctx context.Context, query string, state *convstate.State, items []*entity.Item) *Result {
	if state == nil {
		state = convstate.NewState()
	}

	kind := o.classifier.Classify(query, state)
	o.logger.Debug("Orchestrator", "Classified message", map[string]interface{}{
		"kind": kind.String(),
	})

	var reply string
	var grounded []uuid.UUID

	switch kind {
	case convstate.NegativeFollowUp:
		reply = o.cfg.NegativeReply
	case convstate.AffirmativeFollowUp:
		reply, grounded = o.handleAffirmative(ctx, query, state, items)
	case convstate.Continuation:
		reply = o.handleContinuation(ctx, query, state)
	default:
		reply, grounded = o.handleNewQuery(ctx, query, state, items)
	}

	convstate.Apply(state, kind, query, reply)
	if len(grounded) > 0 {
		state.LastShownItemIDs = grounded
	}

	return &Result{
		Reply:        reply,
		Kind:         kind,
		GroundedOn:   grounded,
		UpdatedState: state,
	}
}

func (o *Orchestrator) handleNewQuery(ctx context.Context, query string, state *convstate.State, items []*entity.Item) (string, []uuid.UUID) {
	ranked := o.ranker.Rank(ctx, query, items)

	if len(ranked) == 0 {
		reply := o.complete(ctx, generalKnowledgeSystemPrompt, query)
		return reply, nil
	}

	userPrompt := buildGroundedUserPrompt(query, ranked, o.cfg.MaxGroundingCharsPerItem)
	reply := o.complete(ctx, groundedSystemPrompt, userPrompt)

	ids := make([]uuid.UUID, len(ranked))
	for i, it := range ranked {
		ids[i] = it.Id
	}
	return reply, ids
}

// handleAffirmative resolves the previously offered action by keyword match
// against the action text. The fallthrough hands the action verbatim to the
// model.
func (o *Orchestrator) handleAffirmative(ctx context.Context, query string, state *convstate.State, items []*entity.Item) (string, []uuid.UUID) {
	action := strings.ToLower(state.LastOfferedAction)

	switch {
	case strings.Contains(action, "suggest") || strings.Contains(action, "recommend"):
		prompt := buildActionPrompt(state.LastOfferedAction, state.LastUserQuery, state.LastAssistantReply)
		return o.complete(ctx, generalKnowledgeSystemPrompt, prompt), nil

	case strings.Contains(action, "similar") || strings.Contains(action, "related"):
		alternates := o.ranker.RankExcluding(ctx, state.LastUserQuery, items, state.LastShownItemIDs)
		if len(alternates) == 0 {
			return "I couldn't find anything else like that in your saves. Try saving more on the topic and ask me again!", nil
		}
		userPrompt := buildGroundedUserPrompt(state.LastUserQuery, alternates, o.cfg.MaxGroundingCharsPerItem)
		reply := o.complete(ctx, groundedSystemPrompt, userPrompt)
		ids := make([]uuid.UUID, len(alternates))
		for i, it := range alternates {
			ids[i] = it.Id
		}
		return reply, ids

	case strings.Contains(action, "detail") || strings.Contains(action, "elaborate") || strings.Contains(action, "more"):
		top := o.topShownItem(state, items)
		if top != nil {
			// Surface a longer excerpt than the first pass allowed.
			userPrompt := buildGroundedUserPrompt(state.LastUserQuery, []*entity.Item{top}, o.cfg.MaxGroundingCharsPerItem*3)
			return o.complete(ctx, groundedSystemPrompt, userPrompt), []uuid.UUID{top.Id}
		}
		fallthrough

	default:
		prompt := buildActionPrompt(state.LastOfferedAction, state.LastUserQuery, state.LastAssistantReply)
		return o.complete(ctx, continuationSystemPrompt, prompt), nil
	}
}

func (o *Orchestrator) handleContinuation(ctx context.Context, query string, state *convstate.State) string {
	prompt := buildContinuationPrompt(state.LastAssistantReply, query)
	return o.complete(ctx, continuationSystemPrompt, prompt)
}

// topShownItem re-fetches the first item surfaced in the prior turn.
func (o *Orchestrator) topShownItem(state *convstate.State, items []*entity.Item) *entity.Item {
	if len(state.LastShownItemIDs) == 0 {
		return nil
	}
	want := state.LastShownItemIDs[0]
	for _, it := range items {
		if it != nil && it.Id == want && !it.IsDeleted {
			return it
		}
	}
	return nil
}

// complete wraps the LLM call with the degraded-reply policy: any error or
// empty completion becomes the fixed apology.
func (o *Orchestrator) complete(ctx context.Context, systemPrompt, userPrompt string) string {
	reply, err := o.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}, llm.WithTemperature(0.7))
	if err != nil {
		o.logger.Warn("Orchestrator", "Completion call failed", map[string]interface{}{
			"error": err.Error(),
		})
		return o.cfg.ApologyReply
	}
	if strings.TrimSpace(reply) == "" {
		o.logger.Warn("Orchestrator", "Completion returned empty text", nil)
		return o.cfg.ApologyReply
	}
	return reply
}
