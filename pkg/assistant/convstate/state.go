package convstate

import "github.com/google/uuid"

// State is the per-session conversation memory. It is ephemeral, held in an
// in-memory store keyed by user, and always passed explicitly in and out of
// the orchestrator rather than mutated behind its back.
type State struct {
	LastUserQuery      string      `json:"last_user_query"`
	LastAssistantReply string      `json:"last_assistant_reply"`
	FollowUpExpected   bool        `json:"follow_up_expected"`
	LastOfferedAction  string      `json:"last_offered_action"`
	LastShownItemIDs   []uuid.UUID `json:"last_shown_item_ids"`
}

// NewState returns an all-empty state, the same shape as after a reset.
func NewState() *State {
	return &State{}
}

// Reset clears every field. Invariant: LastOfferedAction is non-empty only
// while FollowUpExpected is true, which trivially holds after a reset.
func (s *State) Reset() {
	*s = State{}
}

// Kind is the classification of an incoming user message relative to the
// previous assistant turn.
type Kind int

const (
	NewQuery Kind = iota
	AffirmativeFollowUp
	NegativeFollowUp
	Continuation
)

func (k Kind) String() string {
	switch k {
	case AffirmativeFollowUp:
		return "affirmative_follow_up"
	case NegativeFollowUp:
		return "negative_follow_up"
	case Continuation:
		return "continuation"
	default:
		return "new_query"
	}
}
