package convstate

import (
	"regexp"
	"strings"
)

// containsMatchMaxLen bounds the loose "contains" marker check. Beyond this
// length a message that merely mentions "more" or "no" somewhere is far more
// likely a fresh question than an acknowledgement.
const containsMatchMaxLen = 50

// Classifier decides whether an incoming message is a fresh query or a
// reaction to the assistant's previous offer. Marker vocabularies are
// injected so they live as configuration data, not inline literals.
type Classifier struct {
	affirmative []string
	negative    []string
}

func NewClassifier(affirmativeMarkers, negativeMarkers []string) *Classifier {
	return &Classifier{
		affirmative: affirmativeMarkers,
		negative:    negativeMarkers,
	}
}

// Classify applies the marker heuristics, gated on state.FollowUpExpected.
// A matched affirmative marker only becomes AffirmativeFollowUp when a
// concrete offered action was extracted from the previous reply; otherwise
// the turn is a Continuation. Known false positive: a short standalone
// message like "more?" matches even when the user meant something else.
func (c *Classifier) Classify(message string, state *State) Kind {
	if state == nil || !state.FollowUpExpected {
		return NewQuery
	}

	normalized := strings.ToLower(strings.TrimSpace(message))
	if normalized == "" {
		return NewQuery
	}

	if matchesMarker(normalized, c.negative) {
		return NegativeFollowUp
	}

	if matchesMarker(normalized, c.affirmative) {
		if state.LastOfferedAction != "" {
			return AffirmativeFollowUp
		}
		return Continuation
	}

	return NewQuery
}

// matchesMarker checks exact equality and prefix always, and substring
// containment only for short messages. The prefix match requires a word
// boundary after the marker: a long message starting "yesterday..." must not
// read as a "yes".
func matchesMarker(normalized string, markers []string) bool {
	for _, marker := range markers {
		if normalized == marker {
			return true
		}
		if strings.HasPrefix(normalized, marker+" ") || strings.HasPrefix(normalized, marker+",") ||
			strings.HasPrefix(normalized, marker+".") || strings.HasPrefix(normalized, marker+"!") ||
			strings.HasPrefix(normalized, marker+"?") {
			return true
		}
		if len(normalized) <= containsMatchMaxLen && strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}

// Offer patterns scanned, in order, when extracting the offered action from
// an assistant reply. First match wins.
var offerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)want me to ([^?.!\n]+)\?`),
	regexp.MustCompile(`(?i)should i ([^?.!\n]+)\?`),
	regexp.MustCompile(`(?i)would you like me to ([^?.!\n]+)\?`),
	regexp.MustCompile(`(?i)can i ([^?.!\n]+)\?`),
	regexp.MustCompile(`(?i)\bi can ([^?.!\n]+)[.!]`),
	regexp.MustCompile(`(?i)\bi'll ([^?.!\n]+)[.!]`),
}

// ExtractOfferedAction pulls the offered action clause out of an assistant
// reply, or returns "" when the reply made no offer.
func ExtractOfferedAction(reply string) string {
	for _, pattern := range offerPatterns {
		if m := pattern.FindStringSubmatch(reply); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// OffersFollowUp reports whether a reply contains an offer/question pattern,
// used to set State.FollowUpExpected after each turn. A trailing question of
// any form counts; a plain statement does not.
func OffersFollowUp(reply string) bool {
	if ExtractOfferedAction(reply) != "" {
		return true
	}
	return strings.Contains(reply, "?")
}

// Apply records a finished turn into the state. The query is only retained
// for fresh queries so that follow-up turns keep pointing at the original
// question.
func Apply(state *State, kind Kind, query, reply string) {
	if kind == NewQuery {
		state.LastUserQuery = query
	}
	state.LastAssistantReply = reply
	state.LastOfferedAction = ExtractOfferedAction(reply)
	state.FollowUpExpected = OffersFollowUp(reply)
	if !state.FollowUpExpected {
		state.LastOfferedAction = ""
	}
}
