package convstate

import (
	"testing"

	"blii-be/internal/constant"
)

func testClassifier() *Classifier {
	return NewClassifier(constant.AffirmativeMarkers, constant.NegativeMarkers)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		message string
		state   *State
		want    Kind
	}{
		{
			name:    "nil state is a new query",
			message: "yes",
			state:   nil,
			want:    NewQuery,
		},
		{
			name:    "affirmative without expected follow-up is a new query",
			message: "yes",
			state:   &State{FollowUpExpected: false, LastOfferedAction: "summarize it"},
			want:    NewQuery,
		},
		{
			name:    "affirmative with offered action",
			message: "yes",
			state:   &State{FollowUpExpected: true, LastOfferedAction: "summarize it"},
			want:    AffirmativeFollowUp,
		},
		{
			name:    "affirmative with punctuation prefix",
			message: "Yes, please!",
			state:   &State{FollowUpExpected: true, LastOfferedAction: "summarize it"},
			want:    AffirmativeFollowUp,
		},
		{
			name:    "affirmative without offered action is a continuation",
			message: "tell me more",
			state:   &State{FollowUpExpected: true},
			want:    Continuation,
		},
		{
			name:    "negative declines",
			message: "no thanks",
			state:   &State{FollowUpExpected: true, LastOfferedAction: "summarize it"},
			want:    NegativeFollowUp,
		},
		{
			name:    "negative wins over affirmative markers",
			message: "not really, show me similar ones some other time",
			state:   &State{FollowUpExpected: true, LastOfferedAction: "summarize it"},
			want:    NegativeFollowUp,
		},
		{
			name:    "short message containing a marker matches",
			message: "hmm okay then",
			state:   &State{FollowUpExpected: true, LastOfferedAction: "summarize it"},
			want:    AffirmativeFollowUp,
		},
		{
			name:    "long message containing a marker does not match",
			message: "I wanted to ask you something different: is there more than one way to structure a home loan application process?",
			state:   &State{FollowUpExpected: true, LastOfferedAction: "summarize it"},
			want:    NewQuery,
		},
		{
			name:    "long message starting with a marker fused to a word does not match",
			message: "yesterday I read through the mortgage paperwork and had a few follow-up thoughts on the closing costs",
			state:   &State{FollowUpExpected: true, LastOfferedAction: "summarize it"},
			want:    NewQuery,
		},
		{
			name:    "unrelated question is a new query",
			message: "what's the capital of France?",
			state:   &State{FollowUpExpected: true, LastOfferedAction: "summarize it"},
			want:    NewQuery,
		},
		{
			name:    "empty message is a new query",
			message: "   ",
			state:   &State{FollowUpExpected: true, LastOfferedAction: "summarize it"},
			want:    NewQuery,
		},
	}

	c := testClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.message, tt.state)
			if got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}

func TestExtractOfferedAction(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{
			name:  "want me to",
			reply: "That article covers rate trends. Want me to summarize the key points?",
			want:  "summarize the key points",
		},
		{
			name:  "should i",
			reply: "Should I pull up the full transcript?",
			want:  "pull up the full transcript",
		},
		{
			name:  "would you like me to",
			reply: "Would you like me to find similar articles?",
			want:  "find similar articles",
		},
		{
			name:  "i can statement",
			reply: "I can dig into the details if that helps.",
			want:  "dig into the details if that helps",
		},
		{
			name:  "no offer",
			reply: "Your saved article says rates fell last quarter.",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractOfferedAction(tt.reply)
			if got != tt.want {
				t.Errorf("ExtractOfferedAction(%q) = %q, want %q", tt.reply, got, tt.want)
			}
		})
	}
}

func TestOffersFollowUp(t *testing.T) {
	if !OffersFollowUp("Want me to summarize it?") {
		t.Errorf("explicit offer not detected")
	}
	if !OffersFollowUp("Anything else on your mind?") {
		t.Errorf("trailing question not detected")
	}
	if OffersFollowUp("Your saved note covers the basics.") {
		t.Errorf("plain statement misread as an offer")
	}
}

func TestApply(t *testing.T) {
	state := NewState()

	Apply(state, NewQuery, "what did the article say?", "It covered rates. Want me to summarize the key points?")
	if state.LastUserQuery != "what did the article say?" {
		t.Errorf("new query not recorded")
	}
	if state.LastOfferedAction != "summarize the key points" {
		t.Errorf("offered action = %q", state.LastOfferedAction)
	}
	if !state.FollowUpExpected {
		t.Errorf("follow-up flag not set")
	}

	// A follow-up turn keeps the original query
	Apply(state, AffirmativeFollowUp, "yes", "Here is the summary.")
	if state.LastUserQuery != "what did the article say?" {
		t.Errorf("follow-up turn overwrote the original query")
	}
	if state.FollowUpExpected {
		t.Errorf("plain statement left follow-up flag set")
	}
	if state.LastOfferedAction != "" {
		t.Errorf("offered action should clear when no follow-up is expected")
	}
}
