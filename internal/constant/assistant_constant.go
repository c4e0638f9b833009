package constant

// Tunable vocabulary for the assistant's retrieval and follow-up heuristics.
// Kept as data so the lists can be adjusted (and tested) without touching
// the control flow that consumes them.

// StopWords are excluded from query keyword extraction.
var StopWords = []string{
	"the", "and", "or", "but", "in", "on", "at", "to", "for", "of",
	"with", "by", "what", "how", "where", "when", "why", "who", "which",
}

// DeicticTerms signal the user is referring to a recently saved document
// rather than naming its content ("what does it say?", "summarize the pdf").
var DeicticTerms = []string{
	"it", "this", "document", "file", "pdf", "article", "transcript", "text", "content",
}

// AffirmativeMarkers accept a previously offered follow-up action.
var AffirmativeMarkers = []string{
	"yes", "yeah", "sure", "okay", "ok", "please", "do it", "go ahead",
	"more", "details", "tell me more", "explain", "elaborate",
	"similar", "other", "different", "another", "next",
}

// NegativeMarkers decline a previously offered follow-up action.
var NegativeMarkers = []string{
	"no", "nah", "nope", "not really", "skip", "pass",
}

// MinKeywordLength filters trivially short tokens out of keyword extraction.
const MinKeywordLength = 4

// RecentWindowSize bounds tier-1 ranking to the most recent saves.
// Users overwhelmingly ask about something they just saved.
const RecentWindowSize = 30

// MinExtractedTextLength is the minimum extracted-text size for an item to
// count as "readable" in the recency-scoped ranking tier.
const MinExtractedTextLength = 100

// MaxRankedItems caps every ranker tier's output.
const MaxRankedItems = 3

// MaxGroundingCharsPerItem truncates each item's text in the grounding context.
const MaxGroundingCharsPerItem = 1000

// StarredTag is the reserved tag that marks an item as starred.
const StarredTag = "starred"

// Fixed assistant replies. The negative acknowledgement and the apology are
// deliberately static: no collaborator call, no variation.
const (
	NegativeFollowUpReply = "No problem — what else would you like to know?"
	CollaboratorDownReply = "I'm having some trouble right now. Please try again in a moment!"
)

// Save-time acknowledgements when analysis comes back empty. Shown instead of
// pretending the content was read.
const (
	EmptyFileMessage       = "Saved! This file didn't contain any readable text, but I've kept it safe for you."
	NoPreviewMessage       = "Saved! I couldn't fetch a preview for this link, but you can still open it anytime."
	UnreadableImageMessage = "Saved! I couldn't make out the details in this image, but it's stored in your library."
	UnsupportedPdfMessage  = "Saved! This PDF format isn't one I can read yet, but the file itself is safe."
)

// AnalyzeItemTopic is the in-process pub/sub topic for async content analysis.
const AnalyzeItemTopic = "ANALYZE_ITEM_CONTENT"
