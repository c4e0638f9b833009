package orchestrator

import (
	"fmt"
	"strings"

	"blii-be/internal/entity"
	"blii-be/pkg/textutil"
)

// Bill is the assistant persona. The grounding prompt is strict about only
// using supplied content; hallucinating over a user's own saves destroys
// trust faster than admitting a gap.
const groundedSystemPrompt = `You are Bill, a personal assistant for the user's saved content library.

You will receive the full text of one or more documents the user saved. Answer the user's question using ONLY that content.

RULES:
1. Base every claim on the supplied document content. Never invent details.
2. If the documents do not answer the question, say so plainly and summarize what they DO cover.
3. Be conversational and concise.
4. End with exactly ONE specific follow-up question derived from the document content, phrased as an offer (e.g. "Want me to pull out the key action items?").`

const generalKnowledgeSystemPrompt = `You are Bill, a personal assistant for the user's saved content library.

The user asked something that doesn't match anything they saved. Answer helpfully from general knowledge, but:
1. Be conservative; keep the answer short and note you're not drawing on their saved content.
2. Suggest they save a link, image or document about the topic so you can give grounded answers next time.`

const continuationSystemPrompt = `You are Bill, a personal assistant for the user's saved content library. Continue the conversation naturally. Do not repeat what you already said; build on it.`

// buildGroundingContext formats ranked items into the document block fed to
// the completion call. Each item's text is truncated to maxChars.
func buildGroundingContext(items []*entity.Item, maxChars int) string {
	var b strings.Builder
	for i, it := range items {
		title := it.ExtractedTitle
		if title == "" {
			title = it.Filename
		}
		if title == "" {
			title = "Saved " + it.Kind
		}

		text := it.ExtractedText
		if text == "" {
			text = it.Content
		}
		text = textutil.Truncate(text, maxChars)

		b.WriteString(fmt.Sprintf("DOCUMENT CONTENT (Saved Document %d):\n", i+1))
		b.WriteString(fmt.Sprintf("Title: %s\n", title))
		if it.ExtractedAuthor != "" {
			b.WriteString(fmt.Sprintf("Author: %s\n", it.ExtractedAuthor))
		}
		b.WriteString(text)
		b.WriteString("\n---END OF DOCUMENT---\n\n")
	}
	return b.String()
}

func buildGroundedUserPrompt(query string, items []*entity.Item, maxChars int) string {
	return buildGroundingContext(items, maxChars) + "USER QUESTION: " + query
}

func buildContinuationPrompt(previousReply, message string) string {
	return fmt.Sprintf("Your previous reply was:\n%s\n\nThe user now says: %s", previousReply, message)
}

func buildActionPrompt(offeredAction, previousQuery, previousReply string) string {
	return fmt.Sprintf(`The user accepted your offer to %s.

Earlier question: %s
Your earlier reply: %s

Carry out the offered action now.`, offeredAction, previousQuery, previousReply)
}
