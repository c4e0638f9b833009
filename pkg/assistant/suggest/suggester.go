package suggest

import (
	"context"
	"strings"

	"blii-be/internal/entity"
	"blii-be/pkg/llm"
	"blii-be/pkg/textutil"
)

// Suggester produces lightweight LLM-backed suggestions: starter questions
// for the chat screen and tags for freshly saved items. Both degrade
// gracefully when the model is unavailable.
type Suggester struct {
	llmProvider llm.LLMProvider
}

func New(llmProvider llm.LLMProvider) *Suggester {
	return &Suggester{llmProvider: llmProvider}
}

var fallbackQuestions = []string{
	"What did I save recently?",
	"Summarize my latest saved article",
	"What topics do I save the most?",
}

// SmartQuestions proposes up to three questions the user could ask about
// their recent saves. Static fallbacks cover an empty library or a dead
// model.
func (s *Suggester) SmartQuestions(ctx context.Context, recent []*entity.Item) []string {
	if len(recent) == 0 {
		return fallbackQuestions
	}

	var b strings.Builder
	b.WriteString("The user recently saved:\n")
	for i, it := range recent {
		if i == 5 {
			break
		}
		title := it.ExtractedTitle
		if title == "" {
			title = it.Content
		}
		title = textutil.Truncate(title, 80)
		b.WriteString("- [" + it.Kind + "] " + title + "\n")
	}
	b.WriteString("\nSuggest 3 short questions the user could ask about this content. One per line, no numbering, no quotes, each under 60 characters.")

	response, err := s.llmProvider.Generate(ctx, b.String(), llm.WithTemperature(0.7))
	if err != nil {
		return fallbackQuestions
	}

	questions := make([]string, 0, 3)
	for _, line := range strings.Split(response, "\n") {
		q := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-•0123456789. "))
		if q == "" {
			continue
		}
		questions = append(questions, q)
		if len(questions) == 3 {
			break
		}
	}
	if len(questions) == 0 {
		return fallbackQuestions
	}
	return questions
}

// Tags suggests up to five lowercase tags for newly saved content. Returns
// nil on any failure; saving never blocks on tag suggestions.
func (s *Suggester) Tags(ctx context.Context, content string) []string {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	if len(content) > 2000 {
		content = content[:2000]
	}

	prompt := "Suggest up to 5 short lowercase tags (single words or two-word phrases, max 20 characters each) for this content. Return them comma-separated, nothing else.\n\nContent:\n" + content

	response, err := s.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.3))
	if err != nil {
		return nil
	}

	tags := make([]string, 0, 5)
	for _, part := range strings.Split(response, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		tag = strings.Trim(tag, `."'#`)
		if tag == "" || len(tag) > 20 || strings.Contains(tag, "\n") {
			continue
		}
		tags = append(tags, tag)
		if len(tags) == 5 {
			break
		}
	}
	return tags
}
