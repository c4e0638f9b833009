package analyzer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"blii-be/pkg/linkpreview"
	"blii-be/pkg/llm"
	"blii-be/pkg/llm/openrouter"

	"golang.org/x/net/html"
)

const imageInstruction = `Describe this image in detail for later search and retrieval.

Structure your answer as:
DESCRIPTION: <2-4 sentences covering subjects, text visible in the image, setting, and notable details>
TAGS: <3-5 lowercase comma-separated tags>`

// OpenRouterAnalyzer implements ContentAnalyzer against an OpenRouter-hosted
// vision model, with direct HTML scraping for articles and local PDF text
// extraction.
type OpenRouterAnalyzer struct {
	vision  *openrouter.OpenRouterProvider
	preview *linkpreview.Fetcher
	client  *http.Client
}

var _ ContentAnalyzer = &OpenRouterAnalyzer{}

func NewOpenRouterAnalyzer(vision *openrouter.OpenRouterProvider) *OpenRouterAnalyzer {
	return &OpenRouterAnalyzer{
		vision:  vision,
		preview: linkpreview.NewFetcher(),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (a *OpenRouterAnalyzer) AnalyzeImage(ctx context.Context, imageURL string) (*ImageAnalysis, error) {
	started := time.Now()

	response, err := a.vision.DescribeImage(ctx, imageInstruction, imageURL,
		llm.WithTemperature(0.3),
	)
	if err != nil {
		return nil, fmt.Errorf("vision analysis: %w", err)
	}

	analysis := &ImageAnalysis{
		ProcessingTimeMs: time.Since(started).Milliseconds(),
	}
	analysis.Description, analysis.Tags = parseVisionResponse(response)
	if analysis.Description == "" {
		return nil, fmt.Errorf("vision analysis: empty description")
	}
	return analysis, nil
}

func parseVisionResponse(response string) (string, []string) {
	description := response
	var tags []string

	if idx := strings.Index(response, "TAGS:"); idx >= 0 {
		description = response[:idx]
		for _, part := range strings.Split(response[idx+len("TAGS:"):], ",") {
			tag := strings.ToLower(strings.TrimSpace(part))
			tag = strings.Trim(tag, `."'#`)
			if tag != "" && len(tag) <= 20 {
				tags = append(tags, tag)
			}
		}
	}
	description = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(description), "DESCRIPTION:"))
	return strings.TrimSpace(description), tags
}

// ExtractArticle fetches the page and walks its DOM for paragraph text,
// falling back to meta-tag preview data when the body yields nothing.
func (a *OpenRouterAnalyzer) ExtractArticle(ctx context.Context, url string) (*ArticleExtraction, error) {
	preview, previewErr := a.preview.Fetch(ctx, url)

	text, textErr := a.fetchBodyText(ctx, url)
	if textErr != nil && previewErr != nil {
		return nil, fmt.Errorf("extract article: %w", textErr)
	}

	extraction := &ArticleExtraction{Text: text}
	if preview != nil {
		extraction.Title = preview.Title
		extraction.Author = preview.Author
		extraction.Excerpt = preview.Description
	}
	if extraction.Text == "" {
		extraction.Text = extraction.Excerpt
	}
	if extraction.Text == "" && extraction.Title == "" {
		return nil, fmt.Errorf("extract article: nothing readable at %s", url)
	}
	return extraction, nil
}

const maxArticleBytes = 4 << 20

func (a *OpenRouterAnalyzer) fetchBodyText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; BliiBot/1.0)")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxArticleBytes))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	collectParagraphs(doc, &b)
	return strings.TrimSpace(b.String()), nil
}

// collectParagraphs gathers text from content-bearing elements, skipping
// script/style/nav chrome.
func collectParagraphs(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "nav", "header", "footer", "aside", "noscript":
			return
		case "p", "h1", "h2", "h3", "li", "blockquote":
			text := nodeText(n)
			if len(text) > 20 {
				b.WriteString(text)
				b.WriteString("\n")
			}
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectParagraphs(c, b)
	}
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return strings.TrimSpace(strings.Join(strings.Fields(b.String()), " "))
}
