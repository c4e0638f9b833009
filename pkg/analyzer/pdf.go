package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxPDFPages bounds extraction time on huge documents; the ranker only
// needs enough text to match against, not the whole book.
const maxPDFPages = 200

// ExtractPDF pulls plain text from a PDF stored on local disk.
func (a *OpenRouterAnalyzer) ExtractPDF(ctx context.Context, path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	totalPages := reader.NumPage()
	if totalPages > maxPDFPages {
		totalPages = maxPDFPages
	}

	var b strings.Builder
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single bad page shouldn't sink the document
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("extract pdf: no readable text in %s", path)
	}
	return out, nil
}
