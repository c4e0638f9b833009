package analyzer

import (
	"context"
	"time"
)

// ImageAnalysis is the result of a vision pass over an uploaded image.
type ImageAnalysis struct {
	Description      string
	Tags             []string
	ProcessingTimeMs int64
}

// ArticleExtraction is the readable content pulled from a saved link.
type ArticleExtraction struct {
	Title       string
	Text        string
	Author      string
	Excerpt     string
	PublishDate *time.Time
}

// ContentAnalyzer turns saved media into searchable text. Implementations
// wrap external AI providers; callers must treat every method as fallible
// and continue without the result.
type ContentAnalyzer interface {
	AnalyzeImage(ctx context.Context, imageURL string) (*ImageAnalysis, error)
	ExtractArticle(ctx context.Context, url string) (*ArticleExtraction, error)
	ExtractPDF(ctx context.Context, path string) (string, error)
}
