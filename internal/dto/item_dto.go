package dto

import (
	"time"

	"github.com/google/uuid"
)

type SaveTextRequest struct {
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags" validate:"max=10,dive,max=20"`
}

type SaveLinkRequest struct {
	URL     string   `json:"url" validate:"required,url"`
	Content string   `json:"content"` // optional user caption
	Tags    []string `json:"tags" validate:"max=10,dive,max=20"`
}

// Upload metadata arrives as multipart form fields alongside the file.
type SaveUploadRequest struct {
	Kind    string   `json:"kind" validate:"required,oneof=image file"`
	Content string   `json:"content"`
	Tags    []string `json:"tags" validate:"max=10,dive,max=20"`
}

type SaveItemResponse struct {
	Id uuid.UUID `json:"id"`
}

type ItemResponse struct {
	Id               uuid.UUID  `json:"id"`
	Kind             string     `json:"kind"`
	Content          string     `json:"content"`
	FileURL          string     `json:"file_url,omitempty"`
	Filename         string     `json:"filename,omitempty"`
	FileType         string     `json:"file_type,omitempty"`
	FileSize         int64      `json:"file_size,omitempty"`
	ExtractedTitle   string     `json:"extracted_title,omitempty"`
	ExtractedAuthor  string     `json:"extracted_author,omitempty"`
	ExtractedExcerpt string     `json:"extracted_excerpt,omitempty"`
	ExtractionStatus string     `json:"extraction_status"`
	Tags             []string   `json:"tags"`
	Starred          bool       `json:"starred"`
	WordCount        int        `json:"word_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty"`
}

type UpdateTagsRequest struct {
	Id   uuid.UUID
	Tags []string `json:"tags" validate:"required,max=10,dive,max=20"`
}

type ToggleStarResponse struct {
	Id      uuid.UUID `json:"id"`
	Starred bool      `json:"starred"`
}

type SearchItemsRequest struct {
	Query string   `json:"query"`
	Tags  []string `json:"tags"`
}

type AnalyzeItemMessage struct {
	ItemId uuid.UUID `json:"item_id"`
}
