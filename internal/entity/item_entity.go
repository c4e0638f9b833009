package entity

import (
	"time"

	"github.com/google/uuid"
)

// Item kinds. Immutable once created.
const (
	ItemKindText  = "text"
	ItemKindImage = "image"
	ItemKindFile  = "file"
	ItemKindLink  = "link"
)

// Extraction statuses for async content analysis.
const (
	ExtractionPending      = "pending"
	ExtractionCompleted    = "completed"
	ExtractionFailed       = "failed"
	ExtractionNotAttempted = "not_attempted"
)

type Item struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId           uuid.UUID `gorm:"type:uuid;index"`
	Kind             string
	Content          string
	FileURL          string
	FilePath         string
	Filename         string
	FileType         string
	FileSize         int64
	ExtractedText    string
	ExtractedTitle   string
	ExtractedAuthor  string
	ExtractedExcerpt string
	ExtractionStatus string
	Tags             []string
	WordCount        int
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	DeletedAt        *time.Time
	IsDeleted        bool
}

// Starred reports whether the reserved tag is present.
func (i *Item) Starred() bool {
	for _, t := range i.Tags {
		if t == "starred" {
			return true
		}
	}
	return false
}

// SetStarred adds or removes the reserved tag, preserving tag order.
func (i *Item) SetStarred(starred bool) {
	if starred == i.Starred() {
		return
	}
	if starred {
		i.Tags = append(i.Tags, "starred")
		return
	}
	tags := make([]string, 0, len(i.Tags))
	for _, t := range i.Tags {
		if t != "starred" {
			tags = append(tags, t)
		}
	}
	i.Tags = tags
}
