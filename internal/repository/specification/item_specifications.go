package specification

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OwnedByUser struct {
	UserID uuid.UUID
}

func (s OwnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("items.user_id = ?", s.UserID)
}

// HasTag matches items whose JSONB tags array contains any of the given
// tags, ignoring case.
type HasTag struct {
	Tags []string
}

func (s HasTag) Apply(db *gorm.DB) *gorm.DB {
	if len(s.Tags) == 0 {
		return db
	}
	lowered := make([]string, len(s.Tags))
	for i, t := range s.Tags {
		lowered[i] = strings.ToLower(t)
	}
	return db.Where(
		"EXISTS (SELECT 1 FROM jsonb_array_elements_text(items.tags) AS t WHERE lower(t) IN ?)",
		lowered,
	)
}

// ItemSearchQuery does a case-insensitive substring match across the user
// visible text fields. Used by the library search box, not the ranker.
type ItemSearchQuery struct {
	Query string
}

func (s ItemSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where(
		"content ILIKE ? OR extracted_text ILIKE ? OR extracted_title ILIKE ? OR filename ILIKE ?",
		pattern, pattern, pattern, pattern,
	)
}

// OnlyDeleted restricts the query to soft-deleted records (trash view).
type OnlyDeleted struct{}

func (s OnlyDeleted) Apply(db *gorm.DB) *gorm.DB {
	return db.Unscoped().Where("deleted_at IS NOT NULL")
}

// DeletedBefore selects soft-deleted records older than the cutoff,
// for retention cleanup.
type DeletedBefore struct {
	Cutoff time.Time
}

func (s DeletedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Unscoped().Where("deleted_at IS NOT NULL AND deleted_at < ?", s.Cutoff)
}

// MissingExtraction selects items whose analysis never completed, for batch
// re-analysis.
type MissingExtraction struct{}

func (s MissingExtraction) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("extraction_status IN ?", []string{"pending", "failed"})
}
