package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Item struct {
	Id               uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Kind             string                      `gorm:"type:varchar(16);not null;index"`
	Content          string                      `gorm:"type:text"`
	FileURL          string                      `gorm:"type:text"`
	FilePath         string                      `gorm:"type:text"`
	Filename         string                      `gorm:"type:varchar(255)"`
	FileType         string                      `gorm:"type:varchar(128)"`
	FileSize         int64                       `gorm:"default:0"`
	ExtractedText    string                      `gorm:"type:text"`
	ExtractedTitle   string                      `gorm:"type:varchar(512)"`
	ExtractedAuthor  string                      `gorm:"type:varchar(255)"`
	ExtractedExcerpt string                      `gorm:"type:text"`
	ExtractionStatus string                      `gorm:"type:varchar(16);default:'not_attempted'"`
	Tags             datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	WordCount        int                         `gorm:"default:0"`
	CreatedAt        time.Time                   `gorm:"autoCreateTime;index"`
	UpdatedAt        time.Time                   `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt              `gorm:"index"`
}

func (Item) TableName() string {
	return "items"
}
