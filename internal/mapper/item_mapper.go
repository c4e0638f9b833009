package mapper

import (
	"time"

	"blii-be/internal/entity"
	"blii-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ItemMapper struct{}

func NewItemMapper() *ItemMapper {
	return &ItemMapper{}
}

func (m *ItemMapper) ToEntity(i *model.Item) *entity.Item {
	if i == nil {
		return nil
	}

	var deletedAt *time.Time
	if i.DeletedAt.Valid {
		t := i.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !i.UpdatedAt.IsZero() {
		t := i.UpdatedAt
		updatedAt = &t
	}

	return &entity.Item{
		Id:               i.Id,
		UserId:           i.UserId,
		Kind:             i.Kind,
		Content:          i.Content,
		FileURL:          i.FileURL,
		FilePath:         i.FilePath,
		Filename:         i.Filename,
		FileType:         i.FileType,
		FileSize:         i.FileSize,
		ExtractedText:    i.ExtractedText,
		ExtractedTitle:   i.ExtractedTitle,
		ExtractedAuthor:  i.ExtractedAuthor,
		ExtractedExcerpt: i.ExtractedExcerpt,
		ExtractionStatus: i.ExtractionStatus,
		Tags:             []string(i.Tags),
		WordCount:        i.WordCount,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
		IsDeleted:        i.DeletedAt.Valid,
	}
}

func (m *ItemMapper) ToModel(i *entity.Item) *model.Item {
	if i == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if i.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *i.DeletedAt, Valid: true}
	} else if i.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if i.UpdatedAt != nil {
		updatedAt = *i.UpdatedAt
	}

	return &model.Item{
		Id:               i.Id,
		UserId:           i.UserId,
		Kind:             i.Kind,
		Content:          i.Content,
		FileURL:          i.FileURL,
		FilePath:         i.FilePath,
		Filename:         i.Filename,
		FileType:         i.FileType,
		FileSize:         i.FileSize,
		ExtractedText:    i.ExtractedText,
		ExtractedTitle:   i.ExtractedTitle,
		ExtractedAuthor:  i.ExtractedAuthor,
		ExtractedExcerpt: i.ExtractedExcerpt,
		ExtractionStatus: i.ExtractionStatus,
		Tags:             datatypes.NewJSONSlice(i.Tags),
		WordCount:        i.WordCount,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
	}
}

func (m *ItemMapper) ToEntities(items []*model.Item) []*entity.Item {
	entities := make([]*entity.Item, len(items))
	for i, it := range items {
		entities[i] = m.ToEntity(it)
	}
	return entities
}

func (m *ItemMapper) ToModels(items []*entity.Item) []*model.Item {
	models := make([]*model.Item, len(items))
	for i, it := range items {
		models[i] = m.ToModel(it)
	}
	return models
}
