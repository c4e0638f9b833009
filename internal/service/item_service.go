package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"blii-be/internal/constant"
	"blii-be/internal/dto"
	"blii-be/internal/entity"
	"blii-be/internal/pkg/logger"
	"blii-be/internal/pkg/serverutils"
	"blii-be/internal/repository/specification"
	"blii-be/internal/repository/unitofwork"
	"blii-be/pkg/assistant/suggest"
	"blii-be/pkg/events"
	pktNats "blii-be/pkg/nats"
	"blii-be/pkg/storage"
	"blii-be/pkg/textutil"

	"github.com/google/uuid"
)

type IItemService interface {
	SaveText(ctx context.Context, userId uuid.UUID, req *dto.SaveTextRequest) (*dto.SaveItemResponse, error)
	SaveLink(ctx context.Context, userId uuid.UUID, req *dto.SaveLinkRequest) (*dto.SaveItemResponse, error)
	SaveUpload(ctx context.Context, userId uuid.UUID, req *dto.SaveUploadRequest, filename, mimeType string, data []byte) (*dto.SaveItemResponse, error)
	List(ctx context.Context, userId uuid.UUID, limit int) ([]*dto.ItemResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ItemResponse, error)
	Search(ctx context.Context, userId uuid.UUID, req *dto.SearchItemsRequest) ([]*dto.ItemResponse, error)
	UpdateTags(ctx context.Context, userId uuid.UUID, req *dto.UpdateTagsRequest) (*dto.ItemResponse, error)
	ToggleStar(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ToggleStarResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	ListTrash(ctx context.Context, userId uuid.UUID) ([]*dto.ItemResponse, error)
	Recover(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	HardDelete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	SweepTrash(ctx context.Context, retentionDays int) (int, error)
}

type itemService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	uploader         storage.Uploader
	suggester        *suggest.Suggester
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewItemService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	uploader storage.Uploader,
	suggester *suggest.Suggester,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IItemService {
	return &itemService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		uploader:         uploader,
		suggester:        suggester,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (s *itemService) SaveText(ctx context.Context, userId uuid.UUID, req *dto.SaveTextRequest) (*dto.SaveItemResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	item := entity.Item{
		Id:               uuid.New(),
		UserId:           userId,
		Kind:             entity.ItemKindText,
		Content:          req.Content,
		Tags:             normalizeTags(req.Tags),
		ExtractionStatus: entity.ExtractionNotAttempted,
		CreatedAt:        time.Now(),
	}

	// Text items carry their content inline; no analysis pass needed.
	if len(item.Tags) == 0 {
		item.Tags = s.suggester.Tags(ctx, req.Content)
	}

	if err := uow.ItemRepository().Create(ctx, &item); err != nil {
		return nil, err
	}

	s.publishSavedEvent(ctx, &item)

	return &dto.SaveItemResponse{Id: item.Id}, nil
}

func (s *itemService) SaveLink(ctx context.Context, userId uuid.UUID, req *dto.SaveLinkRequest) (*dto.SaveItemResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	item := entity.Item{
		Id:               uuid.New(),
		UserId:           userId,
		Kind:             entity.ItemKindLink,
		Content:          req.Content,
		FileURL:          req.URL,
		Tags:             normalizeTags(req.Tags),
		ExtractionStatus: entity.ExtractionPending,
		CreatedAt:        time.Now(),
	}
	if item.Content == "" {
		item.Content = req.URL
	}

	if err := uow.ItemRepository().Create(ctx, &item); err != nil {
		return nil, err
	}

	if err := s.queueAnalysis(ctx, item.Id); err != nil {
		return nil, err
	}
	s.publishSavedEvent(ctx, &item)

	return &dto.SaveItemResponse{Id: item.Id}, nil
}

func (s *itemService) SaveUpload(ctx context.Context, userId uuid.UUID, req *dto.SaveUploadRequest, filename, mimeType string, data []byte) (*dto.SaveItemResponse, error) {
	if len(data) == 0 {
		return nil, &serverutils.ValidationError{Message: "uploaded file is empty"}
	}

	uploaded, err := s.uploader.Put(ctx, userId, filename, data)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	item := entity.Item{
		Id:               uuid.New(),
		UserId:           userId,
		Kind:             req.Kind,
		Content:          req.Content,
		FileURL:          uploaded.URL,
		FilePath:         uploaded.Path,
		Filename:         filename,
		FileType:         mimeType,
		FileSize:         int64(len(data)),
		Tags:             normalizeTags(req.Tags),
		ExtractionStatus: entity.ExtractionPending,
		CreatedAt:        time.Now(),
	}
	if item.Content == "" {
		item.Content = filename
	}

	if err := uow.ItemRepository().Create(ctx, &item); err != nil {
		// Best effort: don't leave an orphaned blob behind
		if rmErr := s.uploader.Remove(ctx, uploaded.Path); rmErr != nil {
			s.logger.Warn("ItemService", "Failed to remove orphaned upload", map[string]interface{}{
				"path": uploaded.Path, "error": rmErr.Error(),
			})
		}
		return nil, err
	}

	if err := s.queueAnalysis(ctx, item.Id); err != nil {
		return nil, err
	}
	s.publishSavedEvent(ctx, &item)

	return &dto.SaveItemResponse{Id: item.Id}, nil
}

func (s *itemService) queueAnalysis(ctx context.Context, itemId uuid.UUID) error {
	payload, err := json.Marshal(dto.AnalyzeItemMessage{ItemId: itemId})
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, payload)
}

func (s *itemService) publishSavedEvent(ctx context.Context, item *entity.Item) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type: "ITEM_SAVED",
		Data: map[string]interface{}{
			"item_id": item.Id.String(),
			"user_id": item.UserId.String(),
			"kind":    item.Kind,
		},
		OccurredAt: time.Now(),
	}
	// Events are auxiliary; a dead broker must not fail the save.
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("ItemService", "Failed to publish ITEM_SAVED event", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *itemService) List(ctx context.Context, userId uuid.UUID, limit int) ([]*dto.ItemResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, err := uow.ItemRepository().FindAll(ctx,
		specification.OwnedByUser{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: 0},
	)
	if err != nil {
		return nil, err
	}
	return toItemResponses(items), nil
}

func (s *itemService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ItemResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	item, err := uow.ItemRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedByUser{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, serverutils.ErrNotFound
	}
	return toItemResponse(item), nil
}

func (s *itemService) Search(ctx context.Context, userId uuid.UUID, req *dto.SearchItemsRequest) ([]*dto.ItemResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if len(req.Tags) > 0 {
		items, err := uow.ItemRepository().FindAll(ctx,
			specification.OwnedByUser{UserID: userId},
			specification.HasTag{Tags: req.Tags},
			specification.OrderBy{Field: "created_at", Desc: true},
		)
		if err != nil {
			return nil, err
		}
		return toItemResponses(items), nil
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return []*dto.ItemResponse{}, nil
	}

	items, err := uow.ItemRepository().FindAll(ctx,
		specification.OwnedByUser{UserID: userId},
		specification.ItemSearchQuery{Query: query},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	return toItemResponses(items), nil
}

func (s *itemService) UpdateTags(ctx context.Context, userId uuid.UUID, req *dto.UpdateTagsRequest) (*dto.ItemResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	item, err := uow.ItemRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.OwnedByUser{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, serverutils.ErrNotFound
	}

	// Star status lives in the tag set; preserve it across edits.
	starred := item.Starred()
	item.Tags = normalizeTags(req.Tags)
	item.SetStarred(starred)

	now := time.Now()
	item.UpdatedAt = &now
	if err := uow.ItemRepository().Update(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

func (s *itemService) ToggleStar(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ToggleStarResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	item, err := uow.ItemRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedByUser{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, serverutils.ErrNotFound
	}

	item.SetStarred(!item.Starred())
	now := time.Now()
	item.UpdatedAt = &now
	if err := uow.ItemRepository().Update(ctx, item); err != nil {
		return nil, err
	}

	return &dto.ToggleStarResponse{Id: item.Id, Starred: item.Starred()}, nil
}

func (s *itemService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	item, err := uow.ItemRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedByUser{UserID: userId},
	)
	if err != nil {
		return err
	}
	if item == nil {
		return nil
	}
	return uow.ItemRepository().Delete(ctx, id)
}

func (s *itemService) ListTrash(ctx context.Context, userId uuid.UUID) ([]*dto.ItemResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, err := uow.ItemRepository().FindAll(ctx,
		specification.OnlyDeleted{},
		specification.OwnedByUser{UserID: userId},
		specification.OrderBy{Field: "deleted_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	return toItemResponses(items), nil
}

func (s *itemService) Recover(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	item, err := uow.ItemRepository().FindOne(ctx,
		specification.OnlyDeleted{},
		specification.ByID{ID: id},
		specification.OwnedByUser{UserID: userId},
	)
	if err != nil {
		return err
	}
	if item == nil {
		return nil
	}
	return uow.ItemRepository().Recover(ctx, id)
}

func (s *itemService) HardDelete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	item, err := uow.ItemRepository().FindOne(ctx,
		specification.OnlyDeleted{},
		specification.ByID{ID: id},
		specification.OwnedByUser{UserID: userId},
	)
	if err != nil {
		return err
	}
	if item == nil {
		return nil
	}

	if err := uow.ItemRepository().HardDelete(ctx, id); err != nil {
		return err
	}
	if item.FilePath != "" {
		if err := s.uploader.Remove(ctx, item.FilePath); err != nil {
			s.logger.Warn("ItemService", "Failed to remove upload for deleted item", map[string]interface{}{
				"item_id": id, "error": err.Error(),
			})
		}
	}
	return nil
}

// SweepTrash hard-deletes items that have been sitting in the trash past the
// retention window. Returns how many were purged.
func (s *itemService) SweepTrash(ctx context.Context, retentionDays int) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	expired, err := uow.ItemRepository().FindAll(ctx,
		specification.DeletedBefore{Cutoff: cutoff},
	)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, item := range expired {
		if err := uow.ItemRepository().HardDelete(ctx, item.Id); err != nil {
			s.logger.Error("ItemService", "Trash sweep failed for item", map[string]interface{}{
				"item_id": item.Id, "error": err.Error(),
			})
			continue
		}
		if item.FilePath != "" {
			_ = s.uploader.Remove(ctx, item.FilePath)
		}
		purged++
	}
	return purged, nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool)
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func toItemResponse(item *entity.Item) *dto.ItemResponse {
	excerpt := item.ExtractedExcerpt
	if excerpt == "" && len(item.ExtractedText) > 0 {
		excerpt = textutil.Truncate(item.ExtractedText, 200)
	}
	return &dto.ItemResponse{
		Id:               item.Id,
		Kind:             item.Kind,
		Content:          item.Content,
		FileURL:          item.FileURL,
		Filename:         item.Filename,
		FileType:         item.FileType,
		FileSize:         item.FileSize,
		ExtractedTitle:   item.ExtractedTitle,
		ExtractedAuthor:  item.ExtractedAuthor,
		ExtractedExcerpt: excerpt,
		ExtractionStatus: item.ExtractionStatus,
		Tags:             item.Tags,
		Starred:          item.Starred(),
		WordCount:        item.WordCount,
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
		DeletedAt:        item.DeletedAt,
	}
}

func toItemResponses(items []*entity.Item) []*dto.ItemResponse {
	out := make([]*dto.ItemResponse, len(items))
	for i, item := range items {
		out[i] = toItemResponse(item)
	}
	return out
}

// saveAcknowledgement picks the friendly message shown when analysis finds
// nothing readable, keyed by kind. PDFs get their own wording since the
// extractor handles only a subset of the format.
func saveAcknowledgement(item *entity.Item) string {
	switch item.Kind {
	case entity.ItemKindImage:
		return constant.UnreadableImageMessage
	case entity.ItemKindLink:
		return constant.NoPreviewMessage
	default:
		if strings.EqualFold(item.FileType, "application/pdf") ||
			strings.HasSuffix(strings.ToLower(item.Filename), ".pdf") {
			return constant.UnsupportedPdfMessage
		}
		return constant.EmptyFileMessage
	}
}
