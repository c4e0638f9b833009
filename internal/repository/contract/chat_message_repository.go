package contract

import (
	"context"

	"blii-be/internal/entity"
	"blii-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, msg *entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error
}
