package unitofwork

import (
	"context"

	"blii-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ItemRepository() contract.ItemRepository
	ChatMessageRepository() contract.ChatMessageRepository
}
