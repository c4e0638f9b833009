package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"blii-be/internal/entity"
	"blii-be/internal/repository/contract"
	"blii-be/internal/repository/specification"
	"blii-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

// fakeChatRepo holds messages newest-first, the order the DESC query returns,
// and honors the Pagination limit like the real repository would.
type fakeChatRepo struct {
	messages  []*entity.ChatMessage
	lastSpecs []specification.Specification
}

func (r *fakeChatRepo) Create(ctx context.Context, msg *entity.ChatMessage) error { return nil }

func (r *fakeChatRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.lastSpecs = specs
	limit := len(r.messages)
	for _, s := range specs {
		if p, ok := s.(specification.Pagination); ok && p.Limit < limit {
			limit = p.Limit
		}
	}
	return r.messages[:limit], nil
}

func (r *fakeChatRepo) DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error { return nil }

type fakeUnitOfWork struct {
	chat *fakeChatRepo
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) ItemRepository() contract.ItemRepository               { return nil }
func (u *fakeUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository { return u.chat }

type fakeUoWFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeUoWFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

func TestGetHistoryReturnsMostRecentTurns(t *testing.T) {
	userId := uuid.New()
	now := time.Now()

	// Five turns, newest-first as the repository would return them
	repo := &fakeChatRepo{}
	for i := 5; i >= 1; i-- {
		repo.messages = append(repo.messages, &entity.ChatMessage{
			Id:        uuid.New(),
			UserId:    userId,
			Role:      entity.ChatRoleUser,
			Content:   fmt.Sprintf("turn %d", i),
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		})
	}

	svc := NewAssistantService(&fakeUoWFactory{uow: &fakeUnitOfWork{chat: repo}}, nil, nil, nil, noopLogger{})

	history, err := svc.GetHistory(context.Background(), userId, 3)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("len(history) = %d, want 3", len(history))
	}

	// The limit keeps the newest turns, presented chronologically
	if history[0].Content != "turn 3" || history[2].Content != "turn 5" {
		t.Errorf("history window = [%s .. %s], want [turn 3 .. turn 5]",
			history[0].Content, history[2].Content)
	}

	orderedDesc := false
	for _, s := range repo.lastSpecs {
		if o, ok := s.(specification.OrderBy); ok && o.Desc {
			orderedDesc = true
		}
	}
	if !orderedDesc {
		t.Errorf("history query must order newest-first so the limit keeps recent turns")
	}
}
