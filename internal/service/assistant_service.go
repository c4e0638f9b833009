package service

import (
	"context"
	"strings"
	"time"

	"blii-be/internal/dto"
	"blii-be/internal/entity"
	"blii-be/internal/pkg/logger"
	"blii-be/internal/pkg/serverutils"
	"blii-be/internal/repository/memory"
	"blii-be/internal/repository/specification"
	"blii-be/internal/repository/unitofwork"
	"blii-be/pkg/assistant/convstate"
	"blii-be/pkg/assistant/orchestrator"
	"blii-be/pkg/assistant/suggest"

	"github.com/google/uuid"
)

// historyFetchLimit bounds how many items are loaded per chat turn. The
// ranker's global tier operates within this window.
const historyFetchLimit = 500

type IAssistantService interface {
	Chat(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error)
	GetHistory(ctx context.Context, userId uuid.UUID, limit int) ([]*dto.ChatHistoryResponse, error)
	ResetSession(ctx context.Context, userId uuid.UUID) error
	SmartQuestions(ctx context.Context, userId uuid.UUID) (*dto.SmartQuestionsResponse, error)
}

type assistantService struct {
	uowFactory   unitofwork.RepositoryFactory
	orchestrator *orchestrator.Orchestrator
	suggester    *suggest.Suggester
	sessionRepo  *memory.SessionRepository
	logger       logger.ILogger
}

func NewAssistantService(
	uowFactory unitofwork.RepositoryFactory,
	orch *orchestrator.Orchestrator,
	suggester *suggest.Suggester,
	sessionRepo *memory.SessionRepository,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		uowFactory:   uowFactory,
		orchestrator: orch,
		suggester:    suggester,
		sessionRepo:  sessionRepo,
		logger:       log,
	}
}

func (s *assistantService) Chat(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, &serverutils.ValidationError{Message: "Message cannot be empty. Try asking about something you saved!"}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, err := uow.ItemRepository().FindAll(ctx,
		specification.OwnedByUser{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: historyFetchLimit, Offset: 0},
	)
	if err != nil {
		return nil, err
	}

	state, found := s.sessionRepo.Get(userId.String())
	if !found {
		state = convstate.NewState()
	}

	result := s.orchestrator.Respond(ctx, message, state, items)
	s.sessionRepo.Save(userId.String(), result.UpdatedState)

	s.persistTurn(ctx, uow, userId, message, result.Reply)

	return &dto.ChatResponse{
		Reply:      result.Reply,
		Kind:       result.Kind.String(),
		GroundedOn: result.GroundedOn,
	}, nil
}

// persistTurn stores both sides of the exchange for the history view. The
// conversation itself works off in-memory state, so a storage hiccup here is
// logged and swallowed.
func (s *assistantService) persistTurn(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, message, reply string) {
	turns := []entity.ChatMessage{
		{Id: uuid.New(), UserId: userId, Role: entity.ChatRoleUser, Content: message, CreatedAt: time.Now()},
		{Id: uuid.New(), UserId: userId, Role: entity.ChatRoleAssistant, Content: reply, CreatedAt: time.Now()},
	}
	for i := range turns {
		if err := uow.ChatMessageRepository().Create(ctx, &turns[i]); err != nil {
			s.logger.Warn("AssistantService", "Failed to persist chat turn", map[string]interface{}{
				"user_id": userId, "error": err.Error(),
			})
			return
		}
	}
}

func (s *assistantService) GetHistory(ctx context.Context, userId uuid.UUID, limit int) ([]*dto.ChatHistoryResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: 0},
	)
	if err != nil {
		return nil, err
	}

	// Fetched newest-first so the limit keeps the most recent turns;
	// presented oldest-first for the transcript view.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	out := make([]*dto.ChatHistoryResponse, len(messages))
	for i, m := range messages {
		out[i] = &dto.ChatHistoryResponse{
			Id:        m.Id,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		}
	}
	return out, nil
}

// ResetSession clears the in-memory conversation state and the stored
// transcript.
func (s *assistantService) ResetSession(ctx context.Context, userId uuid.UUID) error {
	s.sessionRepo.Delete(userId.String())

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ChatMessageRepository().DeleteAllByUserId(ctx, userId)
}

func (s *assistantService) SmartQuestions(ctx context.Context, userId uuid.UUID) (*dto.SmartQuestionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	recent, err := uow.ItemRepository().FindAll(ctx,
		specification.OwnedByUser{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: 5, Offset: 0},
	)
	if err != nil {
		return nil, err
	}

	return &dto.SmartQuestionsResponse{
		Questions: s.suggester.SmartQuestions(ctx, recent),
	}, nil
}
