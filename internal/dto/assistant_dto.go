package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type ChatResponse struct {
	Reply      string      `json:"reply"`
	Kind       string      `json:"kind"` // new_query | affirmative_follow_up | negative_follow_up | continuation
	GroundedOn []uuid.UUID `json:"grounded_on,omitempty"`
}

type ChatHistoryResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type SmartQuestionsResponse struct {
	Questions []string `json:"questions"`
}
