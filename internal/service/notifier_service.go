package service

import (
	"context"
	"strings"

	"blii-be/internal/pkg/logger"
	internalWS "blii-be/internal/websocket"
	"blii-be/pkg/events"
	pktNats "blii-be/pkg/nats"

	"github.com/google/uuid"
)

// EventDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type EventDelivery interface {
	Send(userID uuid.UUID, event internalWS.Event)
}

// NotifierService bridges the event bus to the websocket layer: analysis
// results and save confirmations land here and get pushed to the owning
// user's open connections.
type NotifierService struct {
	subscriber *pktNats.Subscriber
	delivery   EventDelivery
	logger     logger.ILogger
}

func NewNotifierService(sub *pktNats.Subscriber, delivery EventDelivery, log logger.ILogger) *NotifierService {
	return &NotifierService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus with a durable consumer.
func (s *NotifierService) Start() {
	err := s.subscriber.Subscribe("events.>", "notifier-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotifierService", "Failed to start event subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotifierService", "Notifier started, listening to events.>", nil)
}

func (s *NotifierService) handleEvent(ctx context.Context, event events.Event) error {
	// NATS subjects include the stream prefix
	typeCode := strings.TrimPrefix(event.EventType(), "events.")
	payload := event.Payload()

	switch typeCode {
	case "ANALYSIS_COMPLETED", "ITEM_SAVED":
		// forwarded below
	default:
		return nil
	}

	userIDStr, _ := payload["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		s.logger.Warn("NotifierService", "Event missing usable user_id", map[string]interface{}{
			"type": typeCode,
		})
		return nil
	}

	wsEvent := internalWS.Event{
		Type: strings.ToLower(typeCode),
		Data: payload,
	}
	if itemIDStr, ok := payload["item_id"].(string); ok {
		if itemID, err := uuid.Parse(itemIDStr); err == nil {
			wsEvent.ItemId = itemID
		}
	}
	if message, ok := payload["message"].(string); ok {
		wsEvent.Message = message
	}

	s.delivery.Send(userID, wsEvent)
	return nil
}
