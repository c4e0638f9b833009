package service

import (
	"context"
	"encoding/json"
	"time"

	"blii-be/internal/dto"
	"blii-be/internal/entity"
	"blii-be/internal/pkg/logger"
	"blii-be/internal/repository/specification"
	"blii-be/internal/repository/unitofwork"
	"blii-be/pkg/analyzer"
	"blii-be/pkg/assistant/suggest"
	"blii-be/pkg/events"
	pktNats "blii-be/pkg/nats"
	"blii-be/pkg/textutil"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"golang.org/x/sync/errgroup"
)

// reanalyzeConcurrency bounds the fan-out of batch re-analysis. One failed
// item never fails the batch.
const reanalyzeConcurrency = 4

type IConsumerService interface {
	Consume(ctx context.Context) error
	ReanalyzeMissing(ctx context.Context) error
}

type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	analyzer       analyzer.ContentAnalyzer
	suggester      *suggest.Suggester
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	contentAnalyzer analyzer.ContentAnalyzer,
	suggester *suggest.Suggester,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		analyzer:       contentAnalyzer,
		suggester:      suggester,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.AnalyzeItemMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.logger.Info("ConsumerService", "Processing item analysis", map[string]interface{}{"item_id": payload.ItemId})

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	item, err := uow.ItemRepository().FindOne(ctx, specification.ByID{ID: payload.ItemId})
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to load item", map[string]interface{}{"item_id": payload.ItemId, "error": err.Error()})
		msg.Nack() // Retriable
		return
	}
	if item == nil {
		// Deleted before analysis ran
		msg.Ack()
		return
	}

	cs.analyzeItem(ctx, uow, item)
	msg.Ack()
}

// analyzeItem runs the kind-appropriate extraction, cleans the result, and
// stores either the text or the failed marker. The user is notified over the
// websocket either way.
func (cs *consumerService) analyzeItem(ctx context.Context, uow unitofwork.UnitOfWork, item *entity.Item) {
	text, title, author, excerpt, autoTags, analysisErr := cs.runAnalysis(ctx, item)

	if analysisErr != nil {
		cs.logger.Warn("ConsumerService", "Analysis failed", map[string]interface{}{
			"item_id": item.Id, "kind": item.Kind, "error": analysisErr.Error(),
		})
		item.ExtractionStatus = entity.ExtractionFailed
	} else {
		cleaned, ok := textutil.CleanExtractedText(text)
		if !ok {
			cs.logger.Warn("ConsumerService", "Extracted text too corrupted to keep", map[string]interface{}{"item_id": item.Id})
			cleaned = ""
		}
		item.ExtractedText = cleaned
		item.ExtractedTitle = title
		item.ExtractedAuthor = author
		item.ExtractedExcerpt = excerpt
		item.WordCount = textutil.WordCount(cleaned)
		item.ExtractionStatus = entity.ExtractionCompleted

		cs.mergeAutoTags(ctx, item, autoTags)
	}

	now := time.Now()
	item.UpdatedAt = &now
	if err := uow.ItemRepository().Update(ctx, item); err != nil {
		cs.logger.Error("ConsumerService", "Failed to store analysis result", map[string]interface{}{
			"item_id": item.Id, "error": err.Error(),
		})
		return
	}

	cs.publishCompleted(ctx, item)
}

func (cs *consumerService) runAnalysis(ctx context.Context, item *entity.Item) (text, title, author, excerpt string, autoTags []string, err error) {
	switch item.Kind {
	case entity.ItemKindImage:
		analysis, aerr := cs.analyzer.AnalyzeImage(ctx, item.FileURL)
		if aerr != nil {
			return "", "", "", "", nil, aerr
		}
		return analysis.Description, "", "", "", analysis.Tags, nil

	case entity.ItemKindLink:
		extraction, aerr := cs.analyzer.ExtractArticle(ctx, item.FileURL)
		if aerr != nil {
			return "", "", "", "", nil, aerr
		}
		return extraction.Text, extraction.Title, extraction.Author, extraction.Excerpt, nil, nil

	case entity.ItemKindFile:
		pdfText, aerr := cs.analyzer.ExtractPDF(ctx, item.FilePath)
		if aerr != nil {
			return "", "", "", "", nil, aerr
		}
		return pdfText, "", "", "", nil, nil

	default:
		// Text items never reach the queue, but tolerate it
		return item.Content, "", "", "", nil, nil
	}
}

// mergeAutoTags adds generated tags without clobbering the user's own. For
// images only the first auto tag is kept; the vision model tends to produce
// noisy synonym lists.
func (cs *consumerService) mergeAutoTags(ctx context.Context, item *entity.Item, visionTags []string) {
	if len(item.Tags) > 0 {
		return
	}

	if item.Kind == entity.ItemKindImage {
		if len(visionTags) > 0 {
			item.Tags = visionTags[:1]
		}
		return
	}

	if item.ExtractedText != "" {
		item.Tags = cs.suggester.Tags(ctx, item.ExtractedText)
	}
}

// publishCompleted announces the result on the event bus. The notifier worker
// picks it up and pushes it to the user's websocket.
func (cs *consumerService) publishCompleted(ctx context.Context, item *entity.Item) {
	if cs.eventPublisher == nil {
		return
	}

	message := ""
	if item.ExtractionStatus == entity.ExtractionFailed || item.ExtractedText == "" {
		message = saveAcknowledgement(item)
	}

	evt := events.BaseEvent{
		Type: "ANALYSIS_COMPLETED",
		Data: map[string]interface{}{
			"item_id":           item.Id.String(),
			"user_id":           item.UserId.String(),
			"kind":              item.Kind,
			"extraction_status": item.ExtractionStatus,
			"word_count":        item.WordCount,
			"message":           message,
		},
		OccurredAt: time.Now(),
	}
	if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
		cs.logger.Warn("ConsumerService", "Failed to publish ANALYSIS_COMPLETED event", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// ReanalyzeMissing re-queues analysis for every item whose extraction is
// pending or failed, fanning out with bounded concurrency.
func (cs *consumerService) ReanalyzeMissing(ctx context.Context) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	items, err := uow.ItemRepository().FindAll(ctx, specification.MissingExtraction{})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reanalyzeConcurrency)

	for _, item := range items {
		item := item
		g.Go(func() error {
			itemUow := cs.uowFactory.NewUnitOfWork(gctx)
			fresh, err := itemUow.ItemRepository().FindOne(gctx, specification.ByID{ID: item.Id})
			if err != nil || fresh == nil {
				return nil // isolation: skip, don't fail the batch
			}
			cs.analyzeItem(gctx, itemUow, fresh)
			return nil
		})
	}

	return g.Wait()
}
