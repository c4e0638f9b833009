package bootstrap

import (
	"context"
	"log"

	"blii-be/internal/config"
	"blii-be/internal/constant"
	"blii-be/internal/controller"
	"blii-be/internal/handler"
	"blii-be/internal/pkg/logger"
	"blii-be/internal/repository/memory"
	"blii-be/internal/repository/unitofwork"
	"blii-be/internal/service"
	"blii-be/internal/websocket"
	"blii-be/pkg/analyzer"
	"blii-be/pkg/assistant/convstate"
	"blii-be/pkg/assistant/orchestrator"
	"blii-be/pkg/assistant/ranker"
	"blii-be/pkg/assistant/suggest"
	"blii-be/pkg/llm/factory"
	"blii-be/pkg/llm/openrouter"
	"blii-be/pkg/storage"

	pktNats "blii-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ItemController      controller.IItemController
	AssistantController controller.IAssistantController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WsHandler    *handler.WsHandler
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	llmBaseURL := cfg.Ai.OllamaBaseURL
	if cfg.Ai.LLMProvider == "openrouter" {
		llmBaseURL = cfg.Ai.OpenRouterBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		cfg.Ai.OpenRouterAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Vision goes straight to OpenRouter regardless of the chat provider;
	// local models rarely handle images well.
	visionProvider := openrouter.NewOpenRouterProvider(
		cfg.Ai.OpenRouterBaseURL,
		cfg.Ai.OpenRouterAPIKey,
		cfg.Ai.VisionModel,
	)
	contentAnalyzer := analyzer.NewOpenRouterAnalyzer(visionProvider)

	// 4. Assistant Core
	keywordExtractor := ranker.NewKeywordExtractor(llmProvider, constant.StopWords, constant.MinKeywordLength)
	itemRanker := ranker.New(ranker.Config{
		RecentWindowSize:       constant.RecentWindowSize,
		MinExtractedTextLength: constant.MinExtractedTextLength,
		MaxResults:             constant.MaxRankedItems,
		DeicticTerms:           constant.DeicticTerms,
	}, keywordExtractor)

	classifier := convstate.NewClassifier(constant.AffirmativeMarkers, constant.NegativeMarkers)

	orch := orchestrator.New(orchestrator.Config{
		MaxGroundingCharsPerItem: constant.MaxGroundingCharsPerItem,
		NegativeReply:            constant.NegativeFollowUpReply,
		ApologyReply:             constant.CollaboratorDownReply,
	}, itemRanker, classifier, llmProvider, sysLogger)

	suggester := suggest.New(llmProvider)

	// In-memory conversation state storage
	sessionRepo := memory.NewSessionRepository()

	// 5. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// File storage
	uploader := storage.NewLocalUploader(cfg.Storage.UploadDir, cfg.App.BaseURL)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Ai.AnalyzeTopic, pubSub)

	itemService := service.NewItemService(
		uowFactory,
		publisherService,
		uploader,
		suggester,
		natsPub,
		sysLogger,
	)

	assistantService := service.NewAssistantService(
		uowFactory,
		orch,
		suggester,
		sessionRepo,
		sysLogger,
	)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ai.AnalyzeTopic,
		uowFactory,
		contentAnalyzer,
		suggester,
		natsPub,
		sysLogger,
	)

	// Event-bus-to-websocket bridge (worker)
	notifierService := service.NewNotifierService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifierService.Start()
	}

	// WebSocket handshake handler
	wsHandler := handler.NewWsHandler(wsHub, cfg.App.JwtSecret, wsLogger)

	// 7. Controllers
	return &Container{
		ItemController:      controller.NewItemController(itemService),
		AssistantController: controller.NewAssistantController(assistantService),

		WsHandler:    wsHandler,
		WebSocketHub: wsHub,

		ConsumerService: consumerService,
	}
}
