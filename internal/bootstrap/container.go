package bootstrap

import (
	"context"
	"log"

	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/controller"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/implementation"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/internal/service"
	"ai-assistant-be/pkg/analysis"
	"ai-assistant-be/pkg/dispatch"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/intent"
	"ai-assistant-be/pkg/jobs"
	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/llm/factory"
	"ai-assistant-be/pkg/quota"

	pktNats "ai-assistant-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const auditDurableName = "usage-audit"

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController
	JobController       controller.IJobController
	DocumentController  controller.IDocumentController
	QuotaController     controller.IQuotaController

	AuthMiddleware fiber.Handler

	// Background Services (Exposed for main.go to run)
	UsageAuditService service.IUsageAuditService

	Logger  logger.ILogger
	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	isProd := cfg.App.Environment == "production"
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, isProd)
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)
	c := &Container{Logger: sysLogger}
	c.closers = append(c.closers, func() { _ = auditLogger.Sync() })

	// 1. LLM Provider
	llmProvider, err := factory.NewLLMProvider(context.Background(), factory.Settings{
		Provider:  cfg.Ai.LLMProvider,
		Model:     cfg.Ai.LLMModel,
		BaseURL:   cfg.Ai.OllamaBaseURL,
		GeminiKey: cfg.Ai.GeminiAPIKey,
	})
	if err != nil {
		log.Printf("[WARN] Failed to initialize LLM Provider: %v. Model features disabled", err)
		llmProvider = nil
	}
	if llmProvider != nil {
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	}

	// 2. Intent Router
	var classifier intent.ModelClassifier
	if llmProvider != nil {
		classifier = intent.NewLLMClassifier(llmProvider, sysLogger)
	}
	router := intent.NewRouter(classifier, cfg.Ai.UseLLMIntent, sysLogger)

	// 3. Capabilities
	analyzer := newAnalyzer(llmProvider, cfg, sysLogger)
	registry := jobs.NewRegistry(
		cfg.Jobs.DefaultSource,
		jobs.MockSource{},
		jobs.NewApifySource(cfg.Jobs.ApifyToken, cfg.Jobs.ApifyActorID),
	)
	pipeline := jobs.NewPipeline(registry, jobs.NewLLMScorer(llmProvider, sysLogger), sysLogger)
	dispatcher := dispatch.NewDispatcher(analyzer, pipeline, sysLogger)

	// 4. Redis (quota counters and tier overrides)
	var rdb *redis.Client
	if cfg.Quota.Store == "redis" {
		rdb = newRedisClient(cfg.App.RedisURL)
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	var store quota.CounterStore = quota.NewMemoryStore()
	var tiers contract.TierRepository = memory.NewTierRepository()
	if rdb != nil {
		store = quota.NewRedisStore(rdb)
		tiers = implementation.NewRedisTierRepository(rdb, sysLogger)
		log.Printf("[INFO] Using Quota Store: REDIS")
	} else {
		log.Printf("[INFO] Using Quota Store: MEMORY")
	}
	ledger := quota.NewLedger(store, sysLogger)

	// 5. Ask history (optional)
	var records contract.AskRecordRepository
	if db != nil {
		records = implementation.NewAskRecordRepository(db)
	}

	// 6. Event Bus
	localBus := events.NewLocalBus(sysLogger)
	c.closers = append(c.closers, func() { _ = localBus.Close() })

	var remote events.Publisher
	var attach func(events.Handler) error
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			remote = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}

		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		} else {
			attach = func(h events.Handler) error {
				return natsSub.Subscribe(context.Background(), "*", auditDurableName, h)
			}
			c.closers = append(c.closers, natsSub.Close)
		}
	}
	publisher, auditService := auditFeed(localBus, remote, attach, auditLogger)

	// 7. Services
	assistantService := service.NewAssistantService(ledger, router, dispatcher, records, publisher, cfg.Jobs.DefaultTopN, sysLogger)
	jobService := service.NewJobService(ledger, pipeline, publisher, cfg.Jobs.DefaultTopN, sysLogger)
	documentService := service.NewDocumentService(ledger, analyzer, publisher, sysLogger)
	quotaService := service.NewQuotaService(ledger, tiers, !isProd, sysLogger)

	// 8. Controllers
	c.AssistantController = controller.NewAssistantController(assistantService)
	c.JobController = controller.NewJobController(jobService)
	c.DocumentController = controller.NewDocumentController(documentService)
	c.QuotaController = controller.NewQuotaController(quotaService)
	c.AuthMiddleware = serverutils.AuthMiddleware(cfg.Auth.JWTSecret, tiers)
	c.UsageAuditService = auditService

	return c
}

// auditFeed picks the single feed of the usage audit. When events reach NATS
// and the durable consumer attaches, the audit reads from NATS and the local
// bus is left out of the fan-out. Otherwise it consumes the local bus.
func auditFeed(bus *events.LocalBus, remote events.Publisher, attach func(events.Handler) error, audit logger.ILogger) (events.Fanout, service.IUsageAuditService) {
	if remote != nil && attach != nil {
		svc := service.NewUsageAuditService(nil, audit)
		err := attach(svc.Handle)
		if err == nil {
			return events.Fanout{remote}, svc
		}
		log.Printf("[WARN] Failed to subscribe to NATS events: %v. Auditing from the local bus", err)
	}

	publisher := events.Fanout{bus}
	if remote != nil {
		publisher = append(publisher, remote)
	}
	return publisher, service.NewUsageAuditService(bus, audit)
}

// Close releases bus and store connections in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

func newAnalyzer(provider llm.LLMProvider, cfg *config.Config, log logger.ILogger) analysis.Analyzer {
	if provider == nil {
		return nil
	}
	agent := analysis.NewAgentAnalyzer(provider, log)
	schema := analysis.NewSchemaExtractor(provider, cfg.Ai.ExtractorsSchemaPath, log)
	return analysis.NewFailoverAnalyzer(agent, schema, cfg.Ai.AnalysisBackend, log)
}

func newRedisClient(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: url,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	return rdb
}
