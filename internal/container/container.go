package container

import (
	"context"
	"fmt"

	"bakebot/internal/config"
	"bakebot/internal/repository"
	"bakebot/internal/service"
	"bakebot/internal/service/auth"
	"bakebot/pkg/database"
	"bakebot/pkg/email"
	"bakebot/pkg/imagegen"
	"bakebot/pkg/logger"
	"bakebot/pkg/ratelimit"
	"bakebot/pkg/redis"
)

// emailQueueSize bounds the number of notifications waiting for delivery
const emailQueueSize = 100

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           *database.PostgresDB
	RedisClient  *redis.Client
	Cache        *service.CacheService
	Limiter      *ratelimit.Limiter
	Repositories *repository.Repositories
	Services     *service.Services

	memoryStore *ratelimit.MemoryStore
	mailer      *email.Dispatcher
}

// New creates a new dependency injection container. Redis is optional: when
// REDIS_URL is unset or unreachable the rate limiter keeps counters in
// memory and caching is disabled.
func New(cfg *config.Config, log *logger.Logger, db *database.PostgresDB) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: log,
		DB:     db,
	}

	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Named("redis").Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without shared rate limits")
		} else {
			c.RedisClient = client
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without caching")
	}

	if c.RedisClient != nil {
		c.Cache = service.NewCacheService(c.RedisClient, c.RedisClient.KeyBuilder, log.Named("cache").Logger)
		c.Limiter = ratelimit.New(ratelimit.NewRedisStore(c.RedisClient, c.RedisClient.KeyBuilder.KeyRateLimit))
	} else {
		c.memoryStore = ratelimit.NewMemoryStore(log.Named("ratelimit").Logger)
		c.Limiter = ratelimit.New(c.memoryStore)
	}

	var queue service.Enqueuer
	if cfg.EmailEnabled() {
		c.mailer = email.NewDispatcher(email.NewClient(cfg.ResendAPIKey, ""), emailQueueSize, log.Named("email").Logger)
		queue = c.mailer
	} else {
		log.Info("RESEND_API_KEY or OWNER_EMAIL not set, owner notifications disabled")
	}
	notifier := service.NewNotifier(queue, cfg.OwnerEmail, log.Named("notifier"))

	var remote auth.UserFetcher
	if supabase := service.NewSupabaseClient(cfg, log.Named("supabase")); supabase.Configured() {
		remote = supabase
	}

	images := imagegen.NewClient(cfg.AIImageAPIKey, cfg.AIImageAPIURL, cfg.AIImageModel)
	if !images.Configured() {
		log.Warn("AI_IMAGE_API_KEY not set, mockup generation disabled")
	}

	repos := repository.NewRepositories(db)
	c.Repositories = repos
	c.Services = &service.Services{
		Auth:      auth.NewService(cfg.SupabaseJWTSecret, remote, log.Named("auth")),
		Account:   service.NewAccountService(repos.Baker, repos.Referral, cfg.AppURL, log.Named("account")),
		Feedback:  service.NewFeedbackService(repos.Feedback, repos.Survey, notifier, log.Named("feedback")),
		Analytics: service.NewAnalyticsService(repos.Analytics, repos.Feedback, log.Named("analytics")),
		Design:    service.NewDesignService(repos.Design, repos.Order, images, log.Named("design")),
		Order:     service.NewOrderService(repos.Order, log.Named("order")),
		Marketing: service.NewMarketingService(repos.Waitlist, repos.Baker, repos.Referral, c.Cache, log.Named("marketing")),
		Report: service.NewReportService(
			repos.Analytics, repos.Survey, repos.Waitlist,
			notifier, c.Cache, cfg.ReportScheduleEnabled, log.Named("report"),
		),
	}

	return c, nil
}

// Start launches the background workers
func (c *Container) Start(ctx context.Context) error {
	if c.mailer != nil {
		c.mailer.Start()
	}
	if c.memoryStore != nil {
		c.memoryStore.Start(ratelimit.SweepInterval)
	}
	return c.Services.Report.Start(ctx)
}

// Shutdown stops the background workers and closes Redis. Queued emails are
// flushed until ctx expires.
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error

	if err := c.Services.Report.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("report scheduler: %w", err))
	}
	if c.memoryStore != nil {
		c.memoryStore.Stop()
	}
	if c.mailer != nil {
		if err := c.mailer.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("email dispatcher: %w", err))
		}
		stats := c.mailer.Stats()
		c.Logger.WithFields(map[string]interface{}{
			"sent":    stats.Sent,
			"failed":  stats.Failed,
			"dropped": stats.Dropped,
		}).Info("Email dispatcher stopped")
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}
	return nil
}

// HasRedis returns true if Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}

// UsesMemoryLimiter reports whether rate limits are per instance
func (c *Container) UsesMemoryLimiter() bool {
	return c.memoryStore != nil
}
