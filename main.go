package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"bakebot/internal/config"
	"bakebot/internal/container"
	"bakebot/internal/handler"
	"bakebot/internal/middleware"
	"bakebot/pkg/database"
	"bakebot/pkg/errors"
	"bakebot/pkg/logger"
	"bakebot/pkg/ratelimit"
)

// Per-endpoint request budgets
var (
	feedbackLimit = ratelimit.Rule{MaxRequests: 5, Window: time.Hour}
	surveyLimit   = ratelimit.Rule{MaxRequests: 3, Window: time.Hour}
	reportLimit   = ratelimit.Rule{MaxRequests: 5, Window: time.Hour}
	referralLimit = ratelimit.Rule{MaxRequests: 10, Window: time.Minute}
	waitlistLimit = ratelimit.Rule{MaxRequests: 5, Window: time.Hour}
	generateLimit = ratelimit.Rule{MaxRequests: 10, Window: time.Hour}
)

// Resources holds all resources that need cleanup
type Resources struct {
	db        *database.PostgresDB
	container *container.Container
	server    *http.Server
	log       *logger.Logger
	mu        sync.Mutex
	closed    bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error

	r.log.Info("Starting graceful shutdown...")

	// Stop accepting requests before the workers they feed
	if r.server != nil {
		r.log.Info("Shutting down HTTP server...")
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		} else {
			r.log.Info("HTTP server shutdown complete")
		}
	}

	if r.container != nil {
		r.log.Info("Stopping background workers...")
		if err := r.container.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to stop background workers")
			errs = append(errs, err)
		} else {
			r.log.Info("Background workers stopped")
		}
	}

	if r.db != nil {
		r.log.Info("Closing database connection pool...")

		healthCtx, healthCancel := context.WithTimeout(ctx, 2*time.Second)
		if err := r.db.Health(healthCtx); err != nil {
			r.log.WithError(err).Warn("Database health check failed before closing")
		}
		healthCancel()

		r.db.Close()
		r.log.Info("Database connection pool closed successfully")
	}

	if len(errs) > 0 {
		r.log.WithField("error_count", len(errs)).Error("Cleanup completed with errors")
		return fmt.Errorf("cleanup completed with %d errors: %v", len(errs), errs)
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Starting bakebot server")

	ctx := context.Background()
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, cfg.DatabaseReadURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	c, err := container.New(cfg, log, db)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}
	if c.UsesMemoryLimiter() {
		log.Warn("Rate limits are kept in memory and apply per instance")
	}

	if err := c.Start(ctx); err != nil {
		log.WithError(err).Fatal("Failed to start background workers")
	}

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        setupRouter(c),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   120 * time.Second, // mockup generation can take over a minute
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	resources := &Resources{
		db:        db,
		container: c,
		server:    server,
		log:       log,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(c *container.Container) *chi.Mux {
	cfg := c.Config
	log := c.Logger
	services := c.Services
	limiter := c.Limiter

	limit := func(rule ratelimit.Rule, key middleware.KeyFunc) func(http.Handler) http.Handler {
		return middleware.RateLimit(limiter, rule, key, log.Named("ratelimit"))
	}

	r := chi.NewRouter()

	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RequestIDs)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(110 * time.Second))

	var cache handler.HealthChecker
	if c.Cache != nil {
		cache = handler.HealthCheckFunc(c.Cache.HealthCheck)
	}
	healthHandler := handler.NewHealthHandler(c.DB, cache, log)
	accountHandler := handler.NewAccountHandler(services.Account, cfg.AppURL, log)
	feedbackHandler := handler.NewFeedbackHandler(services.Feedback, services.Analytics, log)
	adminHandler := handler.NewAdminHandler(services.Feedback, services.Analytics, log)
	designHandler := handler.NewDesignHandler(services.Design, log)
	orderHandler := handler.NewOrderHandler(services.Order, log)
	marketingHandler := handler.NewMarketingHandler(services.Marketing, log)
	reportHandler := handler.NewReportHandler(services.Report, log)

	requireAuth := middleware.Auth(services.Auth, log)
	optionalAuth := middleware.OptionalAuth(services.Auth, log)

	r.Get("/health", healthHandler.Check)

	r.Route("/api", func(r chi.Router) {
		// Public landing page endpoints
		r.With(limit(waitlistLimit, middleware.ByIP("waitlist"))).Post("/waitlist-signup", marketingHandler.JoinWaitlist)
		r.Get("/waitlist/stats", marketingHandler.WaitlistStats)
		r.With(limit(referralLimit, middleware.ByIP("track-referral"))).Post("/track-referral", marketingHandler.TrackReferral)
		r.Post("/quotes", designHandler.Quote)

		r.With(optionalAuth).Post("/events", feedbackHandler.RecordEvent)
		r.With(optionalAuth).Get("/auth/grant-access", accountHandler.GrantAccess)

		// Cron triggered reports
		r.Group(func(r chi.Router) {
			r.Use(middleware.CronSecret(cfg.CronSecret))
			r.Use(limit(reportLimit, middleware.ByIP("report")))

			r.Get("/report", reportHandler.Daily)
			r.Get("/traction-report", reportHandler.Traction)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/account", accountHandler.GetAccount)
			r.Put("/account/settings", accountHandler.UpdateSettings)
			r.Get("/referrals", accountHandler.GetReferrals)
			r.Post("/referrals/claim", accountHandler.ClaimReferral)

			r.With(limit(feedbackLimit, middleware.ByUser("feedback"))).Post("/feedback", feedbackHandler.SubmitFeedback)
			r.With(limit(surveyLimit, middleware.ByUser("survey"))).Post("/survey", feedbackHandler.SubmitSurvey)
			r.Get("/survey/today", feedbackHandler.SurveyToday)

			r.With(limit(generateLimit, middleware.ByUser("generate"))).Post("/generate", designHandler.Generate)

			r.Group(func(r chi.Router) {
				r.Use(accountHandler.RequireBaker)

				r.Get("/designs", designHandler.ListDesigns)
				r.Post("/designs", designHandler.CreateDesign)
				r.Delete("/designs/{id}", designHandler.DeleteDesign)
				r.Post("/designs/{id}/order", designHandler.CreateOrder)

				r.Get("/orders", orderHandler.ListOrders)
				r.Post("/orders", orderHandler.CreateOrder)
				r.Put("/orders/{id}", orderHandler.UpdateOrder)
				r.Delete("/orders/{id}", orderHandler.DeleteOrder)

				r.Get("/production", orderHandler.Production)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminIPAllowlist(cfg.AllowedAdminIPs, log))

				r.Get("/summary", adminHandler.Summary)
				r.Get("/feedback", adminHandler.Feedback)
				r.Get("/broken-clicks", adminHandler.BrokenClicks)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errors.Write(w, errors.NewNotFoundError("Endpoint not found"), middleware.RequestID(r))
	})

	log.Info("Router configured successfully")
	return r
}
