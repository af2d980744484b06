package api

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/resolutionlab/coach/internal/api/handlers"
	mw "github.com/resolutionlab/coach/internal/api/middleware"
	"github.com/resolutionlab/coach/internal/config"
	"github.com/resolutionlab/coach/internal/llm"
	"github.com/resolutionlab/coach/internal/service"
	"github.com/resolutionlab/coach/internal/store"
	"go.uber.org/zap"
)

// App holds the router and request counters for lifecycle management.
type App struct {
	Router       *chi.Mux
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	// Stores
	goalStore := store.NewGoalStore(db)
	interventionStore := store.NewInterventionStore(db)
	outcomeStore := store.NewOutcomeStore(db)
	statStore := store.NewStrategyStatStore(db)
	traceStore := store.NewTraceStore(db)

	// External client via provider factory
	llmProvider := config.LLMProvider()
	llmClient, err := llm.NewClient(llmProvider, config.LLMAPIKey())
	if err != nil {
		logger.Warn("LLM client initialization failed, falling back to mock",
			zap.String("provider", llmProvider), zap.Error(err))
		llmClient = llm.NewMockClient()
	} else {
		logger.Info("LLM client initialized", zap.String("provider", llmProvider))
	}

	// Services
	statsSvc := service.NewStatsService(store.NewTx(db), statStore, config.ExperimentMinDataPoints(), logger)
	policy := service.NewBanditPolicy(config.ExperimentEpsilon())
	insights := service.NewInsightEngine()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	goalSvc := service.NewGoalService(goalStore, logger)
	coachSvc := service.NewCoachService(
		goalStore, interventionStore, outcomeStore,
		statsSvc, policy, insights,
		llmClient, traceStore, rng, logger,
	)
	coachSvc.SetLLMTimeout(config.LLMTimeout())

	// Handlers
	goalHandler := handlers.NewGoalHandler(goalSvc)
	interventionHandler := handlers.NewInterventionHandler(coachSvc)
	insightHandler := handlers.NewInsightHandler(coachSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		startTime: time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)                                                 // Generate/extract request ID first
	r.Use(middleware.RealIP)                                            // Extract real IP
	r.Use(metricsCollector.Middleware)                                  // Collect metrics
	r.Use(mw.Logging(logger))                                           // Log all requests
	r.Use(middleware.Recoverer)                                         // Recover from panics
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst())) // Rate limiting

	// Health
	r.Get("/health", healthHandler(db))

	// Metrics
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		// Goals
		r.Route("/goals", func(r chi.Router) {
			r.Post("/", goalHandler.Create)
			r.Get("/", goalHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", goalHandler.GetByID)
				r.Patch("/", goalHandler.Update)
			})
		})

		// Interventions
		r.Route("/interventions", func(r chi.Router) {
			r.Post("/generate", interventionHandler.Generate)
			r.Post("/check-in", interventionHandler.CheckIn)
			r.Get("/", interventionHandler.List)
			r.Get("/strategies", interventionHandler.Strategies)
			r.Get("/{id}", interventionHandler.GetByID)
		})

		// Insights
		r.Route("/insights", func(r chi.Router) {
			r.Get("/", insightHandler.Get)
			r.Get("/comparison", insightHandler.Comparison)
			r.Get("/summary", insightHandler.Summary)
		})
	})

	return app
}

// NewRouter returns just the chi.Mux for callers that manage lifecycle
// themselves.
func NewRouter(db *pgxpool.Pool, logger *zap.Logger) *chi.Mux {
	return NewApp(db, logger).Router
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}
