// Package server assembles the HTTP routes and middleware.
package server

import (
	"fmt"
	"net/http"
	"strings"

	"ecolife-backend/internal/content"
	"ecolife-backend/internal/handlers"
	customMiddleware "ecolife-backend/internal/middleware"
	"ecolife-backend/internal/notify"
	"ecolife-backend/internal/productivity"
	"ecolife-backend/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Accounts groups what sign-in and per-user documents need. A nil *Accounts puts
// those routes in degraded mode.
type Accounts struct {
	Documents productivity.RecordStore
	Tokens    handlers.LoginTokenStore
	Users     handlers.UserStore
	Sessions  interface {
		handlers.SessionIssuer
		customMiddleware.TokenParser
	}
	Mailer  notify.Mailer
	BaseURL string
}

type Deps struct {
	Logger   *zap.Logger
	Store    *store.Memory
	Content  *content.Library
	Notifier notify.Notifier
	Accounts *Accounts

	// Redis backs the contact rate limiter when set; counters stay in memory otherwise.
	Redis            *redis.Client
	ContactRateLimit string

	// TrustedProxies lists peers (IPs or CIDRs) whose X-Forwarded-For/X-Real-IP is honored.
	TrustedProxies []string
	AllowedOrigins []string
	HealthChecks   map[string]handlers.HealthCheck
}

func NewRouter(deps Deps) (http.Handler, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.NewLogNotifier(logger)
	}
	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	rate := deps.ContactRateLimit
	if rate == "" {
		rate = "10-M"
	}

	trusted, err := customMiddleware.ParseTrustedProxies(deps.TrustedProxies)
	if err != nil {
		return nil, err
	}

	contactLimit, err := customMiddleware.RateLimit(rate, deps.Redis, logger)
	if err != nil {
		return nil, fmt.Errorf("contact rate limit %q: %w", rate, err)
	}

	healthHandler := handlers.NewHealthHandler(deps.HealthChecks)
	contactHandler := handlers.NewContactHandler(deps.Store, deps.Notifier, logger)
	productivityHandler := handlers.NewProductivityHandler(deps.Store)
	contentHandler := handlers.NewContentHandler(deps.Content)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(customMiddleware.RealIP(trusted))
	r.Use(customMiddleware.Logging(logger))
	r.Use(customMiddleware.Recoverer(logger))
	r.Use(customMiddleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		r.With(contactLimit).Post("/contact", contactHandler.Submit)
		r.Get("/contact", contactHandler.List)

		r.Get("/stats", productivityHandler.Stats)
		r.Get("/productivity", productivityHandler.Get)
		r.Post("/productivity/goals", productivityHandler.CreateGoal)
		r.Patch("/productivity/goals/{id}", productivityHandler.UpdateGoal)
		r.Post("/productivity/tasks", productivityHandler.CreateTask)
		r.Patch("/productivity/tasks/{id}/toggle", productivityHandler.ToggleTask)
		r.Delete("/productivity/tasks/{id}", productivityHandler.DeleteTask)
		r.Post("/productivity/habits/{id}/tick", productivityHandler.TickHabit)

		r.Get("/blog", contentHandler.ListPosts)
		r.Get("/blog/{id}", contentHandler.GetPost)
		r.Get("/recommendations", contentHandler.Recommendations)
		r.Get("/wellness/quiz", contentHandler.Quiz)
		r.Post("/wellness/quiz/score", contentHandler.ScoreQuiz)

		accountRoutes(r, deps.Accounts, logger)
	})

	return r, nil
}

// accountRoutes mounts sign-in and the per-user document, or 503 stand-ins when
// MongoDB or the JWT secret is missing.
func accountRoutes(r chi.Router, accounts *Accounts, logger *zap.Logger) {
	if accounts == nil {
		r.Post("/auth/request", handlers.Unavailable)
		r.Get("/auth/verify", handlers.Unavailable)
		r.Get("/me/productivity", handlers.Unavailable)
		r.Put("/me/productivity", handlers.Unavailable)
		return
	}

	mailer := accounts.Mailer
	if mailer == nil {
		mailer = notify.NewLogNotifier(logger)
	}
	authHandler := handlers.NewAuthHandler(accounts.Tokens, accounts.Users, accounts.Sessions, mailer, accounts.BaseURL, logger)
	documentHandler := handlers.NewDocumentHandler(accounts.Documents, logger)

	// Public routes (no auth required)
	r.Post("/auth/request", authHandler.RequestLogin)
	r.Get("/auth/verify", authHandler.VerifyToken)

	// Protected routes (JWT required)
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.JWTAuth(accounts.Sessions))

		r.Get("/me/productivity", documentHandler.Get)
		r.Put("/me/productivity", documentHandler.Put)
	})
}

// notFound answers JSON under /api and plain text elsewhere.
func notFound(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Endpoint not found."}` + "\n"))
		return
	}
	http.NotFound(w, r)
}
