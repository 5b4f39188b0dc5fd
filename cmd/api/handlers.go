package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/xavierca1/quiz-funnel/internal/app"
	"github.com/xavierca1/quiz-funnel/internal/infra/http/handlers"
	"github.com/xavierca1/quiz-funnel/internal/infra/http/middleware"
)

const sessionTTL = 7 * 24 * time.Hour

func newRouter(a *app.App) http.Handler {
	cfg := a.Config
	sessions := middleware.NewSessionManager(cfg.SessionSecret, sessionTTL, cfg.CookieSecure)

	authHandler := handlers.NewAuthHandler(cfg.DashboardPassword, sessions, a.Log)
	leadHandler := handlers.NewLeadHandler(a.Lifecycle, a.Log)
	checkoutHandler := handlers.NewCheckoutHandler(a.Checkout, a.Log)
	webhookHandler := handlers.NewWebhookHandler(a.ConfirmUC, cfg.HublaWebhookToken, cfg.CaktoWebhookSecret, a.Log)
	sweepHandler := handlers.NewSweepHandler(a.Sweep, cfg.ZaiaThreshold(), cfg.RecoveryThreshold(), a.Log)
	dashboardHandler := handlers.NewDashboardHandler(a.Dashboard, a.Log)

	var queueHealth handlers.QueueHealth
	if a.Rabbit != nil {
		queueHealth = a.Rabbit
	}
	healthHandler := handlers.NewHealthHandler(a.Store, queueHealth, a.Integrations())

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(a.Log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", middleware.MetricsHandler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)

		r.Post("/leads", leadHandler.CaptureLead)
		r.Post("/checkout", checkoutHandler.Handle)

		r.Post("/webhooks/hubla", webhookHandler.HandleHubla)
		r.Post("/webhooks/cakto", webhookHandler.HandleCakto)
		r.Post("/webhooks/sale", webhookHandler.HandleSale)

		r.Group(func(r chi.Router) {
			r.Use(middleware.CronAuth(cfg.CronSecret))
			r.Get("/cron/abandoned", sweepHandler.HandleAbandoned)
			r.Post("/cron/abandoned", sweepHandler.HandleAbandoned)
			r.Get("/cron/recovery", sweepHandler.HandleRecovery)
			r.Post("/cron/recovery", sweepHandler.HandleRecovery)
		})

		r.Group(func(r chi.Router) {
			r.Use(sessions.Require)
			r.Get("/dashboard", dashboardHandler.Handle)
		})
	})

	return r
}
