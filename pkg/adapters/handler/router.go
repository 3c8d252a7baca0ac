package handler

import (
	"log/slog"
	"net/http"

	"github.com/orchis-hq/orchis/pkg/config"
	"github.com/orchis-hq/orchis/pkg/ports"
)

// Services bundles everything the router dispatches to.
type Services struct {
	Tools     ports.ToolService
	Posts     ports.PostService
	Roadmap   ports.RoadmapService
	Leads     ports.LeadService
	Analytics ports.AnalyticsService
}

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, svc Services, logger *slog.Logger) http.Handler {
	// Initialize Handlers
	th := NewToolHandler(svc.Tools, logger, cfg.IsProduction())
	ph := NewPostHandler(svc.Posts, logger)
	rh := NewRoadmapHandler(svc.Roadmap, logger)
	lh := NewLeadHandler(svc.Leads, logger)
	ah := NewAnalyticsHandler(svc.Analytics, logger)

	mw := NewMiddleware(cfg, logger)
	authHandler := NewAuthHandler(cfg, logger)

	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	mux.HandleFunc("GET /auth/google/login", authHandler.Login)
	mux.HandleFunc("GET /auth/google/callback", authHandler.Callback)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)

	mux.HandleFunc("GET /api/public/tools", th.List)
	mux.HandleFunc("GET /api/public/tools/{id}", th.Get)
	mux.HandleFunc("POST /api/public/tools", th.Submit)
	mux.HandleFunc("POST /api/public/tools/{id}/like", th.Like)
	mux.HandleFunc("GET /api/public/search", th.Search)
	mux.HandleFunc("GET /api/public/search/popular", th.PopularSearches)
	mux.HandleFunc("GET /api/public/posts", ph.ListPublished)
	mux.HandleFunc("GET /api/public/posts/{slug}", ph.GetBySlug)
	mux.HandleFunc("GET /api/public/roadmap", rh.List)
	mux.HandleFunc("GET /api/public/changelog", rh.Changelog)
	mux.HandleFunc("POST /api/public/contact", lh.Contact)
	mux.HandleFunc("POST /api/public/waitlist", lh.JoinWaitlist)
	mux.HandleFunc("POST /api/public/track/session", ah.TrackSession)

	// Protected Routes
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("GET /api/v1/me", authHandler.Me)

	protectedMux.HandleFunc("GET /api/v1/tools", th.ListAll)
	protectedMux.HandleFunc("PUT /api/v1/tools/{id}/status", th.SetStatus)
	protectedMux.HandleFunc("PUT /api/v1/tools/{id}/feature", th.Feature)
	protectedMux.HandleFunc("DELETE /api/v1/tools/{id}", th.Delete)

	protectedMux.HandleFunc("GET /api/v1/posts", ph.ListAll)
	protectedMux.HandleFunc("POST /api/v1/posts", ph.Create)
	protectedMux.HandleFunc("GET /api/v1/posts/{id}", ph.Get)
	protectedMux.HandleFunc("PUT /api/v1/posts/{id}", ph.Update)
	protectedMux.HandleFunc("DELETE /api/v1/posts/{id}", ph.Delete)

	protectedMux.HandleFunc("POST /api/v1/roadmap", rh.Create)
	protectedMux.HandleFunc("PUT /api/v1/roadmap/{id}", rh.Update)
	protectedMux.HandleFunc("DELETE /api/v1/roadmap/{id}", rh.Delete)

	protectedMux.HandleFunc("GET /api/v1/contacts", lh.ListContacts)
	protectedMux.HandleFunc("GET /api/v1/waitlist", lh.ListWaitlist)

	protectedMux.HandleFunc("POST /api/v1/analytics/daily", ah.UpsertDailyStat)
	protectedMux.HandleFunc("POST /api/v1/analytics/conversations", ah.RecordConversation)
	protectedMux.HandleFunc("GET /api/v1/analytics", ah.Tickets)
	protectedMux.HandleFunc("GET /api/v1/dashboard", ah.Dashboard)

	// protectedMux contains the full paths, so /api/v1/ dispatches straight through.
	mux.Handle("/api/v1/", mw.AuthMiddleware(protectedMux))

	return mux
}
