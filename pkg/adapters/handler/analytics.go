package handler

import (
	"log/slog"
	"net/http"

	"github.com/orchis-hq/orchis/pkg/core/analytics"
	"github.com/orchis-hq/orchis/pkg/core/domain"
	"github.com/orchis-hq/orchis/pkg/ports"
)

type AnalyticsHandler struct {
	service ports.AnalyticsService
	logger  *slog.Logger
}

func NewAnalyticsHandler(service ports.AnalyticsService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, logger: logger}
}

// TrackSession is called by the chat widget on public pages.
func (h *AnalyticsHandler) TrackSession(w http.ResponseWriter, r *http.Request) {
	var session domain.Session
	if !decodeJSON(w, r, &session) {
		return
	}
	if session.Referrer == "" {
		session.Referrer = r.Referer()
	}
	saved, err := h.service.RecordSession(r.Context(), session)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *AnalyticsHandler) RecordConversation(w http.ResponseWriter, r *http.Request) {
	var conv domain.Conversation
	if !decodeJSON(w, r, &conv) {
		return
	}
	saved, err := h.service.RecordConversation(r.Context(), conv)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *AnalyticsHandler) UpsertDailyStat(w http.ResponseWriter, r *http.Request) {
	var stat domain.DailyStat
	if !decodeJSON(w, r, &stat) {
		return
	}
	if err := h.service.UpsertDailyStat(r.Context(), stat); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Tickets always answers 200. Store failures surface as the empty state.
func (h *AnalyticsHandler) Tickets(w http.ResponseWriter, r *http.Request) {
	rng := analytics.ParseRange(r.URL.Query().Get("range"))
	writeJSON(w, http.StatusOK, h.service.TicketAnalytics(r.Context(), h.owner(r), rng))
}

func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	rng := analytics.ParseRange(r.URL.Query().Get("range"))
	writeJSON(w, http.StatusOK, h.service.Overview(r.Context(), h.owner(r), rng))
}

// owner is the analytics user: ?user= when given, else the signed-in admin.
func (h *AnalyticsHandler) owner(r *http.Request) string {
	if u := r.URL.Query().Get("user"); u != "" {
		return u
	}
	return UserEmail(r.Context())
}
