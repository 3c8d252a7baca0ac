package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orchis-hq/orchis/pkg/core/domain"
	"github.com/orchis-hq/orchis/pkg/ports"
)

const (
	machineCookieName = "orchis_machine_id"
	machineHeader     = "X-Machine-ID"
)

type ToolHandler struct {
	service      ports.ToolService
	logger       *slog.Logger
	isProduction bool
}

func NewToolHandler(service ports.ToolService, logger *slog.Logger, isProduction bool) *ToolHandler {
	return &ToolHandler{service: service, logger: logger, isProduction: isProduction}
}

// SubmitToolRequest payload
type SubmitToolRequest struct {
	Name         string              `json:"name"`
	Tagline      string              `json:"tagline"`
	Description  string              `json:"description"`
	WebsiteURL   string              `json:"website_url"`
	LogoURL      string              `json:"logo_url"`
	Categories   []string            `json:"categories"`
	Tags         []string            `json:"tags"`
	PricingModel domain.PricingModel `json:"pricing_model"`
}

type StatusRequest struct {
	Status domain.ToolStatus `json:"status"`
}

type FeatureRequest struct {
	Featured bool  `json:"featured"`
	Price    int64 `json:"price"`
}

// List is the public directory.
func (h *ToolHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)
	q := r.URL.Query()

	tools, total, err := h.service.List(r.Context(), page, limit, q.Get("category"), q.Get("featured") == "true")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{Data: tools, Total: total, Page: page, Limit: limit})
}

// Get hides tools that are not listed yet.
func (h *ToolHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	tool, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if !tool.Status.Listed() {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tool)
}

func (h *ToolHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitToolRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tool, err := h.service.Submit(r.Context(), domain.Tool{
		Name:         req.Name,
		Tagline:      req.Tagline,
		Description:  req.Description,
		WebsiteURL:   req.WebsiteURL,
		LogoURL:      req.LogoURL,
		Categories:   req.Categories,
		Tags:         req.Tags,
		PricingModel: req.PricingModel,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, tool)
}

// Like identifies the visitor by header or cookie, issuing a cookie on first use.
func (h *ToolHandler) Like(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	tool, added, err := h.service.Like(r.Context(), id, h.machineID(w, r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tool": tool, "liked": added})
}

func (h *ToolHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results, err := h.service.Search(r.Context(), query)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": query, "results": results})
}

func (h *ToolHandler) PopularSearches(w http.ResponseWriter, r *http.Request) {
	terms, err := h.service.PopularSearches(r.Context(), queryInt(r, "limit", 10))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, terms)
}

// ListAll is the admin moderation queue.
func (h *ToolHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	status := domain.ToolStatus(r.URL.Query().Get("status"))
	tools, total, err := h.service.ListAll(r.Context(), page, limit, status)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{Data: tools, Total: total, Page: page, Limit: limit})
}

func (h *ToolHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tool, err := h.service.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.logger.Info("tool moderated", "id", id, "status", req.Status, "by", UserEmail(r.Context()))
	writeJSON(w, http.StatusOK, tool)
}

func (h *ToolHandler) Feature(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req FeatureRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tool, err := h.service.Feature(r.Context(), id, req.Featured, req.Price)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tool)
}

func (h *ToolHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ToolHandler) machineID(w http.ResponseWriter, r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(machineHeader)); id != "" {
		return id
	}
	if c, err := r.Cookie(machineCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     machineCookieName,
		Value:    id,
		Expires:  time.Now().AddDate(1, 0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
