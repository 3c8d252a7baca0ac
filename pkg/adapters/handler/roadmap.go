package handler

import (
	"log/slog"
	"net/http"

	"github.com/orchis-hq/orchis/pkg/core/domain"
	"github.com/orchis-hq/orchis/pkg/ports"
)

type RoadmapHandler struct {
	service ports.RoadmapService
	logger  *slog.Logger
}

func NewRoadmapHandler(service ports.RoadmapService, logger *slog.Logger) *RoadmapHandler {
	return &RoadmapHandler{service: service, logger: logger}
}

func (h *RoadmapHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *RoadmapHandler) Changelog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Changelog(r.Context(), queryInt(r, "limit", 50))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *RoadmapHandler) Create(w http.ResponseWriter, r *http.Request) {
	var item domain.RoadmapItem
	if !decodeJSON(w, r, &item) {
		return
	}
	created, err := h.service.Create(r.Context(), item)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *RoadmapHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var item domain.RoadmapItem
	if !decodeJSON(w, r, &item) {
		return
	}
	updated, err := h.service.Update(r.Context(), id, item)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *RoadmapHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
