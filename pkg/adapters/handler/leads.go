package handler

import (
	"log/slog"
	"net/http"

	"github.com/orchis-hq/orchis/pkg/core/domain"
	"github.com/orchis-hq/orchis/pkg/ports"
)

type LeadHandler struct {
	service ports.LeadService
	logger  *slog.Logger
}

func NewLeadHandler(service ports.LeadService, logger *slog.Logger) *LeadHandler {
	return &LeadHandler{service: service, logger: logger}
}

type WaitlistRequest struct {
	Email  string `json:"email"`
	Source string `json:"source"`
}

func (h *LeadHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var msg domain.ContactMessage
	if !decodeJSON(w, r, &msg) {
		return
	}
	saved, err := h.service.SubmitContact(r.Context(), msg)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *LeadHandler) JoinWaitlist(w http.ResponseWriter, r *http.Request) {
	var req WaitlistRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	signup, err := h.service.JoinWaitlist(r.Context(), req.Email, req.Source)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, signup)
}

func (h *LeadHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	msgs, err := h.service.ListContacts(r.Context(), page, limit)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: msgs, Page: page, Limit: limit})
}

func (h *LeadHandler) ListWaitlist(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	signups, err := h.service.ListWaitlist(r.Context(), page, limit)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: signups, Page: page, Limit: limit})
}
