package handlers

import (
	"net/http"
	"strconv"

	"github.com/faroukali99/reserveFound/internal/services"
	"github.com/go-chi/chi/v5"
)

const defaultRecentAudits = 50

type AuditHandler struct {
	service *services.AuditService
}

func NewAuditHandler(service *services.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

func (h *AuditHandler) EntityTrail(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "entityType")
	entityID, ok := pathID(w, r, "entityID")
	if !ok {
		return
	}

	entries, err := h.service.EntityTrail(r.Context(), entityType, entityID)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendData(w, http.StatusOK, entries)
}

func (h *AuditHandler) UserTrail(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	entries, err := h.service.UserTrail(r.Context(), userID)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendData(w, http.StatusOK, entries)
}

func (h *AuditHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentAudits
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			services.SendErrorResponse(w, "Invalid limit", http.StatusBadRequest, nil)
			return
		}
		limit = parsed
	}

	entries, err := h.service.RecentAudits(r.Context(), limit)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendData(w, http.StatusOK, entries)
}

func (h *AuditHandler) ByAction(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")
	if action == "" {
		services.SendErrorResponse(w, "Action is required", http.StatusBadRequest, nil)
		return
	}

	entries, err := h.service.AuditsByAction(r.Context(), action)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendData(w, http.StatusOK, entries)
}
