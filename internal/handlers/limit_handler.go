package handlers

import (
	"net/http"

	"github.com/faroukali99/reserveFound/internal/services"
	"github.com/shopspring/decimal"
)

type LimitHandler struct {
	limits    *services.LimitEngine
	tiers     services.TierResolver
	validator *services.ValidationHelper
}

func NewLimitHandler(limits *services.LimitEngine, tiers services.TierResolver) *LimitHandler {
	return &LimitHandler{
		limits:    limits,
		tiers:     tiers,
		validator: services.NewValidationHelper(),
	}
}

// Remaining reports the user's headroom across all limit periods
func (h *LimitHandler) Remaining(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	tier := services.TierForKYCLevel(h.tiers.KYCLevel(r.Context(), userID))
	remaining, err := h.limits.RemainingLimits(r.Context(), userID, tier)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendData(w, http.StatusOK, map[string]any{
		"userId": userID,
		"tier":   tier,
		"limits": remaining,
	})
}

// Check answers whether a proposed amount would pass every limit
// period without recording anything.
func (h *LimitHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID int64           `json:"userId" validate:"required,gt=0"`
		Amount decimal.Decimal `json:"amount"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	tier := services.TierForKYCLevel(h.tiers.KYCLevel(r.Context(), req.UserID))
	allowed, err := h.limits.CanProcess(r.Context(), req.UserID, req.Amount, tier)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendData(w, http.StatusOK, map[string]any{
		"userId":  req.UserID,
		"tier":    tier,
		"allowed": allowed,
	})
}
