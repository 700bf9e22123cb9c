package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/faroukali99/reserveFound/internal/models"
	"github.com/faroukali99/reserveFound/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type ReserveFundHandler struct {
	service   *services.ReserveFundService
	validator *services.ValidationHelper
}

func NewReserveFundHandler(service *services.ReserveFundService) *ReserveFundHandler {
	return &ReserveFundHandler{
		service:   service,
		validator: services.NewValidationHelper(),
	}
}

type mutationRequest struct {
	UserID      int64           `json:"userId" validate:"required,gt=0"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type transferRequest struct {
	FromUserID  int64           `json:"fromUserId" validate:"required,gt=0"`
	ToUserID    int64           `json:"toUserId" validate:"required,gt=0"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (h *ReserveFundHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req mutationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	fund, err := h.service.Deposit(r.Context(), req.UserID, req.Amount, req.Description)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendData(w, http.StatusCreated, fund)
}

func (h *ReserveFundHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req mutationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	fund, err := h.service.Withdraw(r.Context(), req.UserID, req.Amount, req.Description)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendData(w, http.StatusCreated, fund)
}

func (h *ReserveFundHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	fund, err := h.service.Transfer(r.Context(), req.FromUserID, req.ToUserID, req.Amount, req.Description)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendData(w, http.StatusCreated, fund)
}

func (h *ReserveFundHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	fund, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendData(w, http.StatusOK, fund)
}

func (h *ReserveFundHandler) GetByReference(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	if reference == "" {
		services.SendErrorResponse(w, "Reference is required", http.StatusBadRequest, nil)
		return
	}

	fund, err := h.service.GetByReference(r.Context(), reference)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendData(w, http.StatusOK, fund)
}

func (h *ReserveFundHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	funds, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendData(w, http.StatusOK, funds)
}

func (h *ReserveFundHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status := models.FundStatus(chi.URLParam(r, "status"))
	if !status.Valid() {
		services.SendErrorResponse(w, "Unknown status", http.StatusBadRequest, nil)
		return
	}

	funds, err := h.service.ListByStatus(r.Context(), status)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendData(w, http.StatusOK, funds)
}

func (h *ReserveFundHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	funds, err := h.service.ListAll(r.Context())
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendData(w, http.StatusOK, funds)
}

// History returns a user's records between start and end, both
// RFC 3339 query parameters.
func (h *ReserveFundHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		services.SendErrorResponse(w, "Invalid start date, expected RFC 3339", http.StatusBadRequest, nil)
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		services.SendErrorResponse(w, "Invalid end date, expected RFC 3339", http.StatusBadRequest, nil)
		return
	}

	funds, err := h.service.TransactionHistory(r.Context(), userID, start, end)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendData(w, http.StatusOK, funds)
}

func (h *ReserveFundHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	balance, err := h.service.TotalBalance(r.Context(), userID)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendData(w, http.StatusOK, map[string]any{
		"userId":  userID,
		"balance": balance,
	})
}

func (h *ReserveFundHandler) TotalActiveBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.service.TotalActiveBalance(r.Context())
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendData(w, http.StatusOK, map[string]any{
		"totalActiveBalance": balance,
	})
}

func (h *ReserveFundHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Status models.FundStatus `json:"status" validate:"required"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	fund, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendData(w, http.StatusOK, fund)
}

func (h *ReserveFundHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Cancel(r.Context(), id); err != nil {
		sendDomainError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Reserve fund cancelled",
	})
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		services.SendErrorResponse(w, "Invalid "+param, http.StatusBadRequest, nil)
		return 0, false
	}
	return id, true
}
