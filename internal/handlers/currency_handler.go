package handlers

import (
	"net/http"
	"strings"

	"github.com/faroukali99/reserveFound/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type CurrencyHandler struct {
	service   *services.CurrencyService
	validator *services.ValidationHelper
}

func NewCurrencyHandler(service *services.CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{
		service:   service,
		validator: services.NewValidationHelper(),
	}
}

func (h *CurrencyHandler) ListSupported(w http.ResponseWriter, r *http.Request) {
	sendData(w, http.StatusOK, h.service.SupportedCurrencies())
}

func (h *CurrencyHandler) Info(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))

	info, err := h.service.Info(code)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendData(w, http.StatusOK, info)
}

// Rates lists every supported currency's rate against the base code
func (h *CurrencyHandler) Rates(w http.ResponseWriter, r *http.Request) {
	base := strings.ToUpper(chi.URLParam(r, "code"))

	rates, err := h.service.AllExchangeRates(base)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	sendData(w, http.StatusOK, map[string]any{
		"base":  base,
		"rates": rates,
	})
}

func (h *CurrencyHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount decimal.Decimal `json:"amount"`
		From   string          `json:"from" validate:"required,len=3"`
		To     string          `json:"to" validate:"required,len=3"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	from := strings.ToUpper(req.From)
	to := strings.ToUpper(req.To)

	converted, err := h.service.Convert(req.Amount, from, to)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	rate, err := h.service.ExchangeRate(from, to)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	fee, err := h.service.ConversionFee(req.Amount, from, to)
	if err != nil {
		sendDomainError(w, err)
		return
	}

	sendData(w, http.StatusOK, map[string]any{
		"amount":    req.Amount,
		"from":      from,
		"to":        to,
		"converted": converted,
		"rate":      rate,
		"fee":       fee,
	})
}
