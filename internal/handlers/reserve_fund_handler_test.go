package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faroukali99/reserveFound/internal/config"
	"github.com/faroukali99/reserveFound/internal/services"
	"github.com/faroukali99/reserveFound/internal/store/memory"
)

type premiumTiers struct{}

func (premiumTiers) KYCLevel(ctx context.Context, userID int64) int { return 3 }

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	recordStore := memory.NewRecordStore()
	auditStore := memory.NewAuditStore()
	fraud := services.NewFraudDetectionService(recordStore)
	service := services.NewReserveFundService(
		recordStore,
		services.NewTransactionValidator(),
		services.NewLimitEngine(recordStore, config.DefaultLimitProfiles()),
		fraud,
		premiumTiers{},
		services.NewAuditService(auditStore),
		services.NewNotificationService(),
	)

	fundHandler := NewReserveFundHandler(service)
	currencyHandler := NewCurrencyHandler(services.NewCurrencyService(config.DefaultExchangeRates()))

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/currencies", currencyHandler.ListSupported)
		r.Post("/currencies/convert", currencyHandler.Convert)
		r.Route("/funds", func(r chi.Router) {
			r.Post("/deposit", fundHandler.Deposit)
			r.Post("/withdraw", fundHandler.Withdraw)
			r.Post("/transfer", fundHandler.Transfer)
			r.Get("/reference/{reference}", fundHandler.GetByReference)
			r.Get("/user/{userID}/balance", fundHandler.Balance)
			r.Get("/user/{userID}/history", fundHandler.History)
			r.Get("/{id}", fundHandler.GetByID)
			r.Patch("/{id}/status", fundHandler.UpdateStatus)
			r.Delete("/{id}", fundHandler.Cancel)
		})
	})
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestReserveFundHandler_Deposit(t *testing.T) {
	router := newTestRouter(t)

	t.Run("valid deposit returns the created record", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/funds/deposit",
			`{"userId": 1, "amount": "1000.00", "description": "funding"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		payload := decodeEnvelope(t, rec)
		assert.Equal(t, true, payload["success"])
		data := payload["data"].(map[string]any)
		assert.Equal(t, "DEPOSIT", data["transactionType"])
		assert.Equal(t, "COMPLETED", data["status"])
		assert.Regexp(t, `^RF-[A-Z0-9]{8}$`, data["reference"])
	})

	t.Run("amount below the minimum is a 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/funds/deposit",
			`{"userId": 1, "amount": "99.99"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/funds/deposit",
			`{"userId": 1, "amount": "1000.00", "bogus": true}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing user id fails struct validation", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/funds/deposit",
			`{"amount": "1000.00"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReserveFundHandler_Withdraw(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/funds/deposit",
		`{"userId": 1, "amount": "1000.00"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("insufficient funds is a 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/funds/withdraw",
			`{"userId": 1, "amount": "5000.00"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "insufficient")
	})

	t.Run("within balance succeeds", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/funds/withdraw",
			`{"userId": 1, "amount": "400.00"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		balanceRec := doJSON(t, router, http.MethodGet, "/api/v1/funds/user/1/balance", "")
		require.Equal(t, http.StatusOK, balanceRec.Code)
		payload := decodeEnvelope(t, balanceRec)
		data := payload["data"].(map[string]any)
		assert.Equal(t, "600", data["balance"])
	})
}

func TestReserveFundHandler_Transfer(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/funds/deposit",
		`{"userId": 1, "amount": "1000.00"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("transfer debits the sender", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/funds/transfer",
			`{"fromUserId": 1, "toUserId": 2, "amount": "300.00", "description": "rent"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		payload := decodeEnvelope(t, rec)
		data := payload["data"].(map[string]any)
		assert.Equal(t, "TRANSFER", data["transactionType"])
		assert.Equal(t, "-300", data["balance"])
	})

	t.Run("self transfer is a 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/funds/transfer",
			`{"fromUserId": 1, "toUserId": 1, "amount": "300.00"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReserveFundHandler_Lookups(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/funds/deposit",
		`{"userId": 1, "amount": "1000.00"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeEnvelope(t, rec)["data"].(map[string]any)
	reference := created["reference"].(string)

	t.Run("lookup by reference", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/funds/reference/"+reference, "")
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeEnvelope(t, rec)["data"].(map[string]any)
		assert.Equal(t, reference, data["reference"])
	})

	t.Run("unknown reference is a 404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/funds/reference/RF-ZZZZ9999", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/funds/404", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-numeric id is a 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/funds/abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("history wants RFC 3339 bounds", func(t *testing.T) {
		start := time.Now().Add(-time.Hour).Format(time.RFC3339)
		end := time.Now().Add(time.Hour).Format(time.RFC3339)
		rec := doJSON(t, router, http.MethodGet,
			"/api/v1/funds/user/1/history?start="+start+"&end="+end, "")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, router, http.MethodGet, "/api/v1/funds/user/1/history?start=yesterday", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReserveFundHandler_StatusLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/funds/deposit",
		`{"userId": 1, "amount": "1000.00"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeEnvelope(t, rec)["data"].(map[string]any)
	id := created["id"].(float64)

	t.Run("status update", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch,
			"/api/v1/funds/"+strconv.Itoa(int(id))+"/status", `{"status": "FROZEN"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		data := decodeEnvelope(t, rec)["data"].(map[string]any)
		assert.Equal(t, "FROZEN", data["status"])
	})

	t.Run("unknown status is a 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch,
			"/api/v1/funds/"+strconv.Itoa(int(id))+"/status", `{"status": "ARCHIVED"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("cancel", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/api/v1/funds/"+strconv.Itoa(int(id)), "")
		require.Equal(t, http.StatusOK, rec.Code)

		lookup := doJSON(t, router, http.MethodGet, "/api/v1/funds/"+strconv.Itoa(int(id)), "")
		data := decodeEnvelope(t, lookup)["data"].(map[string]any)
		assert.Equal(t, "CANCELLED", data["status"])
	})
}

func TestCurrencyHandler_Convert(t *testing.T) {
	router := newTestRouter(t)

	t.Run("supported codes list", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/currencies", "")
		require.Equal(t, http.StatusOK, rec.Code)
		payload := decodeEnvelope(t, rec)
		assert.Len(t, payload["data"], 8)
	})

	t.Run("conversion result carries rate and fee", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/currencies/convert",
			`{"amount": "100", "from": "EUR", "to": "XOF"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		data := decodeEnvelope(t, rec)["data"].(map[string]any)
		assert.Equal(t, "65595.7", data["converted"])
		assert.Equal(t, "327.98", data["fee"])
	})

	t.Run("unsupported currency is a 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/currencies/convert",
			`{"amount": "100", "from": "JPY", "to": "XOF"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
