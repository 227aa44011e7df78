package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Nzyazin/ledgerconsole/internal/core/gateway"
	"github.com/Nzyazin/ledgerconsole/internal/core/logger"
	"github.com/Nzyazin/ledgerconsole/internal/core/models"
	"github.com/Nzyazin/ledgerconsole/internal/core/pipeline"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T, router *mux.Router) *gateway.Client {
	t.Helper()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	origin, err := url.Parse(srv.URL)
	require.NoError(t, err)
	doer := pipeline.Chain(srv.Client(), pipeline.BaseURL(origin, "/api"))
	return gateway.NewClient(doer, logger.NewNop())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func intPtr(v int) *int { return &v }

func TestListTransactions_OmitsAbsentFilters(t *testing.T) {
	walletID := uuid.New()
	var query url.Values

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/wallets/{id}/transactions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, walletID.String(), mux.Vars(r)["id"])
		query = r.URL.Query()
		writeJSON(w, map[string]interface{}{
			"content": []map[string]interface{}{{
				"id":         uuid.New(),
				"walletId":   walletID,
				"amount":     map[string]string{"amount": "12.50", "currency": "USD"},
				"direction":  "CREDIT",
				"occurredAt": "2026-01-02T03:04:05Z",
			}},
			"totalElements": 11,
			"totalPages":    2,
			"size":          10,
			"number":        0,
			"first":         true,
			"last":          false,
		})
	}).Methods(http.MethodGet)

	gw := newGateway(t, router)

	page, err := gw.ListTransactions(context.Background(), walletID, models.TransactionFilter{
		Page: intPtr(0),
		Size: intPtr(10),
		Sort: "occurredAt,desc",
	})
	require.NoError(t, err)

	assert.Equal(t, url.Values{"page": {"0"}, "size": {"10"}, "sort": {"occurredAt,desc"}}, query)
	require.Len(t, page.Content, 1)
	assert.True(t, decimal.RequireFromString("12.5").Equal(page.Content[0].Amount.Amount))
	assert.Equal(t, models.DirectionCredit, page.Content[0].Direction)
	assert.Equal(t, 2, page.TotalPages)
	assert.False(t, page.Last)
}

func TestListTransactions_SerializesAllFilters(t *testing.T) {
	var query url.Values
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/wallets/{id}/transactions", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		writeJSON(w, map[string]interface{}{"content": []interface{}{}})
	}).Methods(http.MethodGet)

	gw := newGateway(t, router)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	_, err := gw.ListTransactions(context.Background(), uuid.New(), models.TransactionFilter{
		Direction:     models.DirectionDebit,
		GroupType:     models.GroupFxConversion,
		ReferenceType: models.ReferenceFxExchange,
		From:          &from,
		To:            &to,
	})
	require.NoError(t, err)

	assert.Equal(t, "DEBIT", query.Get("direction"))
	assert.Equal(t, "FX_CONVERSION", query.Get("groupType"))
	assert.Equal(t, "FX_EXCHANGE", query.Get("referenceType"))
	assert.Equal(t, "2026-03-01T00:00:00Z", query.Get("from"))
	assert.Equal(t, "2026-03-02T00:00:00Z", query.Get("to"))
	assert.NotContains(t, query, "page")
	assert.NotContains(t, query, "size")
}

func TestDeposit_IdempotencyKey(t *testing.T) {
	var keys []string
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/deposits", func(w http.ResponseWriter, r *http.Request) {
		var req models.DepositRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		keys = append(keys, req.IdempotencyKey)
		writeJSON(w, models.DepositResponse{WalletID: req.WalletID, Amount: models.NewMoney(req.Amount, req.Currency), Status: "COMPLETED"})
	}).Methods(http.MethodPost)

	gw := newGateway(t, router)
	req := models.DepositRequest{WalletID: uuid.New(), Amount: decimal.NewFromInt(100), Currency: models.CurrencyUSD}

	_, err := gw.Deposit(context.Background(), req)
	require.NoError(t, err)
	_, err = gw.Deposit(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, req.IdempotencyKey)

	req.IdempotencyKey = "caller-key"
	resp, err := gw.Deposit(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, keys, 3)
	_, err = uuid.Parse(keys[0])
	assert.NoError(t, err)
	assert.NotEqual(t, keys[0], keys[1])
	assert.Equal(t, "caller-key", keys[2])
	assert.Equal(t, "COMPLETED", resp.Status)
}

func TestTransfer_SendsDescription(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/transfers", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "rent", body["description"])
		assert.Equal(t, "25", body["amount"])
		assert.NotEmpty(t, body["idempotencyKey"])
		writeJSON(w, map[string]string{"transferId": "t-1", "status": "COMPLETED"})
	}).Methods(http.MethodPost)

	gw := newGateway(t, router)

	resp, err := gw.Transfer(context.Background(), models.TransferRequest{
		SourceWalletID: uuid.New(),
		TargetWalletID: uuid.New(),
		Amount:         decimal.NewFromInt(25),
		Currency:       models.CurrencyEUR,
		Description:    "rent",
	})
	require.NoError(t, err)
	assert.Equal(t, "t-1", resp.TransferID)
}

func TestFxRate_Query(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/fx/rate", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "USD", q.Get("from"))
		assert.Equal(t, "EUR", q.Get("to"))
		assert.Equal(t, "10.5", q.Get("amount"))
		writeJSON(w, map[string]interface{}{
			"fromCurrency": "USD", "toCurrency": "EUR",
			"rate": 0.92, "sourceAmount": 10.5, "targetAmount": 9.66,
		})
	}).Methods(http.MethodGet)

	gw := newGateway(t, router)

	rate, err := gw.FxRate(context.Background(), models.CurrencyUSD, models.CurrencyEUR, decimal.RequireFromString("10.5"))
	require.NoError(t, err)
	assert.Equal(t, "0.92", rate.Rate.String())
	assert.Equal(t, "9.66", rate.TargetAmount.String())
}

func TestSuspendWallet_Patch(t *testing.T) {
	id := uuid.New()
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/wallets/{id}/suspend", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.Wallet{ID: id, Status: models.WalletSuspended})
	}).Methods(http.MethodPatch)

	gw := newGateway(t, router)

	w, err := gw.SuspendWallet(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.WalletSuspended, w.Status)
}

func TestLogin_ProblemDetailSurfaces(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"title":"Unauthorized","status":401,"detail":"Invalid email or password"}`))
	}).Methods(http.MethodPost)

	gw := newGateway(t, router)

	_, err := gw.Login(context.Background(), models.LoginRequest{Email: "a@b.c", Password: "secret"})

	var apiErr *pipeline.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Invalid email or password", apiErr.ProblemDetail())
	assert.Equal(t, "/api/v1/auth/login", apiErr.Path)
}

func TestRefresh_Body(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var req models.RefreshRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "r1", req.RefreshToken)
		writeJSON(w, models.AuthResponse{AccessToken: "a2", RefreshToken: "r2", Email: "a@b.c"})
	}).Methods(http.MethodPost)

	gw := newGateway(t, router)

	resp, err := gw.Refresh(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "a2", resp.AccessToken)
	assert.Equal(t, "r2", resp.RefreshToken)
}
