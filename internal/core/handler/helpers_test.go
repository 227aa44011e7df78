package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Nzyazin/ledgerconsole/internal/core/models"
	"github.com/Nzyazin/ledgerconsole/internal/core/notify"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type routes interface {
	RegisterRoutes(router *mux.Router)
}

func newRouter(r routes) *mux.Router {
	router := mux.NewRouter()
	r.RegisterRoutes(router)
	return router
}

func perform(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dst), rr.Body.String())
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, rr, &body)
	return body.Error
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingNotifier) Notify(message string, _ notify.Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

func (r *recordingNotifier) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

var epoch = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func newWallet(currency models.Currency, status models.WalletStatus) models.Wallet {
	return models.Wallet{
		ID:           uuid.New(),
		OwnerID:      uuid.New(),
		BaseCurrency: currency,
		Status:       status,
		CreatedAt:    epoch,
	}
}

func balanceOf(w models.Wallet, amount string) *models.Balance {
	return &models.Balance{
		WalletID:     w.ID,
		Balance:      models.NewMoney(decimal.RequireFromString(amount), w.BaseCurrency),
		CalculatedAt: epoch,
	}
}

func emptyPage() *models.Page[models.Transaction] {
	return &models.Page[models.Transaction]{Content: []models.Transaction{}, TotalPages: 1, Size: 10, First: true, Last: true}
}
