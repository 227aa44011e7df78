package usecase_test

import (
	"fmt"
	"sync"
	"time"

	"github.com/Nzyazin/ledgerconsole/internal/core/models"
	"github.com/Nzyazin/ledgerconsole/internal/core/notify"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type note struct {
	message  string
	severity notify.Severity
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (r *recordingNotifier) Notify(message string, severity notify.Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note{message, severity})
}

func (r *recordingNotifier) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.notes))
	for i, n := range r.notes {
		out[i] = n.message
	}
	return out
}

// userFacingErr stands in for the pipeline error the gateway returns.
type userFacingErr struct{ msg string }

func (e userFacingErr) Error() string       { return "ledger: " + e.msg }
func (e userFacingErr) UserMessage() string { return e.msg }

type decimalMatcher struct{ want decimal.Decimal }

func (m decimalMatcher) Matches(x interface{}) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m decimalMatcher) String() string { return "decimal equal to " + m.want.String() }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func intPtr(v int) *int { return &v }

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
		Balance:      models.NewMoney(dec(amount), w.BaseCurrency),
		CalculatedAt: epoch,
	}
}

func pageFilter(page, size int) models.TransactionFilter {
	return models.TransactionFilter{Page: intPtr(page), Size: intPtr(size), Sort: "occurredAt,desc"}
}

func txPage(w models.Wallet, number, totalPages int) *models.Page[models.Transaction] {
	tx := models.Transaction{
		ID:         uuid.New(),
		WalletID:   w.ID,
		Amount:     models.NewMoney(dec(fmt.Sprint(number+1)), w.BaseCurrency),
		Direction:  models.DirectionCredit,
		OccurredAt: epoch,
	}
	return &models.Page[models.Transaction]{
		Content:       []models.Transaction{tx},
		TotalElements: int64(totalPages),
		TotalPages:    totalPages,
		Size:          10,
		Number:        number,
		First:         number == 0,
		Last:          number == totalPages-1,
	}
}
