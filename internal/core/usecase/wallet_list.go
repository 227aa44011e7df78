package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/Nzyazin/ledgerconsole/internal/core/logger"
	"github.com/Nzyazin/ledgerconsole/internal/core/models"
	"github.com/Nzyazin/ledgerconsole/internal/core/notify"
	"github.com/Nzyazin/ledgerconsole/internal/core/observable"
	"github.com/google/uuid"
)

// WalletList drives the wallet list screen: creation and suspend/activate
// behind an explicit confirmation.
type WalletList struct {
	ledger   Ledger
	notifier notify.Notifier
	log      logger.Logger

	state *observable.Store[ListState]

	mu  sync.Mutex
	gen uint64
}

func NewWalletList(ledger Ledger, notifier notify.Notifier, log logger.Logger) *WalletList {
	return &WalletList{
		ledger:   ledger,
		notifier: notifier,
		log:      log,
		state:    observable.NewStore(ListState{Loading: true}),
	}
}

func (l *WalletList) State() ListState {
	return l.state.Get()
}

func (l *WalletList) Subscribe(fn func(ListState)) func() {
	return l.state.Subscribe(fn)
}

// Load replaces the list and then fetches each balance on its own. Entries
// are merged as they arrive; Load returns once every balance has settled.
func (l *WalletList) Load(ctx context.Context) error {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	l.state.Update(func(s ListState) ListState {
		s.Loading = true
		s.Error = ""
		return s
	})

	wallets, err := l.ledger.ListWallets(ctx)
	if err != nil {
		l.log.Error("Wallets load failed", logger.ErrorField("error", err))
		l.apply(gen, func(s *ListState) {
			s.Loading = false
			s.Error = userMessage(err, "Failed to load wallets")
		})
		return fmt.Errorf("list wallets: %w", err)
	}

	entries := make([]WalletEntry, len(wallets))
	for i, w := range wallets {
		entries[i] = WalletEntry{Wallet: w}
	}
	l.apply(gen, func(s *ListState) {
		s.Loading = false
		s.Wallets = entries
	})

	bg := context.WithoutCancel(ctx)
	var wg sync.WaitGroup
	for _, w := range wallets {
		id := w.ID
		wg.Add(1)
		go func() {
			defer wg.Done()
			balance, err := l.ledger.GetBalance(bg, id)
			if err != nil {
				l.log.Debug("Balance unavailable",
					logger.StringField("wallet_id", id.String()),
					logger.ErrorField("error", err))
				return
			}
			l.apply(gen, func(s *ListState) { s.Wallets = withEntryBalance(s.Wallets, id, balance) })
		}()
	}
	wg.Wait()
	return nil
}

func (l *WalletList) apply(gen uint64, fn func(s *ListState)) {
	l.state.Update(func(s ListState) ListState {
		l.mu.Lock()
		current := l.gen
		l.mu.Unlock()
		if gen == current {
			fn(&s)
		}
		return s
	})
}

func withEntryBalance(entries []WalletEntry, id uuid.UUID, balance *models.Balance) []WalletEntry {
	out := make([]WalletEntry, len(entries))
	copy(out, entries)
	for i := range out {
		if out[i].Wallet.ID == id {
			out[i].Balance = balance
		}
	}
	return out
}

func (l *WalletList) Create(ctx context.Context, currency models.Currency) error {
	if !currency.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedCurrency, currency)
	}

	started := false
	l.state.Update(func(s ListState) ListState {
		if !s.CreateLoading {
			s.CreateLoading = true
			started = true
		}
		return s
	})
	if !started {
		return ErrOperationInFlight
	}

	l.log.Info("Starting operation", logger.StringField("type", "create"), logger.StringField("currency", string(currency)))
	wallet, err := l.ledger.CreateWallet(ctx, models.CreateWalletRequest{BaseCurrency: currency})
	l.state.Update(func(s ListState) ListState {
		s.CreateLoading = false
		return s
	})
	if err != nil {
		l.log.Warn("Wallet creation failed", logger.ErrorField("error", err))
		return fmt.Errorf("create wallet: %w", err)
	}

	l.notifier.Notify(fmt.Sprintf("Wallet created successfully (%s)", wallet.BaseCurrency), notify.SeveritySuccess)
	return l.Load(ctx)
}

func (l *WalletList) RequestSuspend(id uuid.UUID) error {
	return l.request(id, ActionSuspend)
}

func (l *WalletList) RequestActivate(id uuid.UUID) error {
	return l.request(id, ActionActivate)
}

// request only stages a confirmation; nothing is sent until Confirm.
func (l *WalletList) request(id uuid.UUID, action ConfirmAction) error {
	var found *models.Wallet
	for _, e := range l.state.Get().Wallets {
		if e.Wallet.ID == id {
			w := e.Wallet
			found = &w
			break
		}
	}
	if found == nil {
		return ErrWalletNotFound
	}

	var c Confirmation
	switch action {
	case ActionSuspend:
		if found.Status != models.WalletActive {
			return ErrWalletStatusConflict
		}
		c = Confirmation{
			Title:       "Suspend Wallet",
			Message:     fmt.Sprintf("Are you sure you want to suspend the %s wallet? No operations will be allowed until activated.", found.BaseCurrency),
			Tone:        "warning",
			ConfirmText: "Suspend",
		}
	case ActionActivate:
		if found.Status != models.WalletSuspended {
			return ErrWalletStatusConflict
		}
		c = Confirmation{
			Title:       "Activate Wallet",
			Message:     fmt.Sprintf("Are you sure you want to activate the %s wallet?", found.BaseCurrency),
			Tone:        "info",
			ConfirmText: "Activate",
		}
	}
	c.Action = action
	c.WalletID = id

	l.state.Update(func(s ListState) ListState {
		s.Pending = &c
		return s
	})
	return nil
}

func (l *WalletList) Cancel() {
	l.state.Update(func(s ListState) ListState {
		s.Pending = nil
		return s
	})
}

// Confirm issues exactly one lifecycle call for the pending confirmation and
// then reloads the whole list.
func (l *WalletList) Confirm(ctx context.Context) error {
	var pending *Confirmation
	l.state.Update(func(s ListState) ListState {
		if s.Pending == nil || s.ConfirmLoading {
			return s
		}
		pending = s.Pending
		s.ConfirmLoading = true
		return s
	})
	if pending == nil {
		if l.state.Get().ConfirmLoading {
			return ErrOperationInFlight
		}
		return ErrNoPendingConfirm
	}

	l.log.Info("Starting operation",
		logger.StringField("wallet_id", pending.WalletID.String()),
		logger.StringField("type", string(pending.Action)))

	var err error
	var done string
	switch pending.Action {
	case ActionSuspend:
		_, err = l.ledger.SuspendWallet(ctx, pending.WalletID)
		done = "Wallet suspended"
	case ActionActivate:
		_, err = l.ledger.ActivateWallet(ctx, pending.WalletID)
		done = "Wallet activated"
	}

	if err != nil {
		l.state.Update(func(s ListState) ListState {
			s.ConfirmLoading = false
			return s
		})
		l.log.Warn("Wallet status change failed",
			logger.StringField("wallet_id", pending.WalletID.String()),
			logger.ErrorField("error", err))
		return fmt.Errorf("%s wallet: %w", pending.Action, err)
	}

	l.state.Update(func(s ListState) ListState {
		s.ConfirmLoading = false
		s.Pending = nil
		return s
	})
	l.notifier.Notify(done, notify.SeveritySuccess)
	return l.Load(ctx)
}
