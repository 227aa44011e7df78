package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Nzyazin/ledgerconsole/internal/core/clock"
	"github.com/Nzyazin/ledgerconsole/internal/core/logger"
	"github.com/Nzyazin/ledgerconsole/internal/core/models"
	"github.com/Nzyazin/ledgerconsole/internal/core/notify"
	"github.com/Nzyazin/ledgerconsole/internal/core/observable"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DetailConfig struct {
	PageSize        int
	PreviewDebounce time.Duration
}

func (c DetailConfig) withDefaults() DetailConfig {
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.PreviewDebounce <= 0 {
		c.PreviewDebounce = DefaultPreviewDebounce
	}
	return c
}

// WalletDetail drives the wallet detail screen: Loading -> Ready | Failed,
// operation modals, pagination and the FX preview.
type WalletDetail struct {
	ledger   Ledger
	notifier notify.Notifier
	clock    clock.Clock
	log      logger.Logger
	cfg      DetailConfig

	state *observable.Store[DetailState]
	wg    sync.WaitGroup

	mu       sync.Mutex
	bg       context.Context
	loadGen  uint64
	peersGen uint64
	retry    *submission

	preview previewLoop
}

// submission is one logical user action. Its request, idempotency key
// included, is fixed when built so Retry resends it unchanged.
type submission struct {
	kind     Modal
	walletID uuid.UUID
	run      func(ctx context.Context) (string, error)
}

func NewWalletDetail(ledger Ledger, notifier notify.Notifier, clk clock.Clock, cfg DetailConfig, log logger.Logger) *WalletDetail {
	return &WalletDetail{
		ledger:   ledger,
		notifier: notifier,
		clock:    clk,
		log:      log,
		cfg:      cfg.withDefaults(),
		state:    observable.NewStore(DetailState{Phase: PhaseLoading}),
		bg:       context.Background(),
	}
}

func (d *WalletDetail) State() DetailState {
	return d.state.Get()
}

func (d *WalletDetail) Subscribe(fn func(DetailState)) func() {
	return d.state.Subscribe(fn)
}

// Wait blocks until every background fetch started so far has settled.
// Callers must stop issuing new work first; request handlers wait on the
// channel returned by the call that started the work instead.
func (d *WalletDetail) Wait() {
	d.wg.Wait()
}

// Close drops the pending FX quote and waits for background fetches.
func (d *WalletDetail) Close() {
	d.cancelPreview()
	d.wg.Wait()
}

// spawn runs fn in the background. batch, when set, tracks the fetches of
// a single call.
func (d *WalletDetail) spawn(batch *sync.WaitGroup, fn func()) {
	d.wg.Add(1)
	if batch != nil {
		batch.Add(1)
	}
	go func() {
		defer d.wg.Done()
		if batch != nil {
			defer batch.Done()
		}
		fn()
	}()
}

func settled(batch *sync.WaitGroup) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		batch.Wait()
		close(done)
	}()
	return done
}

func (d *WalletDetail) generation() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loadGen
}

func (d *WalletDetail) background() context.Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bg
}

// apply mutates state only while gen is still the current screen load.
func (d *WalletDetail) apply(gen uint64, fn func(s *DetailState)) {
	d.state.Update(func(s DetailState) DetailState {
		if gen != d.generation() {
			return s
		}
		fn(&s)
		return s
	})
}

// Load enters Loading and issues the wallet, balance and first page fetches
// independently. It does not wait for them; the returned channel is closed
// once all three have settled.
func (d *WalletDetail) Load(ctx context.Context, id uuid.UUID) <-chan struct{} {
	d.cancelPreview()

	d.mu.Lock()
	d.loadGen++
	gen := d.loadGen
	d.bg = context.WithoutCancel(ctx)
	d.retry = nil
	bg := d.bg
	d.mu.Unlock()

	d.logStart("load", id)
	d.state.Set(DetailState{Phase: PhaseLoading})

	var batch sync.WaitGroup
	d.spawn(&batch, func() { d.fetchWallet(bg, gen, id) })
	d.spawn(&batch, func() { d.fetchBalance(bg, gen, id) })
	d.spawn(&batch, func() { _ = d.fetchPage(bg, gen, id, 0) })
	return settled(&batch)
}

func (d *WalletDetail) fetchWallet(ctx context.Context, gen uint64, id uuid.UUID) {
	wallet, err := d.ledger.GetWallet(ctx, id)
	if err != nil {
		d.log.Error("Wallet lookup failed",
			logger.StringField("wallet_id", id.String()),
			logger.ErrorField("error", err))
		d.apply(gen, func(s *DetailState) {
			s.Phase = PhaseFailed
			s.Error = userMessage(err, "Failed to load wallet")
		})
		return
	}
	d.apply(gen, func(s *DetailState) {
		s.Wallet = wallet
		s.Phase = PhaseReady
		s.Error = ""
	})
}

func (d *WalletDetail) fetchBalance(ctx context.Context, gen uint64, id uuid.UUID) {
	balance, err := d.ledger.GetBalance(ctx, id)
	if err != nil {
		d.log.Warn("Balance fetch failed",
			logger.StringField("wallet_id", id.String()),
			logger.ErrorField("error", err))
		return
	}
	d.apply(gen, func(s *DetailState) { s.Balance = balance })
}

func (d *WalletDetail) fetchPage(ctx context.Context, gen uint64, id uuid.UUID, page int) error {
	size := d.cfg.PageSize
	txs, err := d.ledger.ListTransactions(ctx, id, models.TransactionFilter{
		Page: &page,
		Size: &size,
		Sort: TransactionSort,
	})
	if err != nil {
		d.log.Warn("Transactions fetch failed",
			logger.StringField("wallet_id", id.String()),
			logger.IntField("page", page),
			logger.ErrorField("error", err))
		return fmt.Errorf("list transactions: %w", err)
	}
	d.apply(gen, func(s *DetailState) { s.Transactions = txs })
	return nil
}

// LoadPeers loads every wallet of the user for the transfer and FX pickers.
// The list is published first, balances are merged one by one as they
// arrive; a failed balance leaves its entry pending without affecting others.
func (d *WalletDetail) LoadPeers(ctx context.Context) <-chan struct{} {
	var batch sync.WaitGroup
	d.loadPeers(ctx, &batch)
	return settled(&batch)
}

func (d *WalletDetail) loadPeers(ctx context.Context, batch *sync.WaitGroup) {
	d.mu.Lock()
	d.peersGen++
	pgen := d.peersGen
	gen := d.loadGen
	d.mu.Unlock()

	bg := context.WithoutCancel(ctx)
	d.spawn(batch, func() {
		wallets, err := d.ledger.ListWallets(bg)
		if err != nil {
			d.log.Warn("Peer wallets fetch failed", logger.ErrorField("error", err))
			return
		}

		peers := make([]PeerWallet, len(wallets))
		for i, w := range wallets {
			peers[i] = PeerWallet{Wallet: w}
		}
		d.applyPeers(gen, pgen, func(s *DetailState) { s.Peers = peers })

		for _, w := range wallets {
			id := w.ID
			d.spawn(batch, func() {
				balance, err := d.ledger.GetBalance(bg, id)
				if err != nil {
					d.log.Debug("Peer balance unavailable",
						logger.StringField("wallet_id", id.String()),
						logger.ErrorField("error", err))
					return
				}
				d.applyPeers(gen, pgen, func(s *DetailState) {
					s.Peers = withPeerBalance(s.Peers, id, balance.Balance.Amount)
				})
			})
		}
	})
}

func (d *WalletDetail) applyPeers(gen, pgen uint64, fn func(s *DetailState)) {
	d.apply(gen, func(s *DetailState) {
		d.mu.Lock()
		current := d.peersGen
		d.mu.Unlock()
		if pgen == current {
			fn(s)
		}
	})
}

func (d *WalletDetail) OpenModal(kind Modal) error {
	if !kind.valid() {
		return ErrUnknownModal
	}
	d.state.Update(func(s DetailState) DetailState {
		s.Modal = kind
		return s
	})
	if kind == ModalFx {
		d.schedulePreview()
	}
	return nil
}

func (d *WalletDetail) CloseModal() {
	d.cancelPreview()
	d.state.Update(func(s DetailState) DetailState {
		s.Modal = ModalNone
		s.Preview = nil
		s.PreviewLoading = false
		return s
	})
}

// SetAmount accepts both "12.5" and "12,5".
func (d *WalletDetail) SetAmount(input string) error {
	amount, err := parseAmount(input)
	if err != nil {
		d.log.Warn("Amount conversion error",
			logger.StringField("input", input),
			logger.ErrorField("error", err))
		return err
	}
	d.updateForm(func(f *OperationForm) { f.Amount = amount })
	return nil
}

func (d *WalletDetail) SetTarget(id uuid.UUID) {
	d.updateForm(func(f *OperationForm) { f.TargetWalletID = id })
}

func (d *WalletDetail) SetDescription(description string) {
	d.updateForm(func(f *OperationForm) { f.Description = description })
}

// updateForm edits the form. An edited form is a new action, so any failed
// submission is no longer retryable.
func (d *WalletDetail) updateForm(fn func(f *OperationForm)) {
	d.mu.Lock()
	d.retry = nil
	d.mu.Unlock()

	s := d.state.Update(func(s DetailState) DetailState {
		fn(&s.Form)
		return s
	})
	if s.Modal == ModalFx {
		d.schedulePreview()
	}
}

func parseAmount(input string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(input), ",", ".")
	if normalized == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}
	return amount, nil
}

func (d *WalletDetail) SubmitDeposit(ctx context.Context) error {
	s := d.state.Get()
	wallet, err := requireOperation(s)
	if err != nil {
		return err
	}

	req := models.DepositRequest{
		WalletID:       wallet.ID,
		Amount:         s.Form.Amount,
		Currency:       wallet.BaseCurrency,
		IdempotencyKey: uuid.NewString(),
	}
	return d.submit(ctx, &submission{kind: ModalDeposit, walletID: wallet.ID, run: func(ctx context.Context) (string, error) {
		if _, err := d.ledger.Deposit(ctx, req); err != nil {
			return "", err
		}
		return "Deposit successful", nil
	}})
}

func (d *WalletDetail) SubmitWithdrawal(ctx context.Context) error {
	s := d.state.Get()
	wallet, err := requireOperation(s)
	if err != nil {
		return err
	}

	req := models.WithdrawalRequest{
		WalletID:       wallet.ID,
		Amount:         s.Form.Amount,
		Currency:       wallet.BaseCurrency,
		IdempotencyKey: uuid.NewString(),
	}
	return d.submit(ctx, &submission{kind: ModalWithdraw, walletID: wallet.ID, run: func(ctx context.Context) (string, error) {
		if _, err := d.ledger.Withdraw(ctx, req); err != nil {
			return "", err
		}
		return "Withdrawal successful", nil
	}})
}

func (d *WalletDetail) SubmitTransfer(ctx context.Context) error {
	s := d.state.Get()
	wallet, err := requireOperation(s)
	if err != nil {
		return err
	}
	if err := checkTransferTarget(s, wallet); err != nil {
		return err
	}

	req := models.TransferRequest{
		SourceWalletID: wallet.ID,
		TargetWalletID: s.Form.TargetWalletID,
		Amount:         s.Form.Amount,
		Currency:       wallet.BaseCurrency,
		Description:    strings.TrimSpace(s.Form.Description),
		IdempotencyKey: uuid.NewString(),
	}
	return d.submit(ctx, &submission{kind: ModalTransfer, walletID: wallet.ID, run: func(ctx context.Context) (string, error) {
		if _, err := d.ledger.Transfer(ctx, req); err != nil {
			return "", err
		}
		return "Transfer successful", nil
	}})
}

func (d *WalletDetail) SubmitConversion(ctx context.Context) error {
	s := d.state.Get()
	wallet, err := requireOperation(s)
	if err != nil {
		return err
	}
	if _, err := checkFxTarget(s, wallet); err != nil {
		return err
	}

	req := models.FxConvertRequest{
		SourceWalletID: wallet.ID,
		TargetWalletID: s.Form.TargetWalletID,
		Amount:         s.Form.Amount,
		SourceCurrency: wallet.BaseCurrency,
		IdempotencyKey: uuid.NewString(),
	}
	return d.submit(ctx, &submission{kind: ModalFx, walletID: wallet.ID, run: func(ctx context.Context) (string, error) {
		res, err := d.ledger.ConvertFx(ctx, req)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Converted %s %s → %s %s (Rate: %s)",
			res.SourceAmount.Amount, res.SourceAmount.Currency,
			res.TargetAmount.Amount, res.TargetAmount.Currency,
			res.ExchangeRate), nil
	}})
}

// Retry resends the last failed submission with its original idempotency key.
func (d *WalletDetail) Retry(ctx context.Context) error {
	d.mu.Lock()
	sub := d.retry
	d.mu.Unlock()
	if sub == nil {
		return ErrNothingToRetry
	}
	return d.submit(ctx, sub)
}

func requireOperation(s DetailState) (*models.Wallet, error) {
	if s.Wallet == nil {
		return nil, ErrWalletNotLoaded
	}
	if !s.Form.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	return s.Wallet, nil
}

func checkTransferTarget(s DetailState, wallet *models.Wallet) error {
	target := s.Form.TargetWalletID
	if target == uuid.Nil {
		return ErrTargetRequired
	}
	if target == wallet.ID {
		return ErrSameWallet
	}
	if peer, ok := s.peer(target); ok && !peer.Active() {
		return ErrUnknownTarget
	}
	return nil
}

func checkFxTarget(s DetailState, wallet *models.Wallet) (models.Wallet, error) {
	if err := checkTransferTarget(s, wallet); err != nil {
		return models.Wallet{}, err
	}
	peer, ok := s.peer(s.Form.TargetWalletID)
	if !ok || !peer.Active() {
		return models.Wallet{}, ErrUnknownTarget
	}
	if peer.BaseCurrency == wallet.BaseCurrency {
		return models.Wallet{}, ErrSameCurrency
	}
	return peer, nil
}

func (d *WalletDetail) submit(ctx context.Context, sub *submission) error {
	if !d.beginOperation() {
		return ErrOperationInFlight
	}

	gen := d.generation()
	d.logStart(string(sub.kind), sub.walletID)

	msg, err := sub.run(ctx)
	if err != nil {
		if d.onScreen(gen, sub.walletID) {
			d.mu.Lock()
			d.retry = sub
			d.mu.Unlock()
		}
		d.apply(gen, func(s *DetailState) { s.OperationLoading = false })
		d.log.Warn("Operation failed",
			logger.StringField("wallet_id", sub.walletID.String()),
			logger.StringField("type", string(sub.kind)),
			logger.ErrorField("error", err))
		return fmt.Errorf("%s: %w", sub.kind, err)
	}

	d.notifier.Notify(msg, notify.SeveritySuccess)

	// Another wallet was opened while the request was in flight: the new
	// screen owns the state now.
	if !d.onScreen(gen, sub.walletID) {
		d.log.Info("Operation finished after screen change",
			logger.StringField("wallet_id", sub.walletID.String()),
			logger.StringField("type", string(sub.kind)))
		return nil
	}

	d.mu.Lock()
	d.retry = nil
	d.mu.Unlock()
	d.cancelPreview()
	d.apply(gen, func(s *DetailState) {
		s.OperationLoading = false
		s.Modal = ModalNone
		s.Form = OperationForm{}
		s.Preview = nil
		s.PreviewLoading = false
	})
	d.reloadAfter(gen, sub.kind, sub.walletID)
	return nil
}

// onScreen reports whether the screen load gen is still current and shows
// walletID.
func (d *WalletDetail) onScreen(gen uint64, walletID uuid.UUID) bool {
	if d.generation() != gen {
		return false
	}
	w := d.state.Get().Wallet
	return w != nil && w.ID == walletID
}

func (d *WalletDetail) beginOperation() bool {
	started := false
	d.state.Update(func(s DetailState) DetailState {
		if s.OperationLoading {
			return s
		}
		s.OperationLoading = true
		started = true
		return s
	})
	return started
}

// reloadAfter refreshes balance and the first page and returns once they
// settled. Transfers and conversions also change a peer's balance, so peers
// are reloaded too.
func (d *WalletDetail) reloadAfter(gen uint64, kind Modal, id uuid.UUID) {
	bg := d.background()

	var batch sync.WaitGroup
	d.spawn(&batch, func() { d.fetchBalance(bg, gen, id) })
	d.spawn(&batch, func() { _ = d.fetchPage(bg, gen, id, 0) })
	if kind == ModalTransfer || kind == ModalFx {
		d.loadPeers(bg, &batch)
	}
	batch.Wait()
}

func (d *WalletDetail) GoToPage(ctx context.Context, page int) error {
	s := d.state.Get()
	if s.Wallet == nil {
		return ErrWalletNotLoaded
	}
	if page < 0 {
		return ErrPageOutOfRange
	}
	if s.Transactions != nil && s.Transactions.TotalPages > 0 && page >= s.Transactions.TotalPages {
		return ErrPageOutOfRange
	}
	return d.fetchPage(ctx, d.generation(), s.Wallet.ID, page)
}

func (d *WalletDetail) NextPage(ctx context.Context) error {
	s := d.state.Get()
	if s.Transactions == nil {
		return ErrWalletNotLoaded
	}
	if s.Transactions.Last {
		return ErrLastPage
	}
	return d.GoToPage(ctx, s.Transactions.Number+1)
}

func (d *WalletDetail) PreviousPage(ctx context.Context) error {
	s := d.state.Get()
	if s.Transactions == nil {
		return ErrWalletNotLoaded
	}
	if s.Transactions.First {
		return ErrFirstPage
	}
	return d.GoToPage(ctx, s.Transactions.Number-1)
}

func (d *WalletDetail) Transaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	tx, err := d.ledger.GetTransaction(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (d *WalletDetail) logStart(op string, walletID uuid.UUID) {
	d.log.Info("Starting operation",
		logger.StringField("wallet_id", walletID.String()),
		logger.StringField("type", op))
}
