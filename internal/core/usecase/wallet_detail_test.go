package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Nzyazin/ledgerconsole/internal/core/clock"
	"github.com/Nzyazin/ledgerconsole/internal/core/logger"
	"github.com/Nzyazin/ledgerconsole/internal/core/models"
	"github.com/Nzyazin/ledgerconsole/internal/core/usecase"
	mock_usecase "github.com/Nzyazin/ledgerconsole/internal/core/usecase/mocks"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type detailFixture struct {
	ledger   *mock_usecase.MockLedger
	notifier *recordingNotifier
	clock    *clock.Fake
	detail   *usecase.WalletDetail

	usd, eur, gbp, eurSuspended models.Wallet
}

func newDetailFixture(t *testing.T) *detailFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &detailFixture{
		ledger:       mock_usecase.NewMockLedger(ctrl),
		notifier:     &recordingNotifier{},
		clock:        clock.NewFake(epoch),
		usd:          newWallet(models.CurrencyUSD, models.WalletActive),
		eur:          newWallet(models.CurrencyEUR, models.WalletActive),
		gbp:          newWallet(models.CurrencyGBP, models.WalletActive),
		eurSuspended: newWallet(models.CurrencyEUR, models.WalletSuspended),
	}
	f.detail = usecase.NewWalletDetail(f.ledger, f.notifier, f.clock, usecase.DetailConfig{
		PageSize:        10,
		PreviewDebounce: 500 * time.Millisecond,
	}, logger.NewNop())
	return f
}

// loadReady opens the USD wallet with balance 50.00 and a 3-page history.
func (f *detailFixture) loadReady(t *testing.T) {
	t.Helper()
	f.ledger.EXPECT().GetWallet(gomock.Any(), f.usd.ID).Return(&f.usd, nil)
	f.ledger.EXPECT().GetBalance(gomock.Any(), f.usd.ID).Return(balanceOf(f.usd, "50.00"), nil)
	f.ledger.EXPECT().ListTransactions(gomock.Any(), f.usd.ID, pageFilter(0, 10)).Return(txPage(f.usd, 0, 3), nil)

	f.detail.Load(context.Background(), f.usd.ID)
	f.detail.Wait()
	require.Equal(t, usecase.PhaseReady, f.detail.State().Phase)
}

func (f *detailFixture) loadPeers(t *testing.T) {
	t.Helper()
	wallets := []models.Wallet{f.usd, f.eur, f.gbp, f.eurSuspended}
	f.ledger.EXPECT().ListWallets(gomock.Any()).Return(wallets, nil)
	for _, w := range wallets {
		f.ledger.EXPECT().GetBalance(gomock.Any(), w.ID).Return(balanceOf(w, "10"), nil)
	}
	f.detail.LoadPeers(context.Background())
	f.detail.Wait()
}

func (f *detailFixture) expectReload(w models.Wallet, balance string) {
	f.ledger.EXPECT().GetBalance(gomock.Any(), w.ID).Return(balanceOf(w, balance), nil)
	f.ledger.EXPECT().ListTransactions(gomock.Any(), w.ID, pageFilter(0, 10)).Return(txPage(w, 0, 3), nil)
}

func TestWalletDetail_Load(t *testing.T) {
	f := newDetailFixture(t)
	f.loadReady(t)

	s := f.detail.State()
	assert.Equal(t, f.usd.ID, s.Wallet.ID)
	assert.True(t, dec("50").Equal(s.Balance.Balance.Amount))
	require.NotNil(t, s.Transactions)
	assert.True(t, s.Transactions.First)
	assert.Empty(t, s.Error)
}

func TestWalletDetail_LoadFailed(t *testing.T) {
	f := newDetailFixture(t)
	id := uuid.New()
	f.ledger.EXPECT().GetWallet(gomock.Any(), id).Return(nil, userFacingErr{"Resource not found."})
	f.ledger.EXPECT().GetBalance(gomock.Any(), id).Return(nil, userFacingErr{"Resource not found."})
	f.ledger.EXPECT().ListTransactions(gomock.Any(), id, pageFilter(0, 10)).Return(nil, userFacingErr{"Resource not found."})

	f.detail.Load(context.Background(), id)
	f.detail.Wait()

	s := f.detail.State()
	assert.Equal(t, usecase.PhaseFailed, s.Phase)
	assert.Equal(t, "Resource not found.", s.Error)
	assert.Nil(t, s.Wallet)
}

func TestWalletDetail_DepositReloadsBalanceAndFirstPage(t *testing.T) {
	f := newDetailFixture(t)
	f.loadReady(t)

	require.NoError(t, f.detail.OpenModal(usecase.ModalDeposit))
	require.NoError(t, f.detail.SetAmount("100.00"))

	f.ledger.EXPECT().Deposit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req models.DepositRequest) (*models.DepositResponse, error) {
			assert.Equal(t, f.usd.ID, req.WalletID)
			assert.True(t, dec("100").Equal(req.Amount))
			assert.Equal(t, models.CurrencyUSD, req.Currency)
			_, err := uuid.Parse(req.IdempotencyKey)
			assert.NoError(t, err)
			return &models.DepositResponse{WalletID: req.WalletID, Status: "COMPLETED"}, nil
		})
	f.expectReload(f.usd, "150.00")

	require.NoError(t, f.detail.SubmitDeposit(context.Background()))
	f.detail.Wait()

	s := f.detail.State()
	assert.Equal(t, usecase.ModalNone, s.Modal)
	assert.True(t, s.Form.Amount.IsZero())
	assert.False(t, s.OperationLoading)
	assert.True(t, dec("150").Equal(s.Balance.Balance.Amount))
	assert.Equal(t, []string{"Deposit successful"}, f.notifier.messages())
}

func TestWalletDetail_FailedSubmissionKeepsModalAndRetriesWithSameKey(t *testing.T) {
	f := newDetailFixture(t)
	f.loadReady(t)

	require.NoError(t, f.detail.OpenModal(usecase.ModalWithdraw))
	require.NoError(t, f.detail.SetAmount("75"))

	var firstKey string
	gomock.InOrder(
		f.ledger.EXPECT().Withdraw(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req models.WithdrawalRequest) (*models.WithdrawalResponse, error) {
				firstKey = req.IdempotencyKey
				return nil, userFacingErr{"Server error. Please try again later."}
			}),
		f.ledger.EXPECT().Withdraw(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req models.WithdrawalRequest) (*models.WithdrawalResponse, error) {
				assert.Equal(t, firstKey, req.IdempotencyKey)
				return &models.WithdrawalResponse{Status: "COMPLETED"}, nil
			}),
	)

	err := f.detail.SubmitWithdrawal(context.Background())
	require.Error(t, err)
	f.detail.Wait()

	s := f.detail.State()
	assert.Equal(t, usecase.ModalWithdraw, s.Modal)
	assert.True(t, dec("75").Equal(s.Form.Amount))
	assert.False(t, s.OperationLoading)
	assert.Empty(t, f.notifier.messages())

	f.expectReload(f.usd, "-25")
	require.NoError(t, f.detail.Retry(context.Background()))
	f.detail.Wait()

	assert.Equal(t, usecase.ModalNone, f.detail.State().Modal)
	assert.Equal(t, []string{"Withdrawal successful"}, f.notifier.messages())
	assert.ErrorIs(t, f.detail.Retry(context.Background()), usecase.ErrNothingToRetry)
}

func TestWalletDetail_EditingFormDropsRetry(t *testing.T) {
	f := newDetailFixture(t)
	f.loadReady(t)

	require.NoError(t, f.detail.SetAmount("5"))
	f.ledger.EXPECT().Deposit(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
	require.Error(t, f.detail.SubmitDeposit(context.Background()))

	require.NoError(t, f.detail.SetAmount("6"))
	assert.ErrorIs(t, f.detail.Retry(context.Background()), usecase.ErrNothingToRetry)
}

func TestWalletDetail_FreshKeyPerSubmission(t *testing.T) {
	f := newDetailFixture(t)
	f.loadReady(t)

	var keys []string
	f.ledger.EXPECT().Deposit(gomock.Any(), gomock.Any()).Times(2).
		DoAndReturn(func(_ context.Context, req models.DepositRequest) (*models.DepositResponse, error) {
			keys = append(keys, req.IdempotencyKey)
			return &models.DepositResponse{}, nil
		})
	f.ledger.EXPECT().GetBalance(gomock.Any(), f.usd.ID).Return(balanceOf(f.usd, "60"), nil).Times(2)
	f.ledger.EXPECT().ListTransactions(gomock.Any(), f.usd.ID, pageFilter(0, 10)).Return(txPage(f.usd, 0, 3), nil).Times(2)

	for i := 0; i < 2; i++ {
		require.NoError(t, f.detail.SetAmount("5"))
		require.NoError(t, f.detail.SubmitDeposit(context.Background()))
		f.detail.Wait()
	}

	require.Len(t, keys, 2)
	assert.NotEqual(t, keys[0], keys[1])
}

func TestWalletDetail_Preconditions(t *testing.T) {
	f := newDetailFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.detail.SubmitDeposit(ctx), usecase.ErrWalletNotLoaded)

	f.loadReady(t)
	f.loadPeers(t)

	assert.ErrorIs(t, f.detail.SubmitDeposit(ctx), usecase.ErrInvalidAmount)
	require.NoError(t, f.detail.SetAmount("-3"))
	assert.ErrorIs(t, f.detail.SubmitWithdrawal(ctx), usecase.ErrInvalidAmount)
	assert.ErrorIs(t, f.detail.SetAmount("abc"), usecase.ErrInvalidAmount)

	require.NoError(t, f.detail.SetAmount("10"))
	assert.ErrorIs(t, f.detail.SubmitTransfer(ctx), usecase.ErrTargetRequired)

	f.detail.SetTarget(f.usd.ID)
	assert.ErrorIs(t, f.detail.SubmitTransfer(ctx), usecase.ErrSameWallet)

	f.detail.SetTarget(f.eurSuspended.ID)
	assert.ErrorIs(t, f.detail.SubmitTransfer(ctx), usecase.ErrUnknownTarget)

	usd2 := newWallet(models.CurrencyUSD, models.WalletActive)
	f.ledger.EXPECT().ListWallets(gomock.Any()).Return([]models.Wallet{f.usd, usd2}, nil)
	f.ledger.EXPECT().GetBalance(gomock.Any(), gomock.Any()).Return(balanceOf(f.usd, "1"), nil).Times(2)
	f.detail.LoadPeers(ctx)
	f.detail.Wait()

	f.detail.SetTarget(usd2.ID)
	assert.ErrorIs(t, f.detail.SubmitConversion(ctx), usecase.ErrSameCurrency)

	f.detail.SetTarget(uuid.New())
	assert.ErrorIs(t, f.detail.SubmitConversion(ctx), usecase.ErrUnknownTarget)

	assert.ErrorIs(t, f.detail.OpenModal("refund"), usecase.ErrUnknownModal)
}

func TestWalletDetail_SingleFlight(t *testing.T) {
	f := newDetailFixture(t)
	f.loadReady(t)
	require.NoError(t, f.detail.SetAmount("1"))

	release := make(chan struct{})
	f.ledger.EXPECT().Deposit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, models.DepositRequest) (*models.DepositResponse, error) {
			<-release
			return &models.DepositResponse{}, nil
		})
	f.expectReload(f.usd, "51")

	done := make(chan error, 1)
	go func() { done <- f.detail.SubmitDeposit(context.Background()) }()

	require.Eventually(t, func() bool { return f.detail.State().OperationLoading }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, f.detail.SubmitDeposit(context.Background()), usecase.ErrOperationInFlight)

	close(release)
	require.NoError(t, <-done)
	f.detail.Wait()
	assert.False(t, f.detail.State().OperationLoading)
}

func TestWalletDetail_TransferReloadsPeers(t *testing.T) {
	f := newDetailFixture(t)
	f.loadReady(t)
	f.loadPeers(t)

	require.NoError(t, f.detail.OpenModal(usecase.ModalTransfer))
	require.NoError(t, f.detail.SetAmount("20"))
	f.detail.SetTarget(f.gbp.ID)
	f.detail.SetDescription("  rent ")

	f.ledger.EXPECT().Transfer(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req models.TransferRequest) (*models.TransferResponse, error) {
			assert.Equal(t, f.usd.ID, req.SourceWalletID)
			assert.Equal(t, f.gbp.ID, req.TargetWalletID)
			assert.Equal(t, "rent", req.Description)
			assert.Equal(t, models.CurrencyUSD, req.Currency)
			return &models.TransferResponse{Status: "COMPLETED"}, nil
		})
	f.expectReload(f.usd, "30")
	f.ledger.EXPECT().ListWallets(gomock.Any()).Return([]models.Wallet{f.usd, f.gbp}, nil)
	f.ledger.EXPECT().GetBalance(gomock.Any(), f.usd.ID).Return(balanceOf(f.usd, "30"), nil)
	f.ledger.EXPECT().GetBalance(gomock.Any(), f.gbp.ID).Return(balanceOf(f.gbp, "30"), nil)

	require.NoError(t, f.detail.SubmitTransfer(context.Background()))
	f.detail.Wait()

	s := f.detail.State()
	assert.Equal(t, []string{"Transfer successful"}, f.notifier.messages())
	assert.Equal(t, uuid.Nil, s.Form.TargetWalletID)
	assert.Empty(t, s.Form.Description)
	require.Len(t, s.Peers, 2)
	for _, p := range s.Peers {
		require.NotNil(t, p.Balance)
		assert.True(t, dec("30").Equal(*p.Balance))
	}
}

func TestWalletDetail_ConversionMessage(t *testing.T) {
	f := newDetailFixture(t)
	f.loadReady(t)
	f.loadPeers(t)

	f.detail.SetTarget(f.eur.ID)
	require.NoError(t, f.detail.SetAmount("100"))

	f.ledger.EXPECT().ConvertFx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req models.FxConvertRequest) (*models.FxConvertResponse, error) {
			assert.Equal(t, models.CurrencyUSD, req.SourceCurrency)
			assert.Equal(t, f.eur.ID, req.TargetWalletID)
			return &models.FxConvertResponse{
				SourceAmount: models.NewMoney(dec("100"), models.CurrencyUSD),
				TargetAmount: models.NewMoney(dec("92"), models.CurrencyEUR),
				ExchangeRate: dec("0.92"),
			}, nil
		})
	f.expectReload(f.usd, "0")
	f.ledger.EXPECT().ListWallets(gomock.Any()).Return(nil, errors.New("offline"))

	require.NoError(t, f.detail.SubmitConversion(context.Background()))
	f.detail.Wait()

	assert.Equal(t, []string{"Converted 100 USD → 92 EUR (Rate: 0.92)"}, f.notifier.messages())
}

func TestWalletDetail_PeerBalanceFailureDoesNotBlockOthers(t *testing.T) {
	f := newDetailFixture(t)
	f.loadReady(t)

	f.ledger.EXPECT().ListWallets(gomock.Any()).Return([]models.Wallet{f.usd, f.eur, f.gbp}, nil)
	f.ledger.EXPECT().GetBalance(gomock.Any(), f.usd.ID).Return(balanceOf(f.usd, "1"), nil)
	f.ledger.EXPECT().GetBalance(gomock.Any(), f.eur.ID).Return(nil, errors.New("timeout"))
	f.ledger.EXPECT().GetBalance(gomock.Any(), f.gbp.ID).Return(balanceOf(f.gbp, "3"), nil)

	f.detail.LoadPeers(context.Background())
	f.detail.Wait()

	got := map[uuid.UUID]*string{}
	for _, p := range f.detail.State().Peers {
		if p.Balance == nil {
			got[p.Wallet.ID] = nil
			continue
		}
		s := p.Balance.String()
		got[p.Wallet.ID] = &s
	}
	require.Len(t, got, 3)
	assert.Nil(t, got[f.eur.ID])
	require.NotNil(t, got[f.usd.ID])
	assert.Equal(t, "1", *got[f.usd.ID])
	require.NotNil(t, got[f.gbp.ID])
	assert.Equal(t, "3", *got[f.gbp.ID])
}

func TestWalletDetail_Views(t *testing.T) {
	f := newDetailFixture(t)
	f.loadReady(t)
	f.loadPeers(t)

	ids := func(peers []usecase.PeerWallet) []uuid.UUID {
		out := make([]uuid.UUID, 0, len(peers))
		for _, p := range peers {
			out = append(out, p.Wallet.ID)
		}
		return out
	}

	s := f.detail.State()
	assert.ElementsMatch(t, []uuid.UUID{f.eur.ID, f.gbp.ID}, ids(s.OtherWallets()))
	assert.ElementsMatch(t, []uuid.UUID{f.eur.ID, f.gbp.ID}, ids(s.FxTargets()))

	usd2 := newWallet(models.CurrencyUSD, models.WalletActive)
	f.ledger.EXPECT().ListWallets(gomock.Any()).Return([]models.Wallet{f.usd, f.eur, usd2}, nil)
	f.ledger.EXPECT().GetBalance(gomock.Any(), gomock.Any()).Return(balanceOf(f.usd, "1"), nil).Times(3)
	f.detail.LoadPeers(context.Background())
	f.detail.Wait()

	s = f.detail.State()
	assert.ElementsMatch(t, []uuid.UUID{f.eur.ID, usd2.ID}, ids(s.OtherWallets()))
	assert.ElementsMatch(t, []uuid.UUID{f.eur.ID}, ids(s.FxTargets()))
}

func TestWalletDetail_Pagination(t *testing.T) {
	f := newDetailFixture(t)
	ctx := context.Background()
	f.loadReady(t)

	assert.ErrorIs(t, f.detail.PreviousPage(ctx), usecase.ErrFirstPage)
	assert.ErrorIs(t, f.detail.GoToPage(ctx, -1), usecase.ErrPageOutOfRange)
	assert.ErrorIs(t, f.detail.GoToPage(ctx, 3), usecase.ErrPageOutOfRange)

	f.ledger.EXPECT().ListTransactions(gomock.Any(), f.usd.ID, pageFilter(1, 10)).Return(txPage(f.usd, 1, 3), nil)
	require.NoError(t, f.detail.NextPage(ctx))
	assert.Equal(t, 1, f.detail.State().Transactions.Number)

	f.ledger.EXPECT().ListTransactions(gomock.Any(), f.usd.ID, pageFilter(2, 10)).Return(txPage(f.usd, 2, 3), nil)
	require.NoError(t, f.detail.GoToPage(ctx, 2))
	assert.ErrorIs(t, f.detail.NextPage(ctx), usecase.ErrLastPage)

	f.ledger.EXPECT().ListTransactions(gomock.Any(), f.usd.ID, pageFilter(1, 10)).Return(nil, userFacingErr{"Server error. Please try again later."})
	assert.Error(t, f.detail.PreviousPage(ctx))
	assert.Equal(t, 2, f.detail.State().Transactions.Number)
}

func TestWalletDetail_TransactionLookup(t *testing.T) {
	f := newDetailFixture(t)
	id := uuid.New()
	f.ledger.EXPECT().GetTransaction(gomock.Any(), id).Return(&models.Transaction{ID: id}, nil)

	tx, err := f.detail.Transaction(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, tx.ID)
}
