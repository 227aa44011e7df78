package usecase

import (
	"context"

	"github.com/Nzyazin/ledgerconsole/internal/core/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger is the slice of the ledger API the workflow controllers use.
//
//go:generate mockgen -destination=mocks/mock_ledger.go -source=interface.go Ledger
type Ledger interface {
	CreateWallet(ctx context.Context, req models.CreateWalletRequest) (*models.Wallet, error)
	ListWallets(ctx context.Context) ([]models.Wallet, error)
	GetWallet(ctx context.Context, id uuid.UUID) (*models.Wallet, error)
	GetBalance(ctx context.Context, walletID uuid.UUID) (*models.Balance, error)
	SuspendWallet(ctx context.Context, id uuid.UUID) (*models.Wallet, error)
	ActivateWallet(ctx context.Context, id uuid.UUID) (*models.Wallet, error)
	ListTransactions(ctx context.Context, walletID uuid.UUID, filter models.TransactionFilter) (*models.Page[models.Transaction], error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	Deposit(ctx context.Context, req models.DepositRequest) (*models.DepositResponse, error)
	Withdraw(ctx context.Context, req models.WithdrawalRequest) (*models.WithdrawalResponse, error)
	Transfer(ctx context.Context, req models.TransferRequest) (*models.TransferResponse, error)
	ConvertFx(ctx context.Context, req models.FxConvertRequest) (*models.FxConvertResponse, error)
	FxRate(ctx context.Context, from, to models.Currency, amount decimal.Decimal) (*models.FxRateResponse, error)
}
