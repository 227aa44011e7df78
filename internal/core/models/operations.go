package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DepositRequest struct {
	WalletID       uuid.UUID       `json:"walletId"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       Currency        `json:"currency"`
	IdempotencyKey string          `json:"idempotencyKey,omitempty"`
}

type WithdrawalRequest struct {
	WalletID       uuid.UUID       `json:"walletId"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       Currency        `json:"currency"`
	IdempotencyKey string          `json:"idempotencyKey,omitempty"`
}

type TransferRequest struct {
	SourceWalletID uuid.UUID       `json:"sourceWalletId"`
	TargetWalletID uuid.UUID       `json:"targetWalletId"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       Currency        `json:"currency"`
	Description    string          `json:"description,omitempty"`
	IdempotencyKey string          `json:"idempotencyKey,omitempty"`
}

type FxConvertRequest struct {
	SourceWalletID uuid.UUID       `json:"sourceWalletId"`
	TargetWalletID uuid.UUID       `json:"targetWalletId"`
	Amount         decimal.Decimal `json:"amount"`
	SourceCurrency Currency        `json:"sourceCurrency"`
	IdempotencyKey string          `json:"idempotencyKey,omitempty"`
}

type DepositResponse struct {
	DepositID     string    `json:"depositId"`
	TransactionID uuid.UUID `json:"transactionId"`
	WalletID      uuid.UUID `json:"walletId"`
	Amount        Money     `json:"amount"`
	Status        string    `json:"status"`
	ProcessedAt   time.Time `json:"processedAt"`
}

type WithdrawalResponse struct {
	WithdrawalID  string    `json:"withdrawalId"`
	TransactionID uuid.UUID `json:"transactionId"`
	WalletID      uuid.UUID `json:"walletId"`
	Amount        Money     `json:"amount"`
	Status        string    `json:"status"`
	ProcessedAt   time.Time `json:"processedAt"`
}

type TransferResponse struct {
	TransferID          string    `json:"transferId"`
	SourceTransactionID uuid.UUID `json:"sourceTransactionId"`
	TargetTransactionID uuid.UUID `json:"targetTransactionId"`
	SourceWalletID      uuid.UUID `json:"sourceWalletId"`
	TargetWalletID      uuid.UUID `json:"targetWalletId"`
	Amount              Money     `json:"amount"`
	Status              string    `json:"status"`
	ProcessedAt         time.Time `json:"processedAt"`
}

type FxConvertResponse struct {
	ConversionID        string          `json:"conversionId"`
	DebitTransactionID  uuid.UUID       `json:"debitTransactionId"`
	CreditTransactionID uuid.UUID       `json:"creditTransactionId"`
	SourceAmount        Money           `json:"sourceAmount"`
	TargetAmount        Money           `json:"targetAmount"`
	ExchangeRate        decimal.Decimal `json:"exchangeRate"`
	ProcessedAt         time.Time       `json:"processedAt"`
}

type FxRateResponse struct {
	FromCurrency Currency        `json:"fromCurrency"`
	ToCurrency   Currency        `json:"toCurrency"`
	Rate         decimal.Decimal `json:"rate"`
	SourceAmount decimal.Decimal `json:"sourceAmount"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
}

// FxPreview is ephemeral and replaced by every newer quote.
type FxPreview struct {
	Rate           decimal.Decimal `json:"rate"`
	TargetAmount   decimal.Decimal `json:"targetAmount"`
	TargetCurrency Currency        `json:"targetCurrency"`
}
