package models

import (
	"time"

	"github.com/google/uuid"
)

type Direction string

const (
	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"
)

type GroupType string

const (
	GroupUserAction       GroupType = "USER_ACTION"
	GroupSystemAdjustment GroupType = "SYSTEM_ADJUSTMENT"
	GroupFxConversion     GroupType = "FX_CONVERSION"
	GroupPayment          GroupType = "PAYMENT"
	GroupReversal         GroupType = "REVERSAL"
	GroupFee              GroupType = "FEE"
)

type ReferenceType string

const (
	ReferenceDeposit     ReferenceType = "DEPOSIT"
	ReferenceWithdrawal  ReferenceType = "WITHDRAWAL"
	ReferenceTransfer    ReferenceType = "TRANSFER"
	ReferenceFxExchange  ReferenceType = "FX_EXCHANGE"
	ReferenceCardPayment ReferenceType = "CARD_PAYMENT"
)

// Transaction - неизменяемая запись леджера, клиент только читает.
type Transaction struct {
	ID            uuid.UUID     `json:"id"`
	WalletID      uuid.UUID     `json:"walletId"`
	Amount        Money         `json:"amount"`
	Direction     Direction     `json:"direction"`
	GroupType     GroupType     `json:"groupType"`
	ReferenceType ReferenceType `json:"referenceType"`
	ReferenceID   *string       `json:"referenceId"`
	Description   *string       `json:"description"`
	OccurredAt    time.Time     `json:"occurredAt"`
}

// TransactionFilter holds optional query filters; nil/zero fields are not sent.
type TransactionFilter struct {
	Direction     Direction
	GroupType     GroupType
	ReferenceType ReferenceType
	From          *time.Time
	To            *time.Time
	Page          *int
	Size          *int
	Sort          string
}
