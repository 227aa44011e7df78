package models

import (
	"time"

	"github.com/google/uuid"
)

// Wallet представляет кошелек на стороне леджера. Клиент его не изменяет.
type Wallet struct {
	ID           uuid.UUID    `json:"id"`
	OwnerID      uuid.UUID    `json:"ownerId"`
	BaseCurrency Currency     `json:"baseCurrency"`
	Status       WalletStatus `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
}

type WalletStatus string

const (
	WalletActive    WalletStatus = "ACTIVE"
	WalletSuspended WalletStatus = "SUSPENDED"
	WalletClosed    WalletStatus = "CLOSED"
)

func (w Wallet) Active() bool {
	return w.Status == WalletActive
}

// Balance is a point-in-time snapshot, always re-fetched.
type Balance struct {
	WalletID     uuid.UUID `json:"walletId"`
	Balance      Money     `json:"balance"`
	CalculatedAt time.Time `json:"calculatedAt"`
}

type CreateWalletRequest struct {
	BaseCurrency Currency `json:"baseCurrency"`
}
