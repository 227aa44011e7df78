package usecase

import (
	"time"

	"github.com/Nzyazin/ledgerconsole/internal/core/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize        = 10
	DefaultPreviewDebounce = 500 * time.Millisecond
	TransactionSort        = "occurredAt,desc"
)

type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

type Modal string

const (
	ModalNone     Modal = ""
	ModalDeposit  Modal = "deposit"
	ModalWithdraw Modal = "withdraw"
	ModalTransfer Modal = "transfer"
	ModalFx       Modal = "fx"
)

func (m Modal) valid() bool {
	switch m {
	case ModalDeposit, ModalWithdraw, ModalTransfer, ModalFx:
		return true
	}
	return false
}

// PeerWallet is a picker entry. Balance stays nil until its fetch resolves,
// and forever if that fetch fails.
type PeerWallet struct {
	Wallet  models.Wallet    `json:"wallet"`
	Balance *decimal.Decimal `json:"balance"`
}

type OperationForm struct {
	Amount         decimal.Decimal `json:"amount"`
	TargetWalletID uuid.UUID       `json:"targetWalletId"`
	Description    string          `json:"description"`
}

type DetailState struct {
	Phase            Phase                            `json:"phase"`
	Error            string                           `json:"error,omitempty"`
	Wallet           *models.Wallet                   `json:"wallet"`
	Balance          *models.Balance                  `json:"balance"`
	Transactions     *models.Page[models.Transaction] `json:"transactions"`
	Peers            []PeerWallet                     `json:"peers"`
	Modal            Modal                            `json:"modal"`
	Form             OperationForm                    `json:"form"`
	OperationLoading bool                             `json:"operationLoading"`
	Preview          *models.FxPreview                `json:"preview"`
	PreviewLoading   bool                             `json:"previewLoading"`
}

// OtherWallets are transfer targets: active and not the open wallet.
func (s DetailState) OtherWallets() []PeerWallet {
	out := make([]PeerWallet, 0, len(s.Peers))
	for _, p := range s.Peers {
		if p.Wallet.Active() && (s.Wallet == nil || p.Wallet.ID != s.Wallet.ID) {
			out = append(out, p)
		}
	}
	return out
}

// FxTargets are OtherWallets in a different currency.
func (s DetailState) FxTargets() []PeerWallet {
	others := s.OtherWallets()
	out := others[:0]
	for _, p := range others {
		if s.Wallet == nil || p.Wallet.BaseCurrency != s.Wallet.BaseCurrency {
			out = append(out, p)
		}
	}
	return out
}

func (s DetailState) fxTarget(id uuid.UUID) (models.Wallet, bool) {
	for _, p := range s.FxTargets() {
		if p.Wallet.ID == id {
			return p.Wallet, true
		}
	}
	return models.Wallet{}, false
}

func (s DetailState) peer(id uuid.UUID) (models.Wallet, bool) {
	for _, p := range s.Peers {
		if p.Wallet.ID == id {
			return p.Wallet, true
		}
	}
	return models.Wallet{}, false
}

func withPeerBalance(peers []PeerWallet, id uuid.UUID, amount decimal.Decimal) []PeerWallet {
	out := make([]PeerWallet, len(peers))
	copy(out, peers)
	for i := range out {
		if out[i].Wallet.ID == id {
			a := amount
			out[i].Balance = &a
		}
	}
	return out
}

type WalletEntry struct {
	Wallet  models.Wallet   `json:"wallet"`
	Balance *models.Balance `json:"balance"`
}

type ConfirmAction string

const (
	ActionSuspend  ConfirmAction = "suspend"
	ActionActivate ConfirmAction = "activate"
)

type Confirmation struct {
	Action      ConfirmAction `json:"action"`
	WalletID    uuid.UUID     `json:"walletId"`
	Title       string        `json:"title"`
	Message     string        `json:"message"`
	Tone        string        `json:"tone"`
	ConfirmText string        `json:"confirmText"`
}

type ListState struct {
	Loading        bool          `json:"loading"`
	Error          string        `json:"error,omitempty"`
	Wallets        []WalletEntry `json:"wallets"`
	CreateLoading  bool          `json:"createLoading"`
	ConfirmLoading bool          `json:"confirmLoading"`
	Pending        *Confirmation `json:"pending"`
}
