package usecase

import "errors"

// Определение ошибок сервиса
var (
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrTargetRequired       = errors.New("target wallet is required")
	ErrSameWallet           = errors.New("target wallet must differ from source")
	ErrSameCurrency         = errors.New("target wallet must have a different currency")
	ErrUnknownTarget        = errors.New("target wallet is not eligible")
	ErrWalletNotLoaded      = errors.New("wallet not loaded")
	ErrOperationInFlight    = errors.New("operation already in progress")
	ErrUnknownModal         = errors.New("unknown operation modal")
	ErrNothingToRetry       = errors.New("no failed submission to retry")
	ErrFirstPage            = errors.New("already on the first page")
	ErrLastPage             = errors.New("already on the last page")
	ErrPageOutOfRange       = errors.New("page index out of range")
	ErrUnsupportedCurrency  = errors.New("unsupported currency")
	ErrNoPendingConfirm     = errors.New("nothing awaiting confirmation")
	ErrWalletNotFound       = errors.New("wallet not found")
	ErrWalletStatusConflict = errors.New("wallet status does not allow this action")
)

type userMessager interface {
	UserMessage() string
}

// userMessage prefers the message the pipeline already attached.
func userMessage(err error, fallback string) string {
	var um userMessager
	if errors.As(err, &um) && um.UserMessage() != "" {
		return um.UserMessage()
	}
	return fallback
}
