package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Nzyazin/ledgerconsole/internal/core/logger"
	"github.com/Nzyazin/ledgerconsole/internal/core/models"
	"github.com/Nzyazin/ledgerconsole/internal/core/usecase"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type WalletListController interface {
	State() usecase.ListState
	Load(ctx context.Context) error
	Create(ctx context.Context, currency models.Currency) error
	RequestSuspend(id uuid.UUID) error
	RequestActivate(id uuid.UUID) error
	Confirm(ctx context.Context) error
	Cancel()
}

type WalletHandler struct {
	list WalletListController
	log  logger.Logger
}

type CreateWalletRequest struct {
	Currency string `json:"currency"`
}

func NewWalletHandler(list WalletListController, log logger.Logger) *WalletHandler {
	return &WalletHandler{list: list, log: log}
}

func (h *WalletHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/console/wallets", h.State).Methods("GET")
	router.HandleFunc("/console/wallets", h.Create).Methods("POST")
	router.HandleFunc("/console/wallets/reload", h.Reload).Methods("POST")
	router.HandleFunc("/console/wallets/confirm", h.Confirm).Methods("POST")
	router.HandleFunc("/console/wallets/cancel", h.Cancel).Methods("POST")
	router.HandleFunc("/console/wallets/{wallet_id}/suspend", h.RequestSuspend).Methods("POST")
	router.HandleFunc("/console/wallets/{wallet_id}/activate", h.RequestActivate).Methods("POST")
}

func (h *WalletHandler) State(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.list.State())
}

func (h *WalletHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.list.Load(r.Context()); err != nil {
		h.handleListError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.list.State())
}

func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateWalletRequest
	if err := decodeRequest(w, r, &req, h.log); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	currency := models.Currency(strings.ToUpper(strings.TrimSpace(req.Currency)))
	if err := h.list.Create(r.Context(), currency); err != nil {
		h.handleListError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, h.list.State())
}

func (h *WalletHandler) RequestSuspend(w http.ResponseWriter, r *http.Request) {
	h.request(w, r, h.list.RequestSuspend)
}

func (h *WalletHandler) RequestActivate(w http.ResponseWriter, r *http.Request) {
	h.request(w, r, h.list.RequestActivate)
}

func (h *WalletHandler) request(w http.ResponseWriter, r *http.Request, stage func(uuid.UUID) error) {
	id, validationErr := walletIDVar(r)
	if validationErr != nil {
		h.log.Warn(validationErr.Message, validationErr.Fields...)
		respondWithError(w, http.StatusBadRequest, validationErr.Message)
		return
	}
	if err := stage(id); err != nil {
		h.handleListError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.list.State())
}

func (h *WalletHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if err := h.list.Confirm(r.Context()); err != nil {
		h.handleListError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.list.State())
}

func (h *WalletHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.list.Cancel()
	respondWithJSON(w, http.StatusOK, h.list.State())
}

func (h *WalletHandler) handleListError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrWalletNotFound):
		respondWithError(w, http.StatusNotFound, "Wallet not found")
	case errors.Is(err, usecase.ErrUnsupportedCurrency):
		respondWithError(w, http.StatusBadRequest, "Unsupported currency")
	case errors.Is(err, usecase.ErrWalletStatusConflict),
		errors.Is(err, usecase.ErrNoPendingConfirm),
		errors.Is(err, usecase.ErrOperationInFlight):
		respondWithError(w, http.StatusConflict, err.Error())
	case respondWithLedgerError(w, err):
	default:
		h.log.Error("Failed to process wallet request", logger.ErrorField("error", err))
		respondWithError(w, http.StatusInternalServerError, "Failed to process request")
	}
}

// walletIDVar выполняет разбор идентификатора кошелька из пути
func walletIDVar(r *http.Request) (uuid.UUID, *ValidationError) {
	raw := mux.Vars(r)["wallet_id"]
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, &ValidationError{
			Message: "Wallet ID is required",
			Fields:  []logger.Field{logger.StringField("wallet_id", raw)},
		}
	}
	return id, nil
}
