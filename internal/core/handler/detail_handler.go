package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/Nzyazin/ledgerconsole/internal/core/logger"
	"github.com/Nzyazin/ledgerconsole/internal/core/models"
	"github.com/Nzyazin/ledgerconsole/internal/core/usecase"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type WalletDetailController interface {
	State() usecase.DetailState
	Load(ctx context.Context, id uuid.UUID) <-chan struct{}
	LoadPeers(ctx context.Context) <-chan struct{}
	OpenModal(kind usecase.Modal) error
	CloseModal()
	SetAmount(input string) error
	SetTarget(id uuid.UUID)
	SetDescription(description string)
	SubmitDeposit(ctx context.Context) error
	SubmitWithdrawal(ctx context.Context) error
	SubmitTransfer(ctx context.Context) error
	SubmitConversion(ctx context.Context) error
	Retry(ctx context.Context) error
	GoToPage(ctx context.Context, page int) error
	NextPage(ctx context.Context) error
	PreviousPage(ctx context.Context) error
	Transaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
}

type DetailHandler struct {
	detail WalletDetailController
	log    logger.Logger
}

type ModalRequest struct {
	Kind usecase.Modal `json:"kind"`
}

// FormRequest updates only the fields that are present.
type FormRequest struct {
	Amount         *string    `json:"amount"`
	TargetWalletID *uuid.UUID `json:"targetWalletId"`
	Description    *string    `json:"description"`
}

func NewDetailHandler(detail WalletDetailController, log logger.Logger) *DetailHandler {
	return &DetailHandler{detail: detail, log: log}
}

func (h *DetailHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/console/detail", h.State).Methods("GET")
	router.HandleFunc("/console/detail/{wallet_id}/open", h.Open).Methods("POST")
	router.HandleFunc("/console/detail/modal", h.OpenModal).Methods("POST")
	router.HandleFunc("/console/detail/modal", h.CloseModal).Methods("DELETE")
	router.HandleFunc("/console/detail/form", h.UpdateForm).Methods("PUT")
	router.HandleFunc("/console/detail/submit", h.Submit).Methods("POST")
	router.HandleFunc("/console/detail/retry", h.Retry).Methods("POST")
	router.HandleFunc("/console/detail/page/next", h.NextPage).Methods("POST")
	router.HandleFunc("/console/detail/page/previous", h.PreviousPage).Methods("POST")
	router.HandleFunc("/console/detail/page/{page:[0-9]+}", h.GoToPage).Methods("POST")
	router.HandleFunc("/console/transactions/{transaction_id}", h.Transaction).Methods("GET")
}

func (h *DetailHandler) State(w http.ResponseWriter, r *http.Request) {
	h.respondWithState(w, http.StatusOK)
}

func (h *DetailHandler) respondWithState(w http.ResponseWriter, code int) {
	s := h.detail.State()
	respondWithJSON(w, code, struct {
		usecase.DetailState
		OtherWallets []usecase.PeerWallet `json:"otherWallets"`
		FxTargets    []usecase.PeerWallet `json:"fxTargets"`
	}{s, s.OtherWallets(), s.FxTargets()})
}

func (h *DetailHandler) Open(w http.ResponseWriter, r *http.Request) {
	id, validationErr := walletIDVar(r)
	if validationErr != nil {
		h.log.Warn(validationErr.Message, validationErr.Fields...)
		respondWithError(w, http.StatusBadRequest, validationErr.Message)
		return
	}

	loaded := h.detail.Load(r.Context(), id)
	peers := h.detail.LoadPeers(r.Context())
	for _, done := range []<-chan struct{}{loaded, peers} {
		select {
		case <-done:
		case <-r.Context().Done():
			return
		}
	}
	h.respondWithState(w, http.StatusOK)
}

func (h *DetailHandler) OpenModal(w http.ResponseWriter, r *http.Request) {
	var req ModalRequest
	if err := decodeRequest(w, r, &req, h.log); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.detail.OpenModal(req.Kind); err != nil {
		h.handleDetailError(w, err)
		return
	}
	h.respondWithState(w, http.StatusOK)
}

func (h *DetailHandler) CloseModal(w http.ResponseWriter, r *http.Request) {
	h.detail.CloseModal()
	h.respondWithState(w, http.StatusOK)
}

func (h *DetailHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	var req FormRequest
	if err := decodeRequest(w, r, &req, h.log); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Amount != nil {
		if err := h.detail.SetAmount(*req.Amount); err != nil {
			h.handleDetailError(w, err)
			return
		}
	}
	if req.TargetWalletID != nil {
		h.detail.SetTarget(*req.TargetWalletID)
	}
	if req.Description != nil {
		h.detail.SetDescription(*req.Description)
	}
	h.respondWithState(w, http.StatusOK)
}

// Submit sends the operation of the open modal.
func (h *DetailHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var err error
	switch kind := h.detail.State().Modal; kind {
	case usecase.ModalDeposit:
		err = h.detail.SubmitDeposit(r.Context())
	case usecase.ModalWithdraw:
		err = h.detail.SubmitWithdrawal(r.Context())
	case usecase.ModalTransfer:
		err = h.detail.SubmitTransfer(r.Context())
	case usecase.ModalFx:
		err = h.detail.SubmitConversion(r.Context())
	default:
		err = usecase.ErrUnknownModal
	}
	if err != nil {
		h.handleDetailError(w, err)
		return
	}
	h.respondWithState(w, http.StatusOK)
}

func (h *DetailHandler) Retry(w http.ResponseWriter, r *http.Request) {
	if err := h.detail.Retry(r.Context()); err != nil {
		h.handleDetailError(w, err)
		return
	}
	h.respondWithState(w, http.StatusOK)
}

func (h *DetailHandler) NextPage(w http.ResponseWriter, r *http.Request) {
	h.page(w, h.detail.NextPage(r.Context()))
}

func (h *DetailHandler) PreviousPage(w http.ResponseWriter, r *http.Request) {
	h.page(w, h.detail.PreviousPage(r.Context()))
}

func (h *DetailHandler) GoToPage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(mux.Vars(r)["page"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid page")
		return
	}
	h.page(w, h.detail.GoToPage(r.Context(), page))
}

func (h *DetailHandler) page(w http.ResponseWriter, err error) {
	if err != nil {
		h.handleDetailError(w, err)
		return
	}
	h.respondWithState(w, http.StatusOK)
}

func (h *DetailHandler) Transaction(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["transaction_id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		h.log.Warn("Invalid transaction ID", logger.StringField("transaction_id", raw))
		respondWithError(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	tx, err := h.detail.Transaction(r.Context(), id)
	if err != nil {
		h.handleDetailError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, tx)
}

func (h *DetailHandler) handleDetailError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidAmount),
		errors.Is(err, usecase.ErrTargetRequired),
		errors.Is(err, usecase.ErrSameWallet),
		errors.Is(err, usecase.ErrSameCurrency),
		errors.Is(err, usecase.ErrUnknownTarget),
		errors.Is(err, usecase.ErrUnknownModal),
		errors.Is(err, usecase.ErrFirstPage),
		errors.Is(err, usecase.ErrLastPage),
		errors.Is(err, usecase.ErrPageOutOfRange):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrWalletNotLoaded),
		errors.Is(err, usecase.ErrOperationInFlight),
		errors.Is(err, usecase.ErrNothingToRetry):
		respondWithError(w, http.StatusConflict, err.Error())
	case respondWithLedgerError(w, err):
	default:
		h.log.Error("Failed to process wallet operation", logger.ErrorField("error", err))
		respondWithError(w, http.StatusInternalServerError, "Failed to process operation")
	}
}
