package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Nzyazin/ledgerconsole/internal/core/logger"
	"github.com/Nzyazin/ledgerconsole/internal/core/models"
	"github.com/Nzyazin/ledgerconsole/internal/core/session"
	"github.com/gorilla/mux"
)

type SessionService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.Session, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.Session, error)
	Logout()
	State() models.SessionState
}

type SessionHandler struct {
	session SessionService
	log     logger.Logger
}

func NewSessionHandler(s SessionService, log logger.Logger) *SessionHandler {
	return &SessionHandler{session: s, log: log}
}

func (h *SessionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/console/session", h.State).Methods("GET")
	router.HandleFunc("/console/session/login", h.Login).Methods("POST")
	router.HandleFunc("/console/session/register", h.Register).Methods("POST")
	router.HandleFunc("/console/session/logout", h.Logout).Methods("POST")
}

func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.session.State())
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeRequest(w, r, &req, h.log); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.session.Login(r.Context(), req); err != nil {
		h.handleAuthError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.session.State())
}

func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeRequest(w, r, &req, h.log); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.session.Register(r.Context(), req); err != nil {
		h.handleAuthError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, h.session.State())
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.session.Logout()
	respondWithJSON(w, http.StatusOK, h.session.State())
}

func (h *SessionHandler) handleAuthError(w http.ResponseWriter, err error) {
	var authErr *session.AuthError
	switch {
	case errors.Is(err, session.ErrIncompleteForm), errors.Is(err, session.ErrWeakPassword):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &authErr):
		respondWithError(w, http.StatusUnauthorized, authErr.Message)
	default:
		h.log.Error("Authentication failed", logger.ErrorField("error", err))
		respondWithError(w, http.StatusInternalServerError, "Authentication failed")
	}
}
