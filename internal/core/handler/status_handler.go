package handler

import (
	"net/http"
	"strconv"

	"github.com/Nzyazin/ledgerconsole/internal/core/loading"
	"github.com/Nzyazin/ledgerconsole/internal/core/notify"
	"github.com/gorilla/mux"
)

type BusyResponse struct {
	Busy    bool   `json:"busy"`
	Count   int    `json:"count"`
	Message string `json:"message,omitempty"`
}

// StatusHandler exposes the global busy signal and the toast list.
type StatusHandler struct {
	tracker *loading.Tracker
	sink    *notify.Sink
}

func NewStatusHandler(tracker *loading.Tracker, sink *notify.Sink) *StatusHandler {
	return &StatusHandler{tracker: tracker, sink: sink}
}

func (h *StatusHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/console/busy", h.Busy).Methods("GET")
	router.HandleFunc("/console/notifications", h.Notifications).Methods("GET")
	router.HandleFunc("/console/notifications/{id:[0-9]+}", h.Dismiss).Methods("DELETE")
}

func (h *StatusHandler) Busy(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, BusyResponse{
		Busy:    h.tracker.Busy(),
		Count:   h.tracker.Count(),
		Message: h.tracker.Message(),
	})
}

func (h *StatusHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	toasts := h.sink.List()
	if toasts == nil {
		toasts = []notify.Toast{}
	}
	respondWithJSON(w, http.StatusOK, toasts)
}

func (h *StatusHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}
	h.sink.Dismiss(id)
	w.WriteHeader(http.StatusNoContent)
}
