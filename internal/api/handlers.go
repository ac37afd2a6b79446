package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"trainbooking/internal/domain/ticket"
	"trainbooking/internal/domain/train"
	"trainbooking/internal/domain/user"
	"trainbooking/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	listTicketsUC  *usecase.ListTickets
	getTicketUC    *usecase.GetTicket
	createTicketUC *usecase.CreateTicket
	updateTicketUC *usecase.UpdateTicket
	deleteTicketUC *usecase.DeleteTicket
	getHistoryUC   *usecase.GetHistory
	directory      *usecase.Directory
}

// NewHandlers wires the ticket use cases over repo. A nil history disables
// the history endpoint.
func NewHandlers(repo ticket.Repository, history *usecase.GetHistory, directory *usecase.Directory) *Handlers {
	return &Handlers{
		listTicketsUC:  usecase.NewListTickets(repo),
		getTicketUC:    usecase.NewGetTicket(repo),
		createTicketUC: usecase.NewCreateTicket(repo),
		updateTicketUC: usecase.NewUpdateTicket(repo),
		deleteTicketUC: usecase.NewDeleteTicket(repo),
		getHistoryUC:   history,
		directory:      directory,
	}
}

type ticketRequest struct {
	ID          *int64    `json:"id"`
	UserID      int64     `json:"user_id"`
	TrainID     int64     `json:"train_id"`
	BookingDate time.Time `json:"booking_date"`
	FinalPrice  float64   `json:"final_price"`
}

func (req ticketRequest) toTicket() ticket.Ticket {
	t := ticket.Ticket{
		User:        user.User{ID: req.UserID},
		Train:       train.Train{ID: req.TrainID},
		BookingDate: req.BookingDate,
		FinalPrice:  req.FinalPrice,
	}
	if req.ID != nil {
		t.ID = *req.ID
	}
	return t
}

type nameRequest struct {
	Name string `json:"name"`
}

func (h *Handlers) ListTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.listTicketsUC.Execute(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tickets)
}

func (h *Handlers) GetTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := ticketID(w, r)
	if !ok {
		return
	}

	t, err := h.getTicketUC.Execute(r.Context(), id)
	if err != nil {
		internalError(w, r, err)
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "ticket not found")
		return
	}

	writeJSON(w, http.StatusOK, t)
}

func (h *Handlers) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req ticketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t := req.toTicket()
	if t.BookingDate.IsZero() {
		t.BookingDate = time.Now().UTC()
	}

	created, err := h.createTicketUC.Execute(r.Context(), &t)
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// UpdateTicket replaces the ticket wholesale. The body's id becomes the
// ticket's id; without one the path id is kept.
func (h *Handlers) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := ticketID(w, r)
	if !ok {
		return
	}

	var req ticketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID == nil {
		req.ID = &id
	}

	updated, err := h.updateTicketUC.Execute(r.Context(), id, req.toTicket())
	if err != nil {
		if errors.Is(err, ticket.ErrNotFound) {
			writeError(w, http.StatusNotFound, "ticket not found")
			return
		}
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := ticketID(w, r)
	if !ok {
		return
	}

	if err := h.deleteTicketUC.Execute(r.Context(), id); err != nil {
		internalError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.getHistoryUC == nil {
		writeError(w, http.StatusNotImplemented, "ticket history requires postgres storage")
		return
	}

	id, ok := ticketID(w, r)
	if !ok {
		return
	}

	history, err := h.getHistoryUC.Execute(r.Context(), id)
	if err != nil {
		if errors.Is(err, ticket.ErrNotFound) {
			writeError(w, http.StatusNotFound, "ticket not found")
			return
		}
		internalError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	writeJSON(w, http.StatusOK, history)
}

func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.directory.CreateUser(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyName) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.directory.ListUsers(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *Handlers) CreateTrain(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.directory.CreateTrain(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyName) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, t)
}

func (h *Handlers) ListTrains(w http.ResponseWriter, r *http.Request) {
	trains, err := h.directory.ListTrains(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, trains)
}

func ticketID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid ticket id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	logrus.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}
