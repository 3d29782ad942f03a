package http

import (
	"net/http"

	"fixo-backend/internal/domain"
	"fixo-backend/internal/service"

	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookingSvc service.BookingService
}

func NewBookingHandler(bookingSvc service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

type createBookingRequest struct {
	ServiceID string `json:"service_id"`
	Date      string `json:"date"`
	TimeSlot  string `json:"time_slot"`
	Address   string `json:"address"`
	Notes     string `json:"notes"`
	PayOnline bool   `json:"pay_online"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ServiceID == "" || req.Date == "" || req.Address == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "service_id, date and address are required"})
		return
	}

	booking, err := h.bookingSvc.CreateBooking(r.Context(), ActorFromContext(r.Context()), service.CreateBookingRequest{
		ServiceID: req.ServiceID,
		Date:      req.Date,
		TimeSlot:  req.TimeSlot,
		Address:   req.Address,
		Notes:     req.Notes,
		PayOnline: req.PayOnline,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookingSvc.GetBooking(r.Context(), ActorFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingSvc.ListBookings(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (h *BookingHandler) Transition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	booking, err := h.bookingSvc.TransitionStatus(r.Context(), ActorFromContext(r.Context()),
		mux.Vars(r)["id"], domain.BookingStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) PayAfterService(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookingSvc.ChoosePayAfterService(r.Context(), ActorFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	url, err := h.bookingSvc.StartCheckout(r.Context(), ActorFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"checkout_url": url})
}

// CheckoutReturn is the landing endpoint the hosted checkout redirects
// to with the session id.
func (h *BookingHandler) CheckoutReturn(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	booking, err := h.bookingSvc.CompleteCheckout(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProviderID string `json:"provider_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	booking, err := h.bookingSvc.AssignProvider(r.Context(), ActorFromContext(r.Context()),
		mux.Vars(r)["id"], req.ProviderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
