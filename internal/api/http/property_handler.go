package http

import (
	"net/http"

	"fixo-backend/internal/domain"
	"fixo-backend/internal/service"

	"github.com/gorilla/mux"
)

type PropertyHandler struct {
	propertySvc service.PropertyService
	bookingSvc  service.PropertyBookingService
}

func NewPropertyHandler(propertySvc service.PropertyService, bookingSvc service.PropertyBookingService) *PropertyHandler {
	return &PropertyHandler{propertySvc: propertySvc, bookingSvc: bookingSvc}
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p domain.Property
	if !decodeBody(w, r, &p) {
		return
	}
	created, err := h.propertySvc.CreateProperty(r.Context(), ActorFromContext(r.Context()), &p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	prop, err := h.propertySvc.GetProperty(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prop)
}

func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())
	if r.URL.Query().Get("mine") == "true" {
		props, err := h.propertySvc.ListByOwner(r.Context(), actor)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"properties": props})
		return
	}

	props, err := h.propertySvc.ListAvailable(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"properties": props})
}

type createPropertyBookingRequest struct {
	PropertyID string `json:"property_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Notes      string `json:"notes"`
}

func (h *PropertyHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createPropertyBookingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	booking, err := h.bookingSvc.CreatePropertyBooking(r.Context(), ActorFromContext(r.Context()),
		req.PropertyID, req.StartDate, req.EndDate, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *PropertyHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookingSvc.GetPropertyBooking(r.Context(), ActorFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *PropertyHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingSvc.ListPropertyBookings(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"property_bookings": bookings})
}

// BookingAction dispatches the lifecycle verbs on a property booking.
func (h *PropertyHandler) BookingAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	actor := ActorFromContext(r.Context())
	ctx := r.Context()

	var (
		booking *domain.PropertyBooking
		err     error
	)
	switch vars["action"] {
	case "cancel":
		booking, err = h.bookingSvc.CancelPropertyBooking(ctx, actor, vars["id"])
	case "confirm":
		booking, err = h.bookingSvc.ConfirmPropertyBooking(ctx, actor, vars["id"])
	case "decline":
		booking, err = h.bookingSvc.DeclinePropertyBooking(ctx, actor, vars["id"])
	case "complete":
		booking, err = h.bookingSvc.CompletePropertyBooking(ctx, actor, vars["id"])
	case "pay":
		booking, err = h.bookingSvc.MarkRentPaid(ctx, actor, vars["id"])
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown action"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
