package http

import (
	"net/http"
	"time"

	"fixo-backend/internal/domain"
	"fixo-backend/internal/feed"
	"fixo-backend/internal/logger"
	"fixo-backend/internal/service"
	"fixo-backend/internal/tracking"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

type LocationHandler struct {
	manager     *tracking.Manager
	locationSvc service.LocationService
	feed        feed.Feed
	upgrader    websocket.Upgrader
}

func NewLocationHandler(manager *tracking.Manager, locationSvc service.LocationService, f feed.Feed) *LocationHandler {
	return &LocationHandler{
		manager:     manager,
		locationSvc: locationSvc,
		feed:        f,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Token auth happens in the middleware; origins are not
			// restricted here.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *LocationHandler) Start(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())
	if err := h.manager.StartSharing(r.Context(), actor.UserID, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "sharing"})
}

func (h *LocationHandler) Stop(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())
	if err := h.manager.StopSharing(r.Context(), actor.UserID, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

type reportRequest struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Heading   *float64 `json:"heading,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// Report ingests one device fix, or a device-side geolocation failure
// when the error field is set.
func (h *LocationHandler) Report(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if !decodeBody(w, r, &req) {
		return
	}

	actor := ActorFromContext(r.Context())
	bookingID := mux.Vars(r)["id"]

	var accepted bool
	if req.Error != "" {
		accepted = h.manager.Fail(actor.UserID, bookingID, deviceError(req.Error))
	} else {
		accepted = h.manager.Report(actor.UserID, bookingID, tracking.Position{
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			Accuracy:  req.Accuracy,
			Heading:   req.Heading,
			Speed:     req.Speed,
			Timestamp: time.Now(),
		})
	}

	if !accepted {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "no active sharing session for this booking"})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func deviceError(code string) error {
	switch code {
	case "permission_denied":
		return tracking.ErrPermissionDenied
	case "unavailable":
		return tracking.ErrUnavailable
	case "timeout":
		return tracking.ErrTimeout
	default:
		return tracking.ErrUnavailable
	}
}

func (h *LocationHandler) ForceUpdate(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())
	if err := h.manager.ForceUpdate(r.Context(), actor.UserID, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *LocationHandler) Status(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())
	state, last, ok := h.manager.Status(actor.UserID, mux.Vars(r)["id"])

	resp := map[string]any{"state": state}
	if ok {
		resp["last_update"] = last
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetActive returns the current stored position for a booking.
func (h *LocationHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	loc, err := h.locationSvc.GetActive(r.Context(), ActorFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if loc == nil {
		writeJSON(w, http.StatusOK, map[string]any{"location": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"location": loc})
}

// Stream upgrades to a WebSocket and pushes location updates for one
// booking. The current stored position is sent first, then live feed
// events until the client disconnects.
func (h *LocationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]
	actor := ActorFromContext(r.Context())

	// Authorization and the initial snapshot come from the store; the
	// feed itself carries no access control.
	initial, err := h.locationSvc.GetActive(r.Context(), actor, bookingID)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// Single writer goroutine; feed handlers only enqueue.
	updates := make(chan domain.ProviderLocation, 16)
	sub, err := h.feed.Subscribe(bookingID, func(loc domain.ProviderLocation) {
		select {
		case updates <- loc:
		default:
			// Slow consumer, drop. The next update supersedes this one.
		}
	})
	if err != nil {
		logger.Error("Feed subscribe failed", "booking_id", bookingID, "error", err)
		return
	}
	defer sub.Unsubscribe()

	if initial != nil {
		if err := conn.WriteJSON(initial); err != nil {
			return
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case loc := <-updates:
			if err := conn.WriteJSON(loc); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
