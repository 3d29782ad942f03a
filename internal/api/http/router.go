package http

import (
	"net/http"

	"fixo-backend/internal/domain"
	"fixo-backend/internal/security"

	"github.com/gorilla/mux"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth         *AuthHandler
	Catalog      *CatalogHandler
	Booking      *BookingHandler
	Property     *PropertyHandler
	Location     *LocationHandler
	Notification *NotificationHandler
	Images       *PropertyImageHandler
}

func NewRouter(tokens security.TokenManager, h Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/signup", h.Auth.Signup).Methods("POST")
	api.HandleFunc("/auth/login", h.Auth.Login).Methods("POST")
	api.HandleFunc("/auth/refresh", h.Auth.Refresh).Methods("POST")
	api.HandleFunc("/services", h.Catalog.List).Methods("GET")
	api.HandleFunc("/services/{id}", h.Catalog.Get).Methods("GET")
	api.HandleFunc("/payments/return", h.Booking.CheckoutReturn).Methods("GET")
	api.HandleFunc("/images/{key:.+}", h.Images.Download).Methods("GET")

	// Authenticated routes
	auth := api.NewRoute().Subrouter()
	auth.Use(AuthMiddleware(tokens))

	auth.HandleFunc("/me", h.Auth.GetProfile).Methods("GET")
	auth.HandleFunc("/me", h.Auth.UpdateProfile).Methods("PUT")

	auth.HandleFunc("/services/{id}/register", h.Catalog.Register).Methods("POST")

	auth.HandleFunc("/bookings", h.Booking.Create).Methods("POST")
	auth.HandleFunc("/bookings", h.Booking.List).Methods("GET")
	auth.HandleFunc("/bookings/{id}", h.Booking.Get).Methods("GET")
	auth.HandleFunc("/bookings/{id}/status", h.Booking.Transition).Methods("PUT")
	auth.HandleFunc("/bookings/{id}/pay-after-service", h.Booking.PayAfterService).Methods("POST")
	auth.HandleFunc("/bookings/{id}/checkout", h.Booking.Checkout).Methods("POST")

	admin := auth.NewRoute().Subrouter()
	admin.Use(RequireRole(domain.RoleAdmin))
	admin.HandleFunc("/bookings/{id}/assign", h.Booking.Assign).Methods("POST")

	auth.HandleFunc("/properties", h.Property.Create).Methods("POST")
	auth.HandleFunc("/properties", h.Property.List).Methods("GET")
	auth.HandleFunc("/properties/{id}", h.Property.Get).Methods("GET")
	auth.HandleFunc("/properties/{id}/images", h.Images.Upload).Methods("POST")
	auth.HandleFunc("/property-bookings", h.Property.CreateBooking).Methods("POST")
	auth.HandleFunc("/property-bookings", h.Property.ListBookings).Methods("GET")
	auth.HandleFunc("/property-bookings/{id}", h.Property.GetBooking).Methods("GET")
	auth.HandleFunc("/property-bookings/{id}/{action}", h.Property.BookingAction).Methods("POST")

	provider := auth.NewRoute().Subrouter()
	provider.Use(RequireRole(domain.RoleProvider))
	provider.HandleFunc("/bookings/{id}/location/start", h.Location.Start).Methods("POST")
	provider.HandleFunc("/bookings/{id}/location/stop", h.Location.Stop).Methods("POST")
	provider.HandleFunc("/bookings/{id}/location/report", h.Location.Report).Methods("POST")
	provider.HandleFunc("/bookings/{id}/location/force-update", h.Location.ForceUpdate).Methods("POST")
	provider.HandleFunc("/bookings/{id}/location/status", h.Location.Status).Methods("GET")

	auth.HandleFunc("/bookings/{id}/location", h.Location.GetActive).Methods("GET")
	auth.HandleFunc("/bookings/{id}/location/stream", h.Location.Stream).Methods("GET")

	auth.HandleFunc("/notifications", h.Notification.List).Methods("GET")
	auth.HandleFunc("/notifications/{id}/read", h.Notification.MarkAsRead).Methods("POST")

	return r
}
