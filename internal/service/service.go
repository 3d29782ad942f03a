package service

import (
	"context"

	"fixo-backend/internal/domain"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, phone, password string, role domain.Role) (*domain.User, string, string, error)
	Login(ctx context.Context, email, password string) (string, string, error)
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
}

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, name, phone, avatarURL string) error
}

type CatalogService interface {
	ListServices(ctx context.Context) ([]domain.Service, error)
	GetService(ctx context.Context, id string) (*domain.Service, error)
	RegisterProviderService(ctx context.Context, actor domain.Actor, serviceID string) error
}

type BookingService interface {
	CreateBooking(ctx context.Context, actor domain.Actor, req CreateBookingRequest) (*domain.Booking, error)
	GetBooking(ctx context.Context, actor domain.Actor, id string) (*domain.Booking, error)
	ListBookings(ctx context.Context, actor domain.Actor) ([]domain.Booking, error)
	TransitionStatus(ctx context.Context, actor domain.Actor, bookingID string, to domain.BookingStatus) (*domain.Booking, error)
	SetPaymentStatus(ctx context.Context, actor domain.Actor, bookingID string, to domain.PaymentStatus) (*domain.Booking, error)
	ChoosePayAfterService(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, error)
	StartCheckout(ctx context.Context, actor domain.Actor, bookingID string) (string, error)
	CompleteCheckout(ctx context.Context, paymentID string) (*domain.Booking, error)
	AssignProvider(ctx context.Context, actor domain.Actor, bookingID, providerID string) (*domain.Booking, error)
}

type CreateBookingRequest struct {
	ServiceID string
	Date      string // YYYY-MM-DD
	TimeSlot  string
	Address   string
	Notes     string
	PayOnline bool
}

type PropertyService interface {
	CreateProperty(ctx context.Context, actor domain.Actor, p *domain.Property) (*domain.Property, error)
	GetProperty(ctx context.Context, id string) (*domain.Property, error)
	ListAvailable(ctx context.Context) ([]domain.Property, error)
	ListByOwner(ctx context.Context, actor domain.Actor) ([]domain.Property, error)
	AddImage(ctx context.Context, actor domain.Actor, propertyID, url string) error
}

type PropertyBookingService interface {
	CreatePropertyBooking(ctx context.Context, actor domain.Actor, propertyID, startDate, endDate, notes string) (*domain.PropertyBooking, error)
	GetPropertyBooking(ctx context.Context, actor domain.Actor, id string) (*domain.PropertyBooking, error)
	ListPropertyBookings(ctx context.Context, actor domain.Actor) ([]domain.PropertyBooking, error)
	CancelPropertyBooking(ctx context.Context, actor domain.Actor, id string) (*domain.PropertyBooking, error)
	ConfirmPropertyBooking(ctx context.Context, actor domain.Actor, id string) (*domain.PropertyBooking, error)
	DeclinePropertyBooking(ctx context.Context, actor domain.Actor, id string) (*domain.PropertyBooking, error)
	CompletePropertyBooking(ctx context.Context, actor domain.Actor, id string) (*domain.PropertyBooking, error)
	MarkRentPaid(ctx context.Context, actor domain.Actor, id string) (*domain.PropertyBooking, error)
}

// LocationService is the persistence adapter for provider positions. It
// owns the authorization rule that only the booking's assigned provider
// may write, and fans writes out to the live feed.
type LocationService interface {
	Upsert(ctx context.Context, providerID, bookingID string, loc domain.ProviderLocation) error
	Deactivate(ctx context.Context, providerID, bookingID string) error
	GetActive(ctx context.Context, actor domain.Actor, bookingID string) (*domain.ProviderLocation, error)
}

type NotificationService interface {
	Notify(ctx context.Context, userID, title, message string, attributes map[string]string)
	ListNotifications(ctx context.Context, userID string, page, pageSize int) ([]domain.Notification, int, error)
	MarkAsRead(ctx context.Context, userID, notificationID string) error
}

type EmailService interface {
	SendBookingConfirmation(ctx context.Context, email, name, serviceName, date string) error
	SendBookingStatusUpdate(ctx context.Context, email, name, serviceName, status string) error
	SendProviderAssignment(ctx context.Context, email, name, serviceName, address, date string) error
	SendBookingReminder(ctx context.Context, email, name, serviceName, date string) error
	SendPropertyBookingNotification(ctx context.Context, email, name, propertyTitle, status string) error
}

// PaymentProvider creates hosted checkout sessions. Implemented on
// Stripe; tests substitute a fake.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, bookingID string, amount int64, serviceName string) (sessionID string, checkoutURL string, err error)
}
