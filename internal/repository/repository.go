package repository

import (
	"context"

	"fixo-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type ServiceRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	ListActive(ctx context.Context) ([]domain.Service, error)

	// Provider-service links
	ListActiveLinks(ctx context.Context, serviceID string) ([]domain.ProviderService, error)
	CreateLink(ctx context.Context, link *domain.ProviderService) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error

	// UpdateStatus performs a conditional write: the row is updated only
	// while its status still equals from. Returns domain.ErrInvalidTransition
	// when another actor moved the booking first.
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error
	AssignProvider(ctx context.Context, id, providerID string) error

	ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error)
	ListByProvider(ctx context.Context, providerID string) ([]domain.Booking, error)
	ListUnassigned(ctx context.Context) ([]domain.Booking, error)
	ListByDate(ctx context.Context, date string) ([]domain.Booking, error)
}

type PropertyRepository interface {
	Create(ctx context.Context, p *domain.Property) error
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	Update(ctx context.Context, p *domain.Property) error
	ListAvailable(ctx context.Context) ([]domain.Property, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Property, error)
}

type PropertyBookingRepository interface {
	Create(ctx context.Context, b *domain.PropertyBooking) error
	GetByID(ctx context.Context, id string) (*domain.PropertyBooking, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.PropertyBookingStatus) error
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PropertyPaymentStatus) error
	ListByTenant(ctx context.Context, tenantID string) ([]domain.PropertyBooking, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.PropertyBooking, error)
}

type LocationRepository interface {
	// Upsert replaces the mutable fields of the (provider_id, booking_id)
	// row and reactivates it, creating the row on first report.
	Upsert(ctx context.Context, loc *domain.ProviderLocation) error

	// Deactivate flips is_active off. Idempotent; the row is kept.
	Deactivate(ctx context.Context, providerID, bookingID string) error

	// GetActive returns the active row for a booking, newest first when
	// more than one matches, or nil when there is none.
	GetActive(ctx context.Context, bookingID string) (*domain.ProviderLocation, error)

	// DeactivateStale flips off active rows whose updated_at is older
	// than cutoff, returning the affected pairs.
	DeactivateStale(ctx context.Context, cutoffMinutes int) ([]domain.ProviderLocation, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID string) error
}
