package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fixo-backend/internal/domain"
	"fixo-backend/internal/repository"
)

var (
	ErrInvalidDateRange = errors.New("end date must be after start date")
	ErrStartDateInPast  = errors.New("start date cannot be in the past")
	ErrOwnBooking       = errors.New("owners cannot book their own property")
)

type propertyBookingService struct {
	bookingRepo  repository.PropertyBookingRepository
	propertyRepo repository.PropertyRepository
	userRepo     repository.UserRepository
	emailSvc     EmailService
	notifier     NotificationService
}

func NewPropertyBookingService(
	bookingRepo repository.PropertyBookingRepository,
	propertyRepo repository.PropertyRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
	notifier NotificationService,
) PropertyBookingService {
	return &propertyBookingService{
		bookingRepo:  bookingRepo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		emailSvc:     emailSvc,
		notifier:     notifier,
	}
}

// RentalAmount prices a stay as monthly rent times rounded-up 30-day
// months, minimum one month.
func RentalAmount(monthlyRent int64, start, end time.Time) int64 {
	days := int64(end.Sub(start).Hours() / 24)
	months := (days + 29) / 30
	if months < 1 {
		months = 1
	}
	return monthlyRent * months
}

func (s *propertyBookingService) CreatePropertyBooking(ctx context.Context, actor domain.Actor, propertyID, startDate, endDate, notes string) (*domain.PropertyBooking, error) {
	prop, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !prop.IsAvailable {
		return nil, ErrPropertyUnavailable
	}
	if prop.OwnerID == actor.UserID {
		return nil, ErrOwnBooking
	}

	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", err)
	}
	if !end.After(start) {
		return nil, ErrInvalidDateRange
	}
	if start.Before(time.Now().Truncate(24 * time.Hour)) {
		return nil, ErrStartDateInPast
	}

	booking := &domain.PropertyBooking{
		PropertyID:    propertyID,
		TenantID:      actor.UserID,
		StartDate:     startDate,
		EndDate:       endDate,
		MonthlyRent:   prop.MonthlyRent,
		TotalAmount:   RentalAmount(prop.MonthlyRent, start, end),
		Status:        domain.PropertyBookingStatusPending,
		PaymentStatus: domain.PropertyPaymentStatusPending,
		TenantNotes:   notes,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	owner, _ := s.userRepo.GetByID(ctx, prop.OwnerID)
	tenant, _ := s.userRepo.GetByID(ctx, actor.UserID)
	if owner != nil && tenant != nil {
		_ = s.emailSvc.SendPropertyBookingNotification(ctx, owner.Email, owner.FullName, prop.Title, "requested")
		s.notifier.Notify(ctx, owner.ID, "New Rental Request",
			fmt.Sprintf("%s requested to rent %s", tenant.FullName, prop.Title),
			map[string]string{"type": "PROPERTY_BOOKING_REQUEST", "property_booking_id": booking.ID})
	}

	return booking, nil
}

func (s *propertyBookingService) GetPropertyBooking(ctx context.Context, actor domain.Actor, id string) (*domain.PropertyBooking, error) {
	b, prop, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && b.TenantID != actor.UserID && prop.OwnerID != actor.UserID {
		return nil, domain.ErrUnauthorized
	}
	return b, nil
}

func (s *propertyBookingService) ListPropertyBookings(ctx context.Context, actor domain.Actor) ([]domain.PropertyBooking, error) {
	asTenant, err := s.bookingRepo.ListByTenant(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	asOwner, err := s.bookingRepo.ListByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return append(asTenant, asOwner...), nil
}

// CancelPropertyBooking is the tenant's exit. Only pending requests can
// be withdrawn; a confirmed stay is the owner's to complete.
func (s *propertyBookingService) CancelPropertyBooking(ctx context.Context, actor domain.Actor, id string) (*domain.PropertyBooking, error) {
	b, prop, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && b.TenantID != actor.UserID {
		return nil, domain.ErrUnauthorized
	}
	if err := s.transition(ctx, b, domain.PropertyBookingStatusPending, domain.PropertyBookingStatusCancelled); err != nil {
		return nil, err
	}

	if owner, _ := s.userRepo.GetByID(ctx, prop.OwnerID); owner != nil {
		s.notifier.Notify(ctx, owner.ID, "Rental Request Cancelled",
			fmt.Sprintf("The rental request for %s was cancelled", prop.Title),
			map[string]string{"type": "PROPERTY_BOOKING_CANCELLED", "property_booking_id": b.ID})
	}
	return b, nil
}

func (s *propertyBookingService) ConfirmPropertyBooking(ctx context.Context, actor domain.Actor, id string) (*domain.PropertyBooking, error) {
	return s.ownerDecision(ctx, actor, id, domain.PropertyBookingStatusConfirmed, "confirmed")
}

func (s *propertyBookingService) DeclinePropertyBooking(ctx context.Context, actor domain.Actor, id string) (*domain.PropertyBooking, error) {
	return s.ownerDecision(ctx, actor, id, domain.PropertyBookingStatusCancelled, "declined")
}

func (s *propertyBookingService) ownerDecision(ctx context.Context, actor domain.Actor, id string, to domain.PropertyBookingStatus, label string) (*domain.PropertyBooking, error) {
	b, prop, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && prop.OwnerID != actor.UserID {
		return nil, domain.ErrUnauthorized
	}
	if err := s.transition(ctx, b, domain.PropertyBookingStatusPending, to); err != nil {
		return nil, err
	}

	tenant, _ := s.userRepo.GetByID(ctx, b.TenantID)
	if tenant != nil {
		_ = s.emailSvc.SendPropertyBookingNotification(ctx, tenant.Email, tenant.FullName, prop.Title, label)
		s.notifier.Notify(ctx, tenant.ID, "Rental Request "+label,
			fmt.Sprintf("Your rental request for %s was %s", prop.Title, label),
			map[string]string{"type": "PROPERTY_BOOKING_" + string(to), "property_booking_id": b.ID})
	}
	return b, nil
}

// CompletePropertyBooking closes a confirmed stay. Only after the end
// date has passed; stays are never auto-completed by a job.
func (s *propertyBookingService) CompletePropertyBooking(ctx context.Context, actor domain.Actor, id string) (*domain.PropertyBooking, error) {
	b, prop, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && prop.OwnerID != actor.UserID {
		return nil, domain.ErrUnauthorized
	}

	end, err := time.Parse("2006-01-02", b.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid stored end date: %w", err)
	}
	if time.Now().Before(end) {
		return nil, domain.ErrInvalidTransition
	}

	if err := s.transition(ctx, b, domain.PropertyBookingStatusConfirmed, domain.PropertyBookingStatusCompleted); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *propertyBookingService) MarkRentPaid(ctx context.Context, actor domain.Actor, id string) (*domain.PropertyBooking, error) {
	b, prop, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && b.TenantID != actor.UserID && prop.OwnerID != actor.UserID {
		return nil, domain.ErrUnauthorized
	}
	if b.Status == domain.PropertyBookingStatusCancelled {
		return nil, domain.ErrInvalidTransition
	}
	if err := s.bookingRepo.UpdatePaymentStatus(ctx, b.ID, domain.PropertyPaymentStatusPaid); err != nil {
		return nil, err
	}
	b.PaymentStatus = domain.PropertyPaymentStatusPaid
	return b, nil
}

func (s *propertyBookingService) load(ctx context.Context, id string) (*domain.PropertyBooking, *domain.Property, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	prop, err := s.propertyRepo.GetByID(ctx, b.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	return b, prop, nil
}

func (s *propertyBookingService) transition(ctx context.Context, b *domain.PropertyBooking, from, to domain.PropertyBookingStatus) error {
	if b.Status != from {
		return domain.ErrInvalidTransition
	}
	if err := s.bookingRepo.UpdateStatus(ctx, b.ID, from, to); err != nil {
		return err
	}
	b.Status = to
	return nil
}
