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
	ErrServiceUnavailable = errors.New("service is not available for booking")
	ErrDateInPast         = errors.New("booking date cannot be in the past")
	ErrPaymentNotStarted  = errors.New("no checkout session exists for this booking")
)

// edges is the allowed booking status graph. A transition absent here is
// rejected regardless of role.
var edges = map[domain.BookingStatus][]domain.BookingStatus{
	domain.BookingStatusPending:        {domain.BookingStatusConfirmed, domain.BookingStatusCancelled},
	domain.BookingStatusConfirmed:      {domain.BookingStatusInProgress, domain.BookingStatusCancelled},
	domain.BookingStatusInProgress:     {domain.BookingStatusCompleted},
	domain.BookingStatusPaymentPending: {domain.BookingStatusConfirmed, domain.BookingStatusCancelled},
}

func edgeAllowed(from, to domain.BookingStatus) bool {
	for _, next := range edges[from] {
		if next == to {
			return true
		}
	}
	return false
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	serviceRepo repository.ServiceRepository
	userRepo    repository.UserRepository
	resolver    *AssignmentResolver
	payments    PaymentProvider
	emailSvc    EmailService
	notifier    NotificationService
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	serviceRepo repository.ServiceRepository,
	userRepo repository.UserRepository,
	resolver *AssignmentResolver,
	payments PaymentProvider,
	emailSvc EmailService,
	notifier NotificationService,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		userRepo:    userRepo,
		resolver:    resolver,
		payments:    payments,
		emailSvc:    emailSvc,
		notifier:    notifier,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, actor domain.Actor, req CreateBookingRequest) (*domain.Booking, error) {
	svc, err := s.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, ErrServiceUnavailable
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid booking date: %w", err)
	}
	today := time.Now().Truncate(24 * time.Hour)
	if date.Before(today) {
		return nil, ErrDateInPast
	}

	status := domain.BookingStatusPending
	if req.PayOnline {
		// Checkout-first flow: the booking waits in payment_pending
		// until the hosted checkout completes.
		status = domain.BookingStatusPaymentPending
	}

	booking := &domain.Booking{
		CustomerID:      actor.UserID,
		ServiceID:       req.ServiceID,
		BookingDate:     req.Date,
		BookingTime:     req.TimeSlot,
		CustomerAddress: req.Address,
		CustomerNotes:   req.Notes,
		TotalAmount:     svc.BasePrice,
		Status:          status,
		PaymentStatus:   domain.PaymentStatusPending,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	// Best effort auto-assignment; an unassigned booking is valid and
	// stays visible to admins for manual assignment.
	if providerID, err := s.resolver.AutoAssign(ctx, booking); err == nil && providerID != "" {
		booking.ProviderID = &providerID
		s.notifyAssignment(ctx, booking, svc, providerID)
	}

	customer, _ := s.userRepo.GetByID(ctx, actor.UserID)
	if customer != nil {
		_ = s.emailSvc.SendBookingConfirmation(ctx, customer.Email, customer.FullName, svc.Name, booking.BookingDate)
		s.notifier.Notify(ctx, customer.ID, "Booking Received",
			fmt.Sprintf("Your booking for %s on %s has been received", svc.Name, booking.BookingDate),
			map[string]string{"type": "BOOKING_CREATED", "booking_id": booking.ID})
	}

	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, actor domain.Actor, id string) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canView(actor, b) {
		return nil, domain.ErrUnauthorized
	}
	return b, nil
}

func (s *bookingService) ListBookings(ctx context.Context, actor domain.Actor) ([]domain.Booking, error) {
	switch actor.Role {
	case domain.RoleProvider:
		return s.bookingRepo.ListByProvider(ctx, actor.UserID)
	case domain.RoleAdmin:
		return s.bookingRepo.ListUnassigned(ctx)
	default:
		return s.bookingRepo.ListByCustomer(ctx, actor.UserID)
	}
}

// TransitionStatus applies one edge of the status graph. The write is
// conditional on the observed status, so two concurrent transitions from
// the same state resolve to exactly one winner.
func (s *bookingService) TransitionStatus(ctx context.Context, actor domain.Actor, bookingID string, to domain.BookingStatus) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.Status.IsTerminal() || !edgeAllowed(b.Status, to) {
		return nil, domain.ErrInvalidTransition
	}
	if err := s.authorizeTransition(actor, b, to); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.UpdateStatus(ctx, b.ID, b.Status, to); err != nil {
		return nil, err
	}
	from := b.Status
	b.Status = to

	s.notifyTransition(ctx, b, from, to)
	return b, nil
}

func (s *bookingService) authorizeTransition(actor domain.Actor, b *domain.Booking, to domain.BookingStatus) error {
	if actor.IsAdmin() {
		return nil
	}

	switch actor.Role {
	case domain.RoleCustomer:
		if b.CustomerID != actor.UserID {
			return domain.ErrUnauthorized
		}
		// Customers may only back out before a provider engages.
		if to == domain.BookingStatusCancelled &&
			(b.Status == domain.BookingStatusPending || b.Status == domain.BookingStatusPaymentPending) {
			return nil
		}
		return domain.ErrUnauthorized

	case domain.RoleProvider:
		if b.ProviderID == nil || *b.ProviderID != actor.UserID {
			return domain.ErrUnauthorized
		}
		switch to {
		case domain.BookingStatusConfirmed, domain.BookingStatusInProgress, domain.BookingStatusCompleted:
			return nil
		case domain.BookingStatusCancelled:
			if b.Status == domain.BookingStatusPending || b.Status == domain.BookingStatusConfirmed {
				return nil
			}
		}
		return domain.ErrUnauthorized
	}

	return domain.ErrUnauthorized
}

func (s *bookingService) SetPaymentStatus(ctx context.Context, actor domain.Actor, bookingID string, to domain.PaymentStatus) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && b.CustomerID != actor.UserID {
		return nil, domain.ErrUnauthorized
	}

	// A cancelled booking never collects money.
	if b.Status == domain.BookingStatusCancelled &&
		(to == domain.PaymentStatusPaid || to == domain.PaymentStatusPayAfterService) {
		return nil, domain.ErrInvalidTransition
	}

	switch to {
	case domain.PaymentStatusPayAfterService:
		if b.Status != domain.BookingStatusPending && b.Status != domain.BookingStatusConfirmed {
			return nil, domain.ErrInvalidTransition
		}
	case domain.PaymentStatusPaid:
		// Settling a deferred payment requires the job to be done,
		// unless an admin closes the books.
		if b.PaymentStatus == domain.PaymentStatusPayAfterService &&
			b.Status != domain.BookingStatusCompleted && !actor.IsAdmin() {
			return nil, domain.ErrInvalidTransition
		}
	}

	if err := s.bookingRepo.UpdatePaymentStatus(ctx, b.ID, to); err != nil {
		return nil, err
	}
	b.PaymentStatus = to
	return b, nil
}

// ChoosePayAfterService defers payment to after the visit and confirms
// the booking so the provider can proceed.
func (s *bookingService) ChoosePayAfterService(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, error) {
	b, err := s.SetPaymentStatus(ctx, actor, bookingID, domain.PaymentStatusPayAfterService)
	if err != nil {
		return nil, err
	}
	if b.Status == domain.BookingStatusPending {
		if err := s.bookingRepo.UpdateStatus(ctx, b.ID, domain.BookingStatusPending, domain.BookingStatusConfirmed); err != nil {
			return nil, err
		}
		b.Status = domain.BookingStatusConfirmed
	}
	return b, nil
}

func (s *bookingService) StartCheckout(ctx context.Context, actor domain.Actor, bookingID string) (string, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return "", err
	}
	if b.CustomerID != actor.UserID {
		return "", domain.ErrUnauthorized
	}
	if b.Status == domain.BookingStatusCancelled || b.PaymentStatus == domain.PaymentStatusPaid {
		return "", domain.ErrInvalidTransition
	}

	svc, err := s.serviceRepo.GetByID(ctx, b.ServiceID)
	if err != nil {
		return "", err
	}

	sessionID, checkoutURL, err := s.payments.CreateCheckoutSession(ctx, b.ID, b.TotalAmount, svc.Name)
	if err != nil {
		return "", err
	}

	b.PaymentID = &sessionID
	b.PaymentStatus = domain.PaymentStatusProcessing
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return "", err
	}
	return checkoutURL, nil
}

// CompleteCheckout is invoked by the payment return flow with the
// checkout session id. The booking moves out of payment_pending once the
// money is in.
func (s *bookingService) CompleteCheckout(ctx context.Context, paymentID string) (*domain.Booking, error) {
	if paymentID == "" {
		return nil, ErrPaymentNotStarted
	}
	b, err := s.bookingRepo.GetByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if err := s.bookingRepo.UpdatePaymentStatus(ctx, b.ID, domain.PaymentStatusPaid); err != nil {
		return nil, err
	}
	b.PaymentStatus = domain.PaymentStatusPaid

	if b.Status == domain.BookingStatusPaymentPending {
		if err := s.bookingRepo.UpdateStatus(ctx, b.ID, domain.BookingStatusPaymentPending, domain.BookingStatusConfirmed); err != nil {
			return nil, err
		}
		b.Status = domain.BookingStatusConfirmed
	}

	customer, _ := s.userRepo.GetByID(ctx, b.CustomerID)
	svc, _ := s.serviceRepo.GetByID(ctx, b.ServiceID)
	if customer != nil && svc != nil {
		s.notifier.Notify(ctx, customer.ID, "Payment Received",
			fmt.Sprintf("Payment for %s was received", svc.Name),
			map[string]string{"type": "PAYMENT_COMPLETED", "booking_id": b.ID})
	}
	return b, nil
}

// AssignProvider is the manual assignment path. Admin only; the write is
// conditional on the booking still being unassigned.
func (s *bookingService) AssignProvider(ctx context.Context, actor domain.Actor, bookingID, providerID string) (*domain.Booking, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}

	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status.IsTerminal() {
		return nil, domain.ErrInvalidTransition
	}

	if err := s.resolver.ManualAssign(ctx, b, providerID); err != nil {
		return nil, err
	}
	b.ProviderID = &providerID

	svc, _ := s.serviceRepo.GetByID(ctx, b.ServiceID)
	s.notifyAssignment(ctx, b, svc, providerID)
	return b, nil
}

func (s *bookingService) canView(actor domain.Actor, b *domain.Booking) bool {
	if actor.IsAdmin() || b.CustomerID == actor.UserID {
		return true
	}
	return b.ProviderID != nil && *b.ProviderID == actor.UserID
}

func (s *bookingService) notifyAssignment(ctx context.Context, b *domain.Booking, svc *domain.Service, providerID string) {
	serviceName := "a service"
	if svc != nil {
		serviceName = svc.Name
	}

	provider, _ := s.userRepo.GetByID(ctx, providerID)
	if provider != nil {
		_ = s.emailSvc.SendProviderAssignment(ctx, provider.Email, provider.FullName, serviceName, b.CustomerAddress, b.BookingDate)
		s.notifier.Notify(ctx, provider.ID, "New Job Assigned",
			fmt.Sprintf("You have been assigned a %s booking on %s", serviceName, b.BookingDate),
			map[string]string{"type": "BOOKING_ASSIGNED", "booking_id": b.ID})
	}

	s.notifier.Notify(ctx, b.CustomerID, "Provider Assigned",
		fmt.Sprintf("A provider has been assigned to your %s booking", serviceName),
		map[string]string{"type": "PROVIDER_ASSIGNED", "booking_id": b.ID})
}

func (s *bookingService) notifyTransition(ctx context.Context, b *domain.Booking, from, to domain.BookingStatus) {
	customer, _ := s.userRepo.GetByID(ctx, b.CustomerID)
	svc, _ := s.serviceRepo.GetByID(ctx, b.ServiceID)
	if customer == nil || svc == nil {
		return
	}

	_ = s.emailSvc.SendBookingStatusUpdate(ctx, customer.Email, customer.FullName, svc.Name, string(to))
	s.notifier.Notify(ctx, customer.ID, "Booking Update",
		fmt.Sprintf("Your %s booking is now %s", svc.Name, to),
		map[string]string{"type": "BOOKING_STATUS", "booking_id": b.ID, "from": string(from), "to": string(to)})
}
