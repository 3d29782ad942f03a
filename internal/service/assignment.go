package service

import (
	"context"
	"errors"

	"fixo-backend/internal/domain"
	"fixo-backend/internal/repository"

	"fixo-backend/internal/logger"
)

// AssignmentResolver picks the provider for a booking. Automatic
// resolution takes the first active provider-service link in registration
// order, so repeated runs over the same candidate set pick the same
// provider. Both paths go through a conditional write keyed on the
// booking still being unassigned.
type AssignmentResolver struct {
	bookingRepo repository.BookingRepository
	serviceRepo repository.ServiceRepository
}

func NewAssignmentResolver(bookingRepo repository.BookingRepository, serviceRepo repository.ServiceRepository) *AssignmentResolver {
	return &AssignmentResolver{
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
	}
}

// AutoAssign resolves and persists a provider for a fresh booking.
// Returns the empty string when no provider offers the service; the
// booking then stays unassigned for manual handling.
func (r *AssignmentResolver) AutoAssign(ctx context.Context, b *domain.Booking) (string, error) {
	if b.Assigned() {
		return *b.ProviderID, nil
	}

	links, err := r.serviceRepo.ListActiveLinks(ctx, b.ServiceID)
	if err != nil {
		return "", err
	}
	if len(links) == 0 {
		logger.Info("No provider available for service", "service_id", b.ServiceID, "booking_id", b.ID)
		return "", nil
	}

	providerID := links[0].ProviderID
	if err := r.bookingRepo.AssignProvider(ctx, b.ID, providerID); err != nil {
		if errors.Is(err, domain.ErrAlreadyAssigned) {
			// Another resolver won the race; the booking is assigned.
			fresh, gerr := r.bookingRepo.GetByID(ctx, b.ID)
			if gerr == nil && fresh.Assigned() {
				return *fresh.ProviderID, nil
			}
		}
		return "", err
	}
	return providerID, nil
}

// ManualAssign persists an explicit provider choice. Fails with
// ErrAlreadyAssigned when a provider is already attached; reassignment
// is not supported.
func (r *AssignmentResolver) ManualAssign(ctx context.Context, b *domain.Booking, providerID string) error {
	links, err := r.serviceRepo.ListActiveLinks(ctx, b.ServiceID)
	if err != nil {
		return err
	}
	offered := false
	for _, l := range links {
		if l.ProviderID == providerID {
			offered = true
			break
		}
	}
	if !offered {
		return ErrProviderNotEligible
	}

	return r.bookingRepo.AssignProvider(ctx, b.ID, providerID)
}

// ErrProviderNotEligible is returned when the chosen provider does not
// offer the booking's service.
var ErrProviderNotEligible = errors.New("provider does not offer this service")
