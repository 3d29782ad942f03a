package service

import (
	"context"

	"fixo-backend/internal/domain"
	"fixo-backend/internal/feed"
	"fixo-backend/internal/logger"
	"fixo-backend/internal/repository"
	"fixo-backend/internal/tracking"
)

type locationService struct {
	locationRepo repository.LocationRepository
	bookingRepo  repository.BookingRepository
	feed         feed.Feed
}

func NewLocationService(locationRepo repository.LocationRepository, bookingRepo repository.BookingRepository, f feed.Feed) LocationService {
	return &locationService{
		locationRepo: locationRepo,
		bookingRepo:  bookingRepo,
		feed:         f,
	}
}

// Upsert writes the provider's latest position for a booking and fans it
// out to live subscribers. Only the booking's assigned provider may
// write; rows keyed on other pairs are rejected, not created.
func (s *locationService) Upsert(ctx context.Context, providerID, bookingID string, loc domain.ProviderLocation) error {
	if err := s.authorizeWriter(ctx, providerID, bookingID); err != nil {
		return err
	}

	loc.ProviderID = providerID
	loc.BookingID = bookingID
	loc.IsActive = true
	if err := s.locationRepo.Upsert(ctx, &loc); err != nil {
		return err
	}

	// Feed delivery is best effort; the stored row is authoritative and
	// viewers re-fetch it on subscribe.
	if err := s.feed.Publish(ctx, loc); err != nil {
		logger.Warn("Failed to publish location update", "booking_id", bookingID, "error", err)
	}
	return nil
}

func (s *locationService) Deactivate(ctx context.Context, providerID, bookingID string) error {
	if err := s.authorizeWriter(ctx, providerID, bookingID); err != nil {
		return err
	}
	if err := s.locationRepo.Deactivate(ctx, providerID, bookingID); err != nil {
		return err
	}

	stopped := domain.ProviderLocation{
		ProviderID: providerID,
		BookingID:  bookingID,
		IsActive:   false,
	}
	if err := s.feed.Publish(ctx, stopped); err != nil {
		logger.Warn("Failed to publish location stop", "booking_id", bookingID, "error", err)
	}
	return nil
}

// GetActive returns the booking's current active position, or nil when
// the provider is not sharing.
func (s *locationService) GetActive(ctx context.Context, actor domain.Actor, bookingID string) (*domain.ProviderLocation, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && b.CustomerID != actor.UserID &&
		(b.ProviderID == nil || *b.ProviderID != actor.UserID) {
		return nil, domain.ErrUnauthorized
	}
	return s.locationRepo.GetActive(ctx, bookingID)
}

func (s *locationService) authorizeWriter(ctx context.Context, providerID, bookingID string) error {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.ProviderID == nil || *b.ProviderID != providerID {
		return domain.ErrUnauthorized
	}
	return nil
}

// trackingStore adapts LocationService to the tracking session's store
// interface, converting device fixes to stored rows.
type trackingStore struct {
	locations LocationService
}

func NewTrackingStore(locations LocationService) tracking.LocationStore {
	return &trackingStore{locations: locations}
}

func (t *trackingStore) Upsert(ctx context.Context, providerID, bookingID string, pos tracking.Position) error {
	return t.locations.Upsert(ctx, providerID, bookingID, domain.ProviderLocation{
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
		Accuracy:  pos.Accuracy,
		Heading:   pos.Heading,
		Speed:     pos.Speed,
	})
}

func (t *trackingStore) Deactivate(ctx context.Context, providerID, bookingID string) error {
	return t.locations.Deactivate(ctx, providerID, bookingID)
}

// trackingNotifier adapts NotificationService to the tracking session's
// sink interface.
type trackingNotifier struct {
	notifier NotificationService
}

func NewTrackingNotifier(notifier NotificationService) tracking.NotificationSink {
	return &trackingNotifier{notifier: notifier}
}

func (t *trackingNotifier) Notify(ctx context.Context, userID, title, message string) {
	t.notifier.Notify(ctx, userID, title, message, map[string]string{"type": "LOCATION_TRACKING"})
}
