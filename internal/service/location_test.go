package service_test

import (
	"context"
	"testing"

	"fixo-backend/internal/domain"
	"fixo-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type locationFixture struct {
	locationRepo *MockLocationRepo
	bookingRepo  *MockBookingRepo
	feed         *MockFeed
	svc          service.LocationService
}

func newLocationFixture() *locationFixture {
	f := &locationFixture{
		locationRepo: new(MockLocationRepo),
		bookingRepo:  new(MockBookingRepo),
		feed:         new(MockFeed),
	}
	f.svc = service.NewLocationService(f.locationRepo, f.bookingRepo, f.feed)
	return f
}

func trackedBooking() *domain.Booking {
	pid := "prov-1"
	return &domain.Booking{
		ID:         "booking-1",
		CustomerID: "cust-1",
		ProviderID: &pid,
		ServiceID:  "svc-1",
		Status:     domain.BookingStatusInProgress,
	}
}

func TestLocationService_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("Assigned provider writes and publishes", func(t *testing.T) {
		f := newLocationFixture()
		f.bookingRepo.On("GetByID", ctx, "booking-1").Return(trackedBooking(), nil)
		f.locationRepo.On("Upsert", ctx, mock.MatchedBy(func(loc *domain.ProviderLocation) bool {
			return loc.ProviderID == "prov-1" && loc.BookingID == "booking-1" && loc.IsActive
		})).Return(nil)
		f.feed.On("Publish", ctx, mock.MatchedBy(func(loc domain.ProviderLocation) bool {
			return loc.BookingID == "booking-1" && loc.IsActive
		})).Return(nil)

		err := f.svc.Upsert(ctx, "prov-1", "booking-1", domain.ProviderLocation{Latitude: 12.97, Longitude: 77.59})
		assert.NoError(t, err)
		f.feed.AssertExpectations(t)
	})

	t.Run("Other provider rejected", func(t *testing.T) {
		f := newLocationFixture()
		f.bookingRepo.On("GetByID", ctx, "booking-1").Return(trackedBooking(), nil)

		err := f.svc.Upsert(ctx, "prov-9", "booking-1", domain.ProviderLocation{})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		f.locationRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("Unassigned booking rejected", func(t *testing.T) {
		f := newLocationFixture()
		b := trackedBooking()
		b.ProviderID = nil
		f.bookingRepo.On("GetByID", ctx, "booking-1").Return(b, nil)

		err := f.svc.Upsert(ctx, "prov-1", "booking-1", domain.ProviderLocation{})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Store failure is returned before publish", func(t *testing.T) {
		f := newLocationFixture()
		f.bookingRepo.On("GetByID", ctx, "booking-1").Return(trackedBooking(), nil)
		f.locationRepo.On("Upsert", ctx, mock.Anything).Return(assert.AnError)

		err := f.svc.Upsert(ctx, "prov-1", "booking-1", domain.ProviderLocation{})
		assert.Error(t, err)
		f.feed.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("Publish failure does not fail the write", func(t *testing.T) {
		f := newLocationFixture()
		f.bookingRepo.On("GetByID", ctx, "booking-1").Return(trackedBooking(), nil)
		f.locationRepo.On("Upsert", ctx, mock.Anything).Return(nil)
		f.feed.On("Publish", ctx, mock.Anything).Return(assert.AnError)

		err := f.svc.Upsert(ctx, "prov-1", "booking-1", domain.ProviderLocation{})
		assert.NoError(t, err)
	})
}

func TestLocationService_Deactivate(t *testing.T) {
	ctx := context.Background()

	f := newLocationFixture()
	f.bookingRepo.On("GetByID", ctx, "booking-1").Return(trackedBooking(), nil)
	f.locationRepo.On("Deactivate", ctx, "prov-1", "booking-1").Return(nil)
	f.feed.On("Publish", ctx, mock.MatchedBy(func(loc domain.ProviderLocation) bool {
		return loc.BookingID == "booking-1" && !loc.IsActive
	})).Return(nil)

	err := f.svc.Deactivate(ctx, "prov-1", "booking-1")
	assert.NoError(t, err)
	f.feed.AssertExpectations(t)
}

func TestLocationService_GetActive(t *testing.T) {
	ctx := context.Background()
	active := &domain.ProviderLocation{ProviderID: "prov-1", BookingID: "booking-1", Latitude: 12.97, IsActive: true}

	t.Run("Customer sees the active location", func(t *testing.T) {
		f := newLocationFixture()
		f.bookingRepo.On("GetByID", ctx, "booking-1").Return(trackedBooking(), nil)
		f.locationRepo.On("GetActive", ctx, "booking-1").Return(active, nil)

		loc, err := f.svc.GetActive(ctx, customer, "booking-1")
		assert.NoError(t, err)
		assert.Equal(t, 12.97, loc.Latitude)
	})

	t.Run("Assigned provider and admin may view", func(t *testing.T) {
		f := newLocationFixture()
		f.bookingRepo.On("GetByID", ctx, "booking-1").Return(trackedBooking(), nil)
		f.locationRepo.On("GetActive", ctx, "booking-1").Return(active, nil)

		_, err := f.svc.GetActive(ctx, provider, "booking-1")
		assert.NoError(t, err)
		_, err = f.svc.GetActive(ctx, admin, "booking-1")
		assert.NoError(t, err)
	})

	t.Run("Stranger is rejected", func(t *testing.T) {
		f := newLocationFixture()
		f.bookingRepo.On("GetByID", ctx, "booking-1").Return(trackedBooking(), nil)

		stranger := domain.Actor{UserID: "cust-9", Role: domain.RoleCustomer}
		_, err := f.svc.GetActive(ctx, stranger, "booking-1")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("No active sharing returns nil", func(t *testing.T) {
		f := newLocationFixture()
		f.bookingRepo.On("GetByID", ctx, "booking-1").Return(trackedBooking(), nil)
		f.locationRepo.On("GetActive", ctx, "booking-1").Return(nil, nil)

		loc, err := f.svc.GetActive(ctx, customer, "booking-1")
		assert.NoError(t, err)
		assert.Nil(t, loc)
	})
}
