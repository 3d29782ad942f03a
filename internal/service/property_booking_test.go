package service_test

import (
	"context"
	"testing"
	"time"

	"fixo-backend/internal/domain"
	"fixo-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type rentalFixture struct {
	bookingRepo  *MockPropertyBookingRepo
	propertyRepo *MockPropertyRepo
	userRepo     *MockUserRepo
	emailSvc     *MockEmailService
	notifier     *MockNotifier
	svc          service.PropertyBookingService
}

func newRentalFixture() *rentalFixture {
	f := &rentalFixture{
		bookingRepo:  new(MockPropertyBookingRepo),
		propertyRepo: new(MockPropertyRepo),
		userRepo:     new(MockUserRepo),
		emailSvc:     new(MockEmailService),
		notifier:     new(MockNotifier),
	}
	f.svc = service.NewPropertyBookingService(f.bookingRepo, f.propertyRepo, f.userRepo, f.emailSvc, f.notifier)
	return f
}

var (
	tenant = domain.Actor{UserID: "tenant-1", Role: domain.RoleCustomer}
	owner  = domain.Actor{UserID: "owner-1", Role: domain.RoleCustomer}
)

func flat() *domain.Property {
	return &domain.Property{
		ID:          "property-1",
		OwnerID:     "owner-1",
		Title:       "2BHK near the lake",
		MonthlyRent: 25000,
		IsAvailable: true,
	}
}

func rentalRequest() *domain.PropertyBooking {
	return &domain.PropertyBooking{
		ID:          "pb-1",
		PropertyID:  "property-1",
		TenantID:    "tenant-1",
		StartDate:   futureDate(10),
		EndDate:     futureDate(40),
		MonthlyRent: 25000,
		TotalAmount: 25000,
		Status:      domain.PropertyBookingStatusPending,
	}
}

func TestRentalAmount(t *testing.T) {
	day := func(n int) time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n) }

	t.Run("Short stays bill one month", func(t *testing.T) {
		assert.Equal(t, int64(25000), service.RentalAmount(25000, day(0), day(10)))
		assert.Equal(t, int64(25000), service.RentalAmount(25000, day(0), day(30)))
	})

	t.Run("Partial months round up", func(t *testing.T) {
		assert.Equal(t, int64(50000), service.RentalAmount(25000, day(0), day(31)))
		assert.Equal(t, int64(50000), service.RentalAmount(25000, day(0), day(45)))
		assert.Equal(t, int64(75000), service.RentalAmount(25000, day(0), day(61)))
	})
}

func TestPropertyBookingService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success notifies the owner", func(t *testing.T) {
		f := newRentalFixture()
		f.propertyRepo.On("GetByID", ctx, "property-1").Return(flat(), nil)
		f.bookingRepo.On("Create", ctx, mock.AnythingOfType("*domain.PropertyBooking")).Return(nil)
		f.userRepo.On("GetByID", ctx, "owner-1").Return(&domain.User{ID: "owner-1", Email: "owner@test.com", FullName: "Owner"}, nil)
		f.userRepo.On("GetByID", ctx, "tenant-1").Return(&domain.User{ID: "tenant-1", Email: "tenant@test.com", FullName: "Tenant"}, nil)
		f.emailSvc.On("SendPropertyBookingNotification", ctx, "owner@test.com", "Owner", "2BHK near the lake", "requested").Return(nil)
		f.notifier.On("Notify", ctx, "owner-1", mock.Anything, mock.Anything, mock.Anything).Return()

		b, err := f.svc.CreatePropertyBooking(ctx, tenant, "property-1", futureDate(10), futureDate(55), "")
		assert.NoError(t, err)
		assert.Equal(t, domain.PropertyBookingStatusPending, b.Status)
		// 45 days rounds up to two months of rent.
		assert.Equal(t, int64(50000), b.TotalAmount)
	})

	t.Run("Owner cannot rent their own property", func(t *testing.T) {
		f := newRentalFixture()
		f.propertyRepo.On("GetByID", ctx, "property-1").Return(flat(), nil)

		_, err := f.svc.CreatePropertyBooking(ctx, owner, "property-1", futureDate(10), futureDate(40), "")
		assert.ErrorIs(t, err, service.ErrOwnBooking)
	})

	t.Run("Unavailable property rejected", func(t *testing.T) {
		f := newRentalFixture()
		p := flat()
		p.IsAvailable = false
		f.propertyRepo.On("GetByID", ctx, "property-1").Return(p, nil)

		_, err := f.svc.CreatePropertyBooking(ctx, tenant, "property-1", futureDate(10), futureDate(40), "")
		assert.ErrorIs(t, err, service.ErrPropertyUnavailable)
	})

	t.Run("End date must follow start date", func(t *testing.T) {
		f := newRentalFixture()
		f.propertyRepo.On("GetByID", ctx, "property-1").Return(flat(), nil)

		_, err := f.svc.CreatePropertyBooking(ctx, tenant, "property-1", futureDate(40), futureDate(10), "")
		assert.ErrorIs(t, err, service.ErrInvalidDateRange)
	})

	t.Run("Past start date rejected", func(t *testing.T) {
		f := newRentalFixture()
		f.propertyRepo.On("GetByID", ctx, "property-1").Return(flat(), nil)

		_, err := f.svc.CreatePropertyBooking(ctx, tenant, "property-1", futureDate(-5), futureDate(40), "")
		assert.ErrorIs(t, err, service.ErrStartDateInPast)
	})
}

func TestPropertyBookingService_OwnerDecision(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner confirms a pending request", func(t *testing.T) {
		f := newRentalFixture()
		f.bookingRepo.On("GetByID", ctx, "pb-1").Return(rentalRequest(), nil)
		f.propertyRepo.On("GetByID", ctx, "property-1").Return(flat(), nil)
		f.bookingRepo.On("UpdateStatus", ctx, "pb-1", domain.PropertyBookingStatusPending, domain.PropertyBookingStatusConfirmed).Return(nil)
		f.userRepo.On("GetByID", ctx, "tenant-1").Return(&domain.User{ID: "tenant-1", Email: "tenant@test.com", FullName: "Tenant"}, nil)
		f.emailSvc.On("SendPropertyBookingNotification", ctx, "tenant@test.com", "Tenant", "2BHK near the lake", "confirmed").Return(nil)
		f.notifier.On("Notify", ctx, "tenant-1", mock.Anything, mock.Anything, mock.Anything).Return()

		b, err := f.svc.ConfirmPropertyBooking(ctx, owner, "pb-1")
		assert.NoError(t, err)
		assert.Equal(t, domain.PropertyBookingStatusConfirmed, b.Status)
	})

	t.Run("Decline cancels the request", func(t *testing.T) {
		f := newRentalFixture()
		f.bookingRepo.On("GetByID", ctx, "pb-1").Return(rentalRequest(), nil)
		f.propertyRepo.On("GetByID", ctx, "property-1").Return(flat(), nil)
		f.bookingRepo.On("UpdateStatus", ctx, "pb-1", domain.PropertyBookingStatusPending, domain.PropertyBookingStatusCancelled).Return(nil)
		f.userRepo.On("GetByID", ctx, "tenant-1").Return(&domain.User{ID: "tenant-1", Email: "tenant@test.com", FullName: "Tenant"}, nil)
		f.emailSvc.On("SendPropertyBookingNotification", ctx, mock.Anything, mock.Anything, mock.Anything, "declined").Return(nil)
		f.notifier.On("Notify", ctx, "tenant-1", mock.Anything, mock.Anything, mock.Anything).Return()

		b, err := f.svc.DeclinePropertyBooking(ctx, owner, "pb-1")
		assert.NoError(t, err)
		assert.Equal(t, domain.PropertyBookingStatusCancelled, b.Status)
	})

	t.Run("Tenant cannot decide", func(t *testing.T) {
		f := newRentalFixture()
		f.bookingRepo.On("GetByID", ctx, "pb-1").Return(rentalRequest(), nil)
		f.propertyRepo.On("GetByID", ctx, "property-1").Return(flat(), nil)

		_, err := f.svc.ConfirmPropertyBooking(ctx, tenant, "pb-1")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Confirmed request cannot be decided again", func(t *testing.T) {
		f := newRentalFixture()
		b := rentalRequest()
		b.Status = domain.PropertyBookingStatusConfirmed
		f.bookingRepo.On("GetByID", ctx, "pb-1").Return(b, nil)
		f.propertyRepo.On("GetByID", ctx, "property-1").Return(flat(), nil)

		_, err := f.svc.ConfirmPropertyBooking(ctx, owner, "pb-1")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestPropertyBookingService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("Tenant withdraws a pending request", func(t *testing.T) {
		f := newRentalFixture()
		f.bookingRepo.On("GetByID", ctx, "pb-1").Return(rentalRequest(), nil)
		f.propertyRepo.On("GetByID", ctx, "property-1").Return(flat(), nil)
		f.bookingRepo.On("UpdateStatus", ctx, "pb-1", domain.PropertyBookingStatusPending, domain.PropertyBookingStatusCancelled).Return(nil)
		f.userRepo.On("GetByID", ctx, "owner-1").Return(&domain.User{ID: "owner-1", Email: "owner@test.com"}, nil)
		f.notifier.On("Notify", ctx, "owner-1", mock.Anything, mock.Anything, mock.Anything).Return()

		b, err := f.svc.CancelPropertyBooking(ctx, tenant, "pb-1")
		assert.NoError(t, err)
		assert.Equal(t, domain.PropertyBookingStatusCancelled, b.Status)
	})

	t.Run("Confirmed stays cannot be withdrawn", func(t *testing.T) {
		f := newRentalFixture()
		b := rentalRequest()
		b.Status = domain.PropertyBookingStatusConfirmed
		f.bookingRepo.On("GetByID", ctx, "pb-1").Return(b, nil)
		f.propertyRepo.On("GetByID", ctx, "property-1").Return(flat(), nil)

		_, err := f.svc.CancelPropertyBooking(ctx, tenant, "pb-1")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("Owner cannot cancel on the tenant's behalf", func(t *testing.T) {
		f := newRentalFixture()
		f.bookingRepo.On("GetByID", ctx, "pb-1").Return(rentalRequest(), nil)
		f.propertyRepo.On("GetByID", ctx, "property-1").Return(flat(), nil)

		_, err := f.svc.CancelPropertyBooking(ctx, owner, "pb-1")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestPropertyBookingService_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("Completes after the stay ends", func(t *testing.T) {
		f := newRentalFixture()
		b := rentalRequest()
		b.Status = domain.PropertyBookingStatusConfirmed
		b.StartDate = "2026-01-01"
		b.EndDate = "2026-02-01"
		f.bookingRepo.On("GetByID", ctx, "pb-1").Return(b, nil)
		f.propertyRepo.On("GetByID", ctx, "property-1").Return(flat(), nil)
		f.bookingRepo.On("UpdateStatus", ctx, "pb-1", domain.PropertyBookingStatusConfirmed, domain.PropertyBookingStatusCompleted).Return(nil)

		res, err := f.svc.CompletePropertyBooking(ctx, owner, "pb-1")
		assert.NoError(t, err)
		assert.Equal(t, domain.PropertyBookingStatusCompleted, res.Status)
	})

	t.Run("Cannot complete before the end date", func(t *testing.T) {
		f := newRentalFixture()
		b := rentalRequest()
		b.Status = domain.PropertyBookingStatusConfirmed
		f.bookingRepo.On("GetByID", ctx, "pb-1").Return(b, nil)
		f.propertyRepo.On("GetByID", ctx, "property-1").Return(flat(), nil)

		_, err := f.svc.CompletePropertyBooking(ctx, owner, "pb-1")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestPropertyBookingService_MarkRentPaid(t *testing.T) {
	ctx := context.Background()

	t.Run("Tenant records a payment", func(t *testing.T) {
		f := newRentalFixture()
		b := rentalRequest()
		b.Status = domain.PropertyBookingStatusConfirmed
		f.bookingRepo.On("GetByID", ctx, "pb-1").Return(b, nil)
		f.propertyRepo.On("GetByID", ctx, "property-1").Return(flat(), nil)
		f.bookingRepo.On("UpdatePaymentStatus", ctx, "pb-1", domain.PropertyPaymentStatusPaid).Return(nil)

		res, err := f.svc.MarkRentPaid(ctx, tenant, "pb-1")
		assert.NoError(t, err)
		assert.Equal(t, domain.PropertyPaymentStatusPaid, res.PaymentStatus)
	})

	t.Run("Cancelled stays collect nothing", func(t *testing.T) {
		f := newRentalFixture()
		b := rentalRequest()
		b.Status = domain.PropertyBookingStatusCancelled
		f.bookingRepo.On("GetByID", ctx, "pb-1").Return(b, nil)
		f.propertyRepo.On("GetByID", ctx, "property-1").Return(flat(), nil)

		_, err := f.svc.MarkRentPaid(ctx, tenant, "pb-1")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}
