package service_test

import (
	"context"

	"fixo-backend/internal/domain"
	"fixo-backend/internal/feed"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockServiceRepo
type MockServiceRepo struct {
	mock.Mock
}

func (m *MockServiceRepo) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}
func (m *MockServiceRepo) ListActive(ctx context.Context) ([]domain.Service, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Service), args.Error(1)
}
func (m *MockServiceRepo) ListActiveLinks(ctx context.Context, serviceID string) ([]domain.ProviderService, error) {
	args := m.Called(ctx, serviceID)
	return args.Get(0).([]domain.ProviderService), args.Error(1)
}
func (m *MockServiceRepo) CreateLink(ctx context.Context, link *domain.ProviderService) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if args.Error(0) == nil && b.ID == "" {
		b.ID = "booking-1"
	}
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Booking, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}
func (m *MockBookingRepo) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockBookingRepo) AssignProvider(ctx context.Context, id, providerID string) error {
	args := m.Called(ctx, id, providerID)
	return args.Error(0)
}
func (m *MockBookingRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByProvider(ctx context.Context, providerID string) ([]domain.Booking, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListUnassigned(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByDate(ctx context.Context, date string) ([]domain.Booking, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

// MockPropertyRepo
type MockPropertyRepo struct {
	mock.Mock
}

func (m *MockPropertyRepo) Create(ctx context.Context, p *domain.Property) error {
	args := m.Called(ctx, p)
	if args.Error(0) == nil && p.ID == "" {
		p.ID = "property-1"
	}
	return args.Error(0)
}
func (m *MockPropertyRepo) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyRepo) Update(ctx context.Context, p *domain.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPropertyRepo) ListAvailable(ctx context.Context) ([]domain.Property, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Property), args.Error(1)
}
func (m *MockPropertyRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Property, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Property), args.Error(1)
}

// MockPropertyBookingRepo
type MockPropertyBookingRepo struct {
	mock.Mock
}

func (m *MockPropertyBookingRepo) Create(ctx context.Context, b *domain.PropertyBooking) error {
	args := m.Called(ctx, b)
	if args.Error(0) == nil && b.ID == "" {
		b.ID = "pb-1"
	}
	return args.Error(0)
}
func (m *MockPropertyBookingRepo) GetByID(ctx context.Context, id string) (*domain.PropertyBooking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PropertyBooking), args.Error(1)
}
func (m *MockPropertyBookingRepo) UpdateStatus(ctx context.Context, id string, from, to domain.PropertyBookingStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}
func (m *MockPropertyBookingRepo) UpdatePaymentStatus(ctx context.Context, id string, status domain.PropertyPaymentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockPropertyBookingRepo) ListByTenant(ctx context.Context, tenantID string) ([]domain.PropertyBooking, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]domain.PropertyBooking), args.Error(1)
}
func (m *MockPropertyBookingRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.PropertyBooking, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.PropertyBooking), args.Error(1)
}

// MockLocationRepo
type MockLocationRepo struct {
	mock.Mock
}

func (m *MockLocationRepo) Upsert(ctx context.Context, loc *domain.ProviderLocation) error {
	args := m.Called(ctx, loc)
	return args.Error(0)
}
func (m *MockLocationRepo) Deactivate(ctx context.Context, providerID, bookingID string) error {
	args := m.Called(ctx, providerID, bookingID)
	return args.Error(0)
}
func (m *MockLocationRepo) GetActive(ctx context.Context, bookingID string) (*domain.ProviderLocation, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProviderLocation), args.Error(1)
}
func (m *MockLocationRepo) DeactivateStale(ctx context.Context, cutoffMinutes int) ([]domain.ProviderLocation, error) {
	args := m.Called(ctx, cutoffMinutes)
	return args.Get(0).([]domain.ProviderLocation), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingConfirmation(ctx context.Context, email, name, serviceName, date string) error {
	args := m.Called(ctx, email, name, serviceName, date)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingStatusUpdate(ctx context.Context, email, name, serviceName, status string) error {
	args := m.Called(ctx, email, name, serviceName, status)
	return args.Error(0)
}
func (m *MockEmailService) SendProviderAssignment(ctx context.Context, email, name, serviceName, address, date string) error {
	args := m.Called(ctx, email, name, serviceName, address, date)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingReminder(ctx context.Context, email, name, serviceName, date string) error {
	args := m.Called(ctx, email, name, serviceName, date)
	return args.Error(0)
}
func (m *MockEmailService) SendPropertyBookingNotification(ctx context.Context, email, name, propertyTitle, status string) error {
	args := m.Called(ctx, email, name, propertyTitle, status)
	return args.Error(0)
}

// MockNotifier records in-app notifications without a backing store.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID, title, message string, attributes map[string]string) {
	m.Called(ctx, userID, title, message, attributes)
}
func (m *MockNotifier) ListNotifications(ctx context.Context, userID string, page, pageSize int) ([]domain.Notification, int, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Int(1), args.Error(2)
}
func (m *MockNotifier) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

// MockPayments
type MockPayments struct {
	mock.Mock
}

func (m *MockPayments) CreateCheckoutSession(ctx context.Context, bookingID string, amount int64, serviceName string) (string, string, error) {
	args := m.Called(ctx, bookingID, amount, serviceName)
	return args.String(0), args.String(1), args.Error(2)
}

// MockFeed
type MockFeed struct {
	mock.Mock
}

func (m *MockFeed) Publish(ctx context.Context, loc domain.ProviderLocation) error {
	args := m.Called(ctx, loc)
	return args.Error(0)
}
func (m *MockFeed) Subscribe(bookingID string, h feed.Handler) (*feed.Subscription, error) {
	args := m.Called(bookingID, h)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feed.Subscription), args.Error(1)
}
func (m *MockFeed) Close() error {
	args := m.Called()
	return args.Error(0)
}
