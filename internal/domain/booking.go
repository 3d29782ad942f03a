package domain

type BookingStatus string

const (
	BookingStatusPending        BookingStatus = "pending"
	BookingStatusConfirmed      BookingStatus = "confirmed"
	BookingStatusInProgress     BookingStatus = "in_progress"
	BookingStatusCompleted      BookingStatus = "completed"
	BookingStatusCancelled      BookingStatus = "cancelled"
	BookingStatusPaymentPending BookingStatus = "payment_pending"
)

type PaymentStatus string

const (
	PaymentStatusPending         PaymentStatus = "pending"
	PaymentStatusProcessing      PaymentStatus = "processing"
	PaymentStatusPaid            PaymentStatus = "paid"
	PaymentStatusFailed          PaymentStatus = "failed"
	PaymentStatusPayAfterService PaymentStatus = "pay_after_service"
)

// IsTerminal reports whether no further status transition is allowed.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// Booking is a service booking placed by a customer against the service
// catalog. ProviderID stays nil until a provider is assigned, either
// automatically at creation time or manually by an admin.
type Booking struct {
	ID              string        `json:"id"`
	CustomerID      string        `json:"customer_id"`
	ProviderID      *string       `json:"provider_id,omitempty"`
	ServiceID       string        `json:"service_id"`
	BookingDate     string        `json:"booking_date"`
	BookingTime     string        `json:"booking_time"`
	CustomerAddress string        `json:"customer_address"`
	CustomerNotes   string        `json:"customer_notes"`
	ProviderNotes   string        `json:"provider_notes"`
	TotalAmount     int64         `json:"total_amount"`
	Status          BookingStatus `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	PaymentID       *string       `json:"payment_id,omitempty"`
	CreatedAt       string        `json:"created_at"`
	UpdatedAt       string        `json:"updated_at"`
}

// Assigned reports whether a provider has been resolved for the booking.
func (b *Booking) Assigned() bool {
	return b.ProviderID != nil && *b.ProviderID != ""
}
