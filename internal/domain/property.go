package domain

type PropertyBookingStatus string

const (
	PropertyBookingStatusPending   PropertyBookingStatus = "pending"
	PropertyBookingStatusConfirmed PropertyBookingStatus = "confirmed"
	PropertyBookingStatusCancelled PropertyBookingStatus = "cancelled"
	PropertyBookingStatusCompleted PropertyBookingStatus = "completed"
)

type PropertyPaymentStatus string

const (
	PropertyPaymentStatusPending  PropertyPaymentStatus = "pending"
	PropertyPaymentStatusPaid     PropertyPaymentStatus = "paid"
	PropertyPaymentStatusFailed   PropertyPaymentStatus = "failed"
	PropertyPaymentStatusRefunded PropertyPaymentStatus = "refunded"
)

// Property is a rentable listing owned by a user. The tracking and
// lifecycle logic only depends on its id, owner and pricing.
type Property struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"owner_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	MonthlyRent int64    `json:"monthly_rent"`
	Bedrooms    int32    `json:"bedrooms"`
	Bathrooms   int32    `json:"bathrooms"`
	IsAvailable bool     `json:"is_available"`
	Images      []string `json:"images,omitempty"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// PropertyBooking is a tenant's rental request against a Property.
// TotalAmount is monthly_rent times the rounded-up number of 30-day
// months between the dates, minimum one month.
type PropertyBooking struct {
	ID            string                `json:"id"`
	PropertyID    string                `json:"property_id"`
	TenantID      string                `json:"tenant_id"`
	StartDate     string                `json:"start_date"`
	EndDate       string                `json:"end_date"`
	MonthlyRent   int64                 `json:"monthly_rent"`
	TotalAmount   int64                 `json:"total_amount"`
	Status        PropertyBookingStatus `json:"status"`
	PaymentStatus PropertyPaymentStatus `json:"payment_status"`
	PaymentID     *string               `json:"payment_id,omitempty"`
	TenantNotes   string                `json:"tenant_notes"`
	OwnerNotes    string                `json:"owner_notes"`
	CreatedAt     string                `json:"created_at"`
	UpdatedAt     string                `json:"updated_at"`
}
