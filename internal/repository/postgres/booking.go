package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fixo-backend/internal/domain"
	"fixo-backend/internal/repository"

	"github.com/google/uuid"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, customer_id, provider_id, service_id, booking_date, booking_time,
	COALESCE(customer_address, ''), COALESCE(customer_notes, ''), COALESCE(provider_notes, ''),
	total_amount, status, payment_status, payment_id, created_at, updated_at`

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	query := `INSERT INTO bookings (id, customer_id, provider_id, service_id, booking_date, booking_time, customer_address, customer_notes, total_amount, status, payment_status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	now := time.Now()
	b.CreatedAt = now.Format(time.RFC3339)
	b.UpdatedAt = b.CreatedAt
	_, err := r.db.ExecContext(ctx, query, b.ID, b.CustomerID, b.ProviderID, b.ServiceID, b.BookingDate, b.BookingTime, b.CustomerAddress, b.CustomerNotes, b.TotalAmount, b.Status, b.PaymentStatus, now, now)
	return err
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *bookingRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE payment_id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, paymentID))
}

func (r *bookingRepository) scanOne(row *sql.Row) (*domain.Booking, error) {
	b := &domain.Booking{}
	var createdAt, updatedAt time.Time
	err := row.Scan(&b.ID, &b.CustomerID, &b.ProviderID, &b.ServiceID, &b.BookingDate, &b.BookingTime,
		&b.CustomerAddress, &b.CustomerNotes, &b.ProviderNotes,
		&b.TotalAmount, &b.Status, &b.PaymentStatus, &b.PaymentID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	b.CreatedAt = createdAt.Format(time.RFC3339)
	b.UpdatedAt = updatedAt.Format(time.RFC3339)
	return b, nil
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings SET customer_notes=$1, provider_notes=$2, payment_id=$3, updated_at=$4 WHERE id=$5`
	_, err := r.db.ExecContext(ctx, query, b.CustomerNotes, b.ProviderNotes, b.PaymentID, time.Now(), b.ID)
	return err
}

// UpdateStatus writes the new status only while the row still holds the
// expected current status, so two racing transitions cannot both apply.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error {
	query := `UPDATE bookings SET status=$1, updated_at=$2 WHERE id=$3 AND status=$4`
	res, err := r.db.ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *bookingRepository) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	query := `UPDATE bookings SET payment_status=$1, updated_at=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	return err
}

// AssignProvider fills provider_id only while it is still null.
func (r *bookingRepository) AssignProvider(ctx context.Context, id, providerID string) error {
	query := `UPDATE bookings SET provider_id=$1, updated_at=$2 WHERE id=$3 AND provider_id IS NULL`
	res, err := r.db.ExecContext(ctx, query, providerID, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrAlreadyAssigned
	}
	return nil
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE customer_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, customerID)
}

func (r *bookingRepository) ListByProvider(ctx context.Context, providerID string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE provider_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, providerID)
}

func (r *bookingRepository) ListUnassigned(ctx context.Context) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE provider_id IS NULL AND status = 'pending' ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *bookingRepository) ListByDate(ctx context.Context, date string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_date = $1 AND status IN ('pending', 'confirmed') ORDER BY booking_time`
	return r.list(ctx, query, date)
}

func (r *bookingRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&b.ID, &b.CustomerID, &b.ProviderID, &b.ServiceID, &b.BookingDate, &b.BookingTime,
			&b.CustomerAddress, &b.CustomerNotes, &b.ProviderNotes,
			&b.TotalAmount, &b.Status, &b.PaymentStatus, &b.PaymentID, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		b.CreatedAt = createdAt.Format(time.RFC3339)
		b.UpdatedAt = updatedAt.Format(time.RFC3339)
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
