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

type propertyBookingRepository struct {
	db *sql.DB
}

func NewPropertyBookingRepository(db *sql.DB) repository.PropertyBookingRepository {
	return &propertyBookingRepository{db: db}
}

const propertyBookingColumns = `id, property_id, tenant_id, start_date, end_date, monthly_rent, total_amount,
	status, payment_status, payment_id, COALESCE(tenant_notes, ''), COALESCE(owner_notes, ''), created_at, updated_at`

func (r *propertyBookingRepository) Create(ctx context.Context, b *domain.PropertyBooking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now()
	b.CreatedAt = now.Format(time.RFC3339)
	b.UpdatedAt = b.CreatedAt
	query := `INSERT INTO property_bookings (id, property_id, tenant_id, start_date, end_date, monthly_rent, total_amount, status, payment_status, tenant_notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.ExecContext(ctx, query, b.ID, b.PropertyID, b.TenantID, b.StartDate, b.EndDate, b.MonthlyRent, b.TotalAmount, b.Status, b.PaymentStatus, b.TenantNotes, now, now)
	return err
}

func (r *propertyBookingRepository) GetByID(ctx context.Context, id string) (*domain.PropertyBooking, error) {
	query := `SELECT ` + propertyBookingColumns + ` FROM property_bookings WHERE id = $1`
	b := &domain.PropertyBooking{}
	var createdAt, updatedAt time.Time
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.PropertyID, &b.TenantID, &b.StartDate, &b.EndDate,
		&b.MonthlyRent, &b.TotalAmount, &b.Status, &b.PaymentStatus, &b.PaymentID, &b.TenantNotes, &b.OwnerNotes,
		&createdAt, &updatedAt)
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

func (r *propertyBookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.PropertyBookingStatus) error {
	query := `UPDATE property_bookings SET status=$1, updated_at=$2 WHERE id=$3 AND status=$4`
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

func (r *propertyBookingRepository) UpdatePaymentStatus(ctx context.Context, id string, status domain.PropertyPaymentStatus) error {
	query := `UPDATE property_bookings SET payment_status=$1, updated_at=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	return err
}

func (r *propertyBookingRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.PropertyBooking, error) {
	query := `SELECT ` + propertyBookingColumns + ` FROM property_bookings WHERE tenant_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, tenantID)
}

func (r *propertyBookingRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.PropertyBooking, error) {
	query := `SELECT pb.id, pb.property_id, pb.tenant_id, pb.start_date, pb.end_date, pb.monthly_rent, pb.total_amount,
	          pb.status, pb.payment_status, pb.payment_id, COALESCE(pb.tenant_notes, ''), COALESCE(pb.owner_notes, ''), pb.created_at, pb.updated_at
	          FROM property_bookings pb
	          JOIN properties p ON p.id = pb.property_id
	          WHERE p.owner_id = $1 ORDER BY pb.created_at DESC`
	return r.list(ctx, query, ownerID)
}

func (r *propertyBookingRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.PropertyBooking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.PropertyBooking
	for rows.Next() {
		var b domain.PropertyBooking
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&b.ID, &b.PropertyID, &b.TenantID, &b.StartDate, &b.EndDate,
			&b.MonthlyRent, &b.TotalAmount, &b.Status, &b.PaymentStatus, &b.PaymentID, &b.TenantNotes, &b.OwnerNotes,
			&createdAt, &updatedAt); err != nil {
			return nil, err
		}
		b.CreatedAt = createdAt.Format(time.RFC3339)
		b.UpdatedAt = updatedAt.Format(time.RFC3339)
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
