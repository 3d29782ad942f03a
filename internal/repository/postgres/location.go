package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fixo-backend/internal/domain"
	"fixo-backend/internal/repository"

	"github.com/google/uuid"
)

type locationRepository struct {
	db *sql.DB
}

func NewLocationRepository(db *sql.DB) repository.LocationRepository {
	return &locationRepository{db: db}
}

const locationColumns = `id, provider_id, booking_id, latitude, longitude, accuracy, heading, speed, is_active, created_at, updated_at`

// Upsert is a last-writer-wins replace on the (provider_id, booking_id)
// key: there is no sequence or timestamp comparison, so a delayed write
// can land over a fresher one. Matches the wire behavior viewers expect.
func (r *locationRepository) Upsert(ctx context.Context, loc *domain.ProviderLocation) error {
	if loc.ID == "" {
		loc.ID = uuid.NewString()
	}
	now := time.Now()
	loc.UpdatedAt = now
	query := `INSERT INTO provider_locations (id, provider_id, booking_id, latitude, longitude, accuracy, heading, speed, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, $9, $10)
	          ON CONFLICT (provider_id, booking_id) DO UPDATE SET
	              latitude = EXCLUDED.latitude,
	              longitude = EXCLUDED.longitude,
	              accuracy = EXCLUDED.accuracy,
	              heading = EXCLUDED.heading,
	              speed = EXCLUDED.speed,
	              is_active = true,
	              updated_at = EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, query, loc.ID, loc.ProviderID, loc.BookingID, loc.Latitude, loc.Longitude, loc.Accuracy, loc.Heading, loc.Speed, now, now)
	if err != nil {
		return fmt.Errorf("upsert provider location: %w", err)
	}
	loc.IsActive = true
	return nil
}

func (r *locationRepository) Deactivate(ctx context.Context, providerID, bookingID string) error {
	query := `UPDATE provider_locations SET is_active = false, updated_at = $1 WHERE provider_id = $2 AND booking_id = $3`
	_, err := r.db.ExecContext(ctx, query, time.Now(), providerID, bookingID)
	return err
}

// GetActive tolerates an invariant violation (more than one active row
// for a booking) by returning the newest.
func (r *locationRepository) GetActive(ctx context.Context, bookingID string) (*domain.ProviderLocation, error) {
	query := `SELECT ` + locationColumns + ` FROM provider_locations
	          WHERE booking_id = $1 AND is_active = true
	          ORDER BY created_at DESC LIMIT 1`
	loc := &domain.ProviderLocation{}
	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(
		&loc.ID, &loc.ProviderID, &loc.BookingID, &loc.Latitude, &loc.Longitude,
		&loc.Accuracy, &loc.Heading, &loc.Speed, &loc.IsActive, &loc.CreatedAt, &loc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return loc, nil
}

func (r *locationRepository) DeactivateStale(ctx context.Context, cutoffMinutes int) ([]domain.ProviderLocation, error) {
	query := `UPDATE provider_locations
	          SET is_active = false, updated_at = NOW()
	          WHERE is_active = true AND updated_at < NOW() - $1 * INTERVAL '1 minute'
	          RETURNING ` + locationColumns
	rows, err := r.db.QueryContext(ctx, query, cutoffMinutes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stale []domain.ProviderLocation
	for rows.Next() {
		var loc domain.ProviderLocation
		if err := rows.Scan(&loc.ID, &loc.ProviderID, &loc.BookingID, &loc.Latitude, &loc.Longitude,
			&loc.Accuracy, &loc.Heading, &loc.Speed, &loc.IsActive, &loc.CreatedAt, &loc.UpdatedAt); err != nil {
			return nil, err
		}
		stale = append(stale, loc)
	}
	return stale, rows.Err()
}
