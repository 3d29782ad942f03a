package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fixo-backend/internal/domain"
	"fixo-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type propertyRepository struct {
	db *sql.DB
}

func NewPropertyRepository(db *sql.DB) repository.PropertyRepository {
	return &propertyRepository{db: db}
}

const propertyColumns = `id, owner_id, title, COALESCE(description, ''), address, monthly_rent,
	bedrooms, bathrooms, is_available, images, created_at, updated_at`

func (r *propertyRepository) Create(ctx context.Context, p *domain.Property) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt = now.Format(time.RFC3339)
	p.UpdatedAt = p.CreatedAt
	query := `INSERT INTO properties (id, owner_id, title, description, address, monthly_rent, bedrooms, bathrooms, is_available, images, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.OwnerID, p.Title, p.Description, p.Address, p.MonthlyRent, p.Bedrooms, p.Bathrooms, p.IsAvailable, pq.Array(p.Images), now, now)
	return err
}

func (r *propertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	p := &domain.Property{}
	var createdAt, updatedAt time.Time
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Address,
		&p.MonthlyRent, &p.Bedrooms, &p.Bathrooms, &p.IsAvailable, pq.Array(&p.Images), &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt = createdAt.Format(time.RFC3339)
	p.UpdatedAt = updatedAt.Format(time.RFC3339)
	return p, nil
}

func (r *propertyRepository) Update(ctx context.Context, p *domain.Property) error {
	query := `UPDATE properties SET title=$1, description=$2, address=$3, monthly_rent=$4, bedrooms=$5, bathrooms=$6, is_available=$7, images=$8, updated_at=$9 WHERE id=$10`
	_, err := r.db.ExecContext(ctx, query, p.Title, p.Description, p.Address, p.MonthlyRent, p.Bedrooms, p.Bathrooms, p.IsAvailable, pq.Array(p.Images), time.Now(), p.ID)
	return err
}

func (r *propertyRepository) ListAvailable(ctx context.Context) ([]domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE is_available = true ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *propertyRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE owner_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, ownerID)
}

func (r *propertyRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Property, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []domain.Property
	for rows.Next() {
		var p domain.Property
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Address,
			&p.MonthlyRent, &p.Bedrooms, &p.Bathrooms, &p.IsAvailable, pq.Array(&p.Images), &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt = createdAt.Format(time.RFC3339)
		p.UpdatedAt = updatedAt.Format(time.RFC3339)
		properties = append(properties, p)
	}
	return properties, rows.Err()
}
