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

type serviceRepository struct {
	db *sql.DB
}

func NewServiceRepository(db *sql.DB) repository.ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	query := `SELECT id, category_id, name, COALESCE(description, ''), base_price, duration_minutes, COALESCE(image_url, ''), is_active, created_at
	          FROM services WHERE id = $1`
	s := &domain.Service{}
	var createdAt time.Time
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.CategoryID, &s.Name, &s.Description, &s.BasePrice, &s.DurationMinutes, &s.ImageURL, &s.IsActive, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.CreatedAt = createdAt.Format(time.RFC3339)
	return s, nil
}

func (r *serviceRepository) ListActive(ctx context.Context) ([]domain.Service, error) {
	query := `SELECT id, category_id, name, COALESCE(description, ''), base_price, duration_minutes, COALESCE(image_url, ''), is_active, created_at
	          FROM services WHERE is_active = true ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		var s domain.Service
		var createdAt time.Time
		if err := rows.Scan(&s.ID, &s.CategoryID, &s.Name, &s.Description, &s.BasePrice, &s.DurationMinutes, &s.ImageURL, &s.IsActive, &createdAt); err != nil {
			return nil, err
		}
		s.CreatedAt = createdAt.Format(time.RFC3339)
		services = append(services, s)
	}
	return services, rows.Err()
}

// ListActiveLinks returns active provider-service links in a stable order
// (earliest link first, provider id as tie-break) so assignment is
// reproducible against an unchanged link set.
func (r *serviceRepository) ListActiveLinks(ctx context.Context, serviceID string) ([]domain.ProviderService, error) {
	query := `SELECT id, provider_id, service_id, is_active, created_at
	          FROM provider_services WHERE service_id = $1 AND is_active = true
	          ORDER BY created_at, provider_id`
	rows, err := r.db.QueryContext(ctx, query, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []domain.ProviderService
	for rows.Next() {
		var l domain.ProviderService
		var createdAt time.Time
		if err := rows.Scan(&l.ID, &l.ProviderID, &l.ServiceID, &l.IsActive, &createdAt); err != nil {
			return nil, err
		}
		l.CreatedAt = createdAt.Format(time.RFC3339)
		links = append(links, l)
	}
	return links, rows.Err()
}

func (r *serviceRepository) CreateLink(ctx context.Context, link *domain.ProviderService) error {
	if link.ID == "" {
		link.ID = uuid.NewString()
	}
	query := `INSERT INTO provider_services (id, provider_id, service_id, is_active, created_at)
	          VALUES ($1, $2, $3, $4, $5)`
	now := time.Now()
	link.CreatedAt = now.Format(time.RFC3339)
	_, err := r.db.ExecContext(ctx, query, link.ID, link.ProviderID, link.ServiceID, link.IsActive, now)
	return err
}
