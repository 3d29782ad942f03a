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

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	query := `INSERT INTO users (id, email, phone_number, password_hash, full_name, avatar_url, role, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	now := time.Now()
	u.CreatedAt = now.Format(time.RFC3339)
	u.UpdatedAt = u.CreatedAt
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Email, u.PhoneNumber, u.PasswordHash, u.FullName, u.AvatarURL, u.Role, now, now)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT id, email, phone_number, password_hash, full_name, COALESCE(avatar_url, ''), role, created_at, updated_at FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email, phone_number, password_hash, full_name, COALESCE(avatar_url, ''), role, created_at, updated_at FROM users WHERE LOWER(email) = LOWER($1)`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) scanOne(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	var createdAt, updatedAt time.Time
	err := row.Scan(&u.ID, &u.Email, &u.PhoneNumber, &u.PasswordHash, &u.FullName, &u.AvatarURL, &u.Role, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = createdAt.Format(time.RFC3339)
	u.UpdatedAt = updatedAt.Format(time.RFC3339)
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET email=$1, phone_number=$2, full_name=$3, avatar_url=$4, updated_at=$5 WHERE id=$6`
	now := time.Now()
	u.UpdatedAt = now.Format(time.RFC3339)
	_, err := r.db.ExecContext(ctx, query, u.Email, u.PhoneNumber, u.FullName, u.AvatarURL, now, u.ID)
	return err
}
