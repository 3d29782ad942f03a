package service

import (
	"context"
	"errors"

	"fixo-backend/internal/domain"
	"fixo-backend/internal/repository"
)

var ErrPropertyUnavailable = errors.New("property is not available")

type propertyService struct {
	propertyRepo repository.PropertyRepository
}

func NewPropertyService(propertyRepo repository.PropertyRepository) PropertyService {
	return &propertyService{propertyRepo: propertyRepo}
}

func (s *propertyService) CreateProperty(ctx context.Context, actor domain.Actor, p *domain.Property) (*domain.Property, error) {
	if p.Title == "" || p.MonthlyRent <= 0 {
		return nil, errors.New("property requires a title and a positive monthly rent")
	}
	p.OwnerID = actor.UserID
	p.IsAvailable = true
	if err := s.propertyRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *propertyService) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	return s.propertyRepo.GetByID(ctx, id)
}

func (s *propertyService) ListAvailable(ctx context.Context) ([]domain.Property, error) {
	return s.propertyRepo.ListAvailable(ctx)
}

func (s *propertyService) ListByOwner(ctx context.Context, actor domain.Actor) ([]domain.Property, error) {
	return s.propertyRepo.ListByOwner(ctx, actor.UserID)
}

// AddImage appends a listing photo URL. Owner only.
func (s *propertyService) AddImage(ctx context.Context, actor domain.Actor, propertyID, url string) error {
	prop, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && prop.OwnerID != actor.UserID {
		return domain.ErrUnauthorized
	}
	prop.Images = append(prop.Images, url)
	return s.propertyRepo.Update(ctx, prop)
}
