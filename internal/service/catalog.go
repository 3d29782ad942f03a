package service

import (
	"context"

	"fixo-backend/internal/domain"
	"fixo-backend/internal/repository"
)

type catalogService struct {
	serviceRepo repository.ServiceRepository
}

func NewCatalogService(serviceRepo repository.ServiceRepository) CatalogService {
	return &catalogService{serviceRepo: serviceRepo}
}

func (s *catalogService) ListServices(ctx context.Context) ([]domain.Service, error) {
	return s.serviceRepo.ListActive(ctx)
}

func (s *catalogService) GetService(ctx context.Context, id string) (*domain.Service, error) {
	return s.serviceRepo.GetByID(ctx, id)
}

// RegisterProviderService adds the caller to the candidate pool for a
// service. Provider role only.
func (s *catalogService) RegisterProviderService(ctx context.Context, actor domain.Actor, serviceID string) error {
	if actor.Role != domain.RoleProvider {
		return domain.ErrUnauthorized
	}
	if _, err := s.serviceRepo.GetByID(ctx, serviceID); err != nil {
		return err
	}
	link := &domain.ProviderService{
		ProviderID: actor.UserID,
		ServiceID:  serviceID,
		IsActive:   true,
	}
	return s.serviceRepo.CreateLink(ctx, link)
}
