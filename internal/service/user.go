package service

import (
	"context"

	"fixo-backend/internal/domain"
	"fixo-backend/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, name, phone, avatarURL string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if name != "" {
		user.FullName = name
	}
	if phone != "" {
		user.PhoneNumber = phone
	}
	if avatarURL != "" {
		user.AvatarURL = avatarURL
	}
	return s.userRepo.Update(ctx, user)
}
