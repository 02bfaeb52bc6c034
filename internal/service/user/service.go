package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/staffsync-hq/staffsync-backend-go/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	userRepo user.UserRepository
}

func NewUserService(userRepo user.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

func (s *Service) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.userRepo.Create(ctx, user.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         user.Role(req.Role),
		IsActive:     true,
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	return user.ToResponse(created), nil
}

func (s *Service) List(ctx context.Context) ([]user.UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.ToResponse(u))
	}
	return responses, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	return s.userRepo.SetActive(ctx, id, false)
}
