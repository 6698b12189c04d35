package service

import (
	"context"
	"fmt"

	"kinoteka/internal/errors"
	"kinoteka/internal/models"
)

// UserService exposes the user catalog reads the boundary needs: ticket
// actors are referenced by id, nothing more.
type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, errors.NewNotFound("User not found")
	}
	return user, nil
}
