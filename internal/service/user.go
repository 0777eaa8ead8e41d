package service

import (
	"context"
	"errors"

	"github.com/nexaboard/nexaboard-go/internal/model"
	"github.com/nexaboard/nexaboard-go/internal/repository"
)

// UserService lists user profiles.
type UserService struct {
	repo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// List returns every user's profile.
func (s *UserService) List(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

// Get returns one user's profile.
func (s *UserService) Get(ctx context.Context, id string) (model.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}
	return model.NewUserResponse(user), nil
}

// Managers returns the users who can own projects: managers and admins.
func (s *UserService) Managers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.repo.ListByRoles(ctx, model.RoleManager, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

func toUserResponses(users []model.User) []model.UserResponse {
	out := make([]model.UserResponse, len(users))
	for i := range users {
		out[i] = model.NewUserResponse(&users[i])
	}
	return out
}
