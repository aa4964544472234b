package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/doctorsportal/portal-api/internal/model"
	"github.com/doctorsportal/portal-api/internal/repository"
	"github.com/doctorsportal/portal-api/pkg/auth"
)

type Service struct {
	repo     repository.UserRepository
	tokenSvc *auth.TokenService
}

func NewService(repo repository.UserRepository, tokenSvc *auth.TokenService) *Service {
	return &Service{
		repo:     repo,
		tokenSvc: tokenSvc,
	}
}

// Upsert writes the profile keyed by email and issues a fresh bearer token.
// This is the only token-issuance path; there is no refresh mechanism.
func (s *Service) Upsert(ctx context.Context, email string, req *model.UpsertUserRequest) (*model.UpsertUserResponse, error) {
	result, err := s.repo.Upsert(ctx, &model.User{
		Email: email,
		Name:  req.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	token, err := s.tokenSvc.Generate(email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &model.UpsertUserResponse{
		Result: result,
		Token:  token,
	}, nil
}

// IsAdmin reports whether the user holds the admin role. A missing user is an
// explicit negative, not a fault.
func (s *Service) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up user: %w", err)
	}
	return user.IsAdmin(), nil
}

func (s *Service) MakeAdmin(ctx context.Context, email string) (*repository.UpsertResult, error) {
	result, err := s.repo.SetRole(ctx, email, model.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to elevate user: %w", err)
	}
	return result, nil
}

func (s *Service) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.repo.GetByEmail(ctx, email)
}
