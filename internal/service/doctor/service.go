package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/doctorsportal/portal-api/internal/model"
	"github.com/doctorsportal/portal-api/internal/repository"
	apperrors "github.com/doctorsportal/portal-api/pkg/errors"
)

type Service struct {
	repo repository.DoctorRepository
}

func NewService(repo repository.DoctorRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]model.Doctor, error) {
	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (s *Service) Create(ctx context.Context, doctor *model.Doctor) error {
	if err := s.repo.Create(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperrors.BadRequest("doctor already exists", err)
		}
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, email string) error {
	if err := s.repo.DeleteByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("doctor", err)
		}
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	return nil
}
