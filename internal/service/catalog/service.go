package catalog

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/doctorsportal/portal-api/internal/model"
	"github.com/doctorsportal/portal-api/internal/repository"
)

const cacheKeyServices = "services"

// Service is the treatment-service directory. The catalog changes rarely and
// is read on every availability request, so the list is cached with a short
// TTL and invalidated on writes.
type Service struct {
	repo  repository.ServiceRepository
	cache *gocache.Cache
}

func NewService(repo repository.ServiceRepository, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &Service{
		repo:  repo,
		cache: gocache.New(cacheTTL, 2*cacheTTL),
	}
}

func (s *Service) ListServices(ctx context.Context) ([]model.Service, error) {
	if cached, ok := s.cache.Get(cacheKeyServices); ok {
		return cached.([]model.Service), nil
	}

	services, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	s.cache.SetDefault(cacheKeyServices, services)
	return services, nil
}

func (s *Service) CreateService(ctx context.Context, req *model.CreateServiceRequest) (*model.Service, error) {
	svc := &model.Service{
		Name:  req.Name,
		Price: req.Price,
		Slots: req.Slots,
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, err
	}

	s.cache.Delete(cacheKeyServices)
	return svc, nil
}

func (s *Service) DeleteService(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Delete(cacheKeyServices)
	return nil
}
