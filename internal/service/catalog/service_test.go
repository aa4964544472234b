package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctorsportal/portal-api/internal/model"
)

type countingRepo struct {
	services  []model.Service
	listCalls int
}

func (r *countingRepo) List(context.Context) ([]model.Service, error) {
	r.listCalls++
	return r.services, nil
}

func (r *countingRepo) Create(_ context.Context, svc *model.Service) error {
	r.services = append(r.services, *svc)
	return nil
}

func (r *countingRepo) Delete(_ context.Context, id string) error {
	return nil
}

func TestListServicesCaches(t *testing.T) {
	repo := &countingRepo{services: []model.Service{{Name: "Fluoride"}}}
	s := NewService(repo, time.Minute)

	for i := 0; i < 3; i++ {
		services, err := s.ListServices(context.Background())
		require.NoError(t, err)
		assert.Len(t, services, 1)
	}
	assert.Equal(t, 1, repo.listCalls)
}

func TestCreateServiceInvalidatesCache(t *testing.T) {
	repo := &countingRepo{services: []model.Service{{Name: "Fluoride"}}}
	s := NewService(repo, time.Minute)

	_, err := s.ListServices(context.Background())
	require.NoError(t, err)

	_, err = s.CreateService(context.Background(), &model.CreateServiceRequest{
		Name:  "Whitening",
		Price: 300,
		Slots: []string{"8.00 AM - 9.00 AM"},
	})
	require.NoError(t, err)

	services, err := s.ListServices(context.Background())
	require.NoError(t, err)
	assert.Len(t, services, 2)
	assert.Equal(t, 2, repo.listCalls)
}

func TestDeleteServiceInvalidatesCache(t *testing.T) {
	repo := &countingRepo{services: []model.Service{{Name: "Fluoride"}}}
	s := NewService(repo, time.Minute)

	_, err := s.ListServices(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.DeleteService(context.Background(), "some-id"))

	_, err = s.ListServices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}
