package availability

import (
	"context"
	"fmt"

	"github.com/doctorsportal/portal-api/internal/model"
	"github.com/doctorsportal/portal-api/internal/repository"
)

// Catalog supplies the full service list. Satisfied by the catalog service so
// availability rides its cache.
type Catalog interface {
	ListServices(ctx context.Context) ([]model.Service, error)
}

type Service struct {
	catalog     Catalog
	bookingRepo repository.BookingRepository
}

func NewService(catalog Catalog, bookingRepo repository.BookingRepository) *Service {
	return &Service{
		catalog:     catalog,
		bookingRepo: bookingRepo,
	}
}

// ForDate returns every service with its slot catalog reduced to the slots
// not yet booked on the given date. The date is an opaque string key,
// compared by equality only.
func (s *Service) ForDate(ctx context.Context, date string) ([]model.Service, error) {
	services, err := s.catalog.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	bookings, err := s.bookingRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return Annotate(services, bookings), nil
}

// Annotate replaces each service's slot catalog with the subsequence of slots
// not consumed by a booking for that service, preserving catalog order.
// Services without bookings come back unchanged; bookings referencing an
// unknown treatment are ignored. Pure function, no I/O.
func Annotate(services []model.Service, bookings []model.Booking) []model.Service {
	booked := make(map[string]map[string]bool, len(services))
	for _, b := range bookings {
		slots, ok := booked[b.Treatment]
		if !ok {
			slots = make(map[string]bool)
			booked[b.Treatment] = slots
		}
		slots[b.Slot] = true
	}

	out := make([]model.Service, len(services))
	for i, svc := range services {
		out[i] = svc
		taken := booked[svc.Name]
		if len(taken) == 0 {
			continue
		}

		remaining := make([]string, 0, len(svc.Slots))
		for _, slot := range svc.Slots {
			if !taken[slot] {
				remaining = append(remaining, slot)
			}
		}
		out[i].Slots = remaining
	}
	return out
}
