package doctor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	doctors Repository
}

func NewService(doctors Repository) *Service {
	return &Service{doctors: doctors}
}

func (s *Service) Create(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Specialization == "" {
		return fmt.Errorf("specialization is required")
	}
	if d.Hospital == "" {
		return fmt.Errorf("hospital is required")
	}
	if d.City == "" {
		return fmt.Errorf("city is required")
	}
	if len(d.MorningSlots)+len(d.AfternoonSlots)+len(d.EveningSlots) == 0 {
		return fmt.Errorf("at least one slot is required")
	}
	return s.doctors.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) Directory(ctx context.Context, filter Filter, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, filter, limit, offset)
}

func (s *Service) Facets(ctx context.Context) (*Facets, error) {
	return s.doctors.Facets(ctx)
}
