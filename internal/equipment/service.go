package equipment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// newTrackingCode derives a short public code from a fresh UUID. Eight hex
// characters is enough to keep collisions out of a single shop's lifetime;
// the unique constraint on the column backs it up.
func newTrackingCode() string {
	id := uuid.New()
	return "EQ-" + strings.ToUpper(id.String()[:8])
}

func (s *Service) Create(ctx context.Context, req CreateEquipmentRequest) (*EquipmentWithClient, error) {
	e := Equipment{
		ClientID:        req.ClientID,
		Description:     req.Description,
		EquipmentNumber: req.EquipmentNumber,
		TrackingCode:    newTrackingCode(),
		Status:          StatusReceived,
	}

	id, err := s.repo.Create(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("create equipment: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateEquipmentRequest) (*EquipmentWithClient, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update equipment: %w", err)
	}

	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.EquipmentNumber != nil {
		existing.EquipmentNumber = req.EquipmentNumber
	}

	if err := s.repo.Update(ctx, existing.Equipment); err != nil {
		return nil, fmt.Errorf("update equipment: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*EquipmentWithClient, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]EquipmentWithClient, error) {
	return s.repo.List(ctx)
}
