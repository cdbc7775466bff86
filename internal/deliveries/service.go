package deliveries

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateDeliveryRequest) (*DeliveryWithDetails, error) {
	d := Delivery{
		EquipmentID:        req.EquipmentID,
		OfficialNoteNumber: req.OfficialNoteNumber,
		InternalNoteNumber: req.InternalNoteNumber,
		Status:             StatusCompleted,
	}

	id, err := s.repo.Create(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("create delivery: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]DeliveryWithDetails, error) {
	return s.repo.List(ctx)
}
