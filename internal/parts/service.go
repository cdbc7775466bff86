package parts

import (
	"context"
	"fmt"

	"github.com/reparaciones-app/reparaciones/internal/billing"
)

// Recalculator re-derives the valuation and quotation amounts of a repair.
// Satisfied by billing.Service.
type Recalculator interface {
	Recalculate(ctx context.Context, repairID int64) (*billing.RecalcResult, error)
}

// Service mutates part rows and keeps the dependent billing records in step:
// every create, update and delete ends with a recalculation of the owning
// repair's valuation.
type Service struct {
	repo   Repository
	recalc Recalculator
}

func NewService(repo Repository, recalc Recalculator) *Service {
	return &Service{repo: repo, recalc: recalc}
}

// Create persists a new part row with its computed subtotal and triggers a
// recalculation. Before a valuation exists the trigger is a designed no-op,
// afterwards it keeps the valuation honest for any observer.
func (s *Service) Create(ctx context.Context, req CreatePartRequest) (*Part, error) {
	p := Part{
		RepairID:    req.RepairID,
		Code:        req.Code,
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   *req.UnitPrice,
		Subtotal:    billing.RoundCents(float64(req.Quantity) * *req.UnitPrice),
	}

	id, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create part: %w", err)
	}

	if _, err := s.recalc.Recalculate(ctx, p.RepairID); err != nil {
		return nil, fmt.Errorf("create part: %w", err)
	}

	return s.repo.Get(ctx, id)
}

// Update applies a partial update, recomputes the subtotal from the resulting
// quantity/unit-price pair and recalculates the owning repair.
func (s *Service) Update(ctx context.Context, id int64, req UpdatePartRequest) (*Part, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update part: %w", err)
	}

	if req.Code != nil {
		existing.Code = *req.Code
	}
	if req.Description != nil {
		existing.Description = req.Description
	}
	if req.Quantity != nil {
		existing.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		existing.UnitPrice = *req.UnitPrice
	}
	existing.Subtotal = billing.RoundCents(float64(existing.Quantity) * existing.UnitPrice)

	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, fmt.Errorf("update part: %w", err)
	}

	if _, err := s.recalc.Recalculate(ctx, existing.RepairID); err != nil {
		return nil, fmt.Errorf("update part: %w", err)
	}

	return s.repo.Get(ctx, id)
}

// Delete removes a part row. The owning repair id is captured before the
// delete because the recalculation needs it afterwards.
func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("delete part: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete part: %w", err)
	}

	if _, err := s.recalc.Recalculate(ctx, existing.RepairID); err != nil {
		return fmt.Errorf("delete part: %w", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Part, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByRepair(ctx context.Context, repairID int64) ([]Part, error) {
	return s.repo.ListByRepair(ctx, repairID)
}
