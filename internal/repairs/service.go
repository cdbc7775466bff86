package repairs

import (
	"context"
	"fmt"

	"github.com/reparaciones-app/reparaciones/internal/billing"
	"github.com/reparaciones-app/reparaciones/internal/platform/httpx"
)

// Recalculator re-derives the billing amounts of a repair from its stored
// parts. Satisfied by billing.Service.
type Recalculator interface {
	Recalculate(ctx context.Context, repairID int64) (*billing.RecalcResult, error)
}

type Service struct {
	repo   Repository
	recalc Recalculator
}

func NewService(repo Repository, recalc Recalculator) *Service {
	return &Service{repo: repo, recalc: recalc}
}

func (s *Service) Create(ctx context.Context, req CreateRepairRequest) (*RepairDetail, error) {
	rep := Repair{
		EquipmentID:       req.EquipmentID,
		Electrician:       req.Electrician,
		SealNumber:        req.SealNumber,
		EstimatedDelivery: req.EstimatedDelivery,
		Status:            StatusReceived,
	}

	id, err := s.repo.Create(ctx, rep)
	if err != nil {
		return nil, fmt.Errorf("create repair: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRepairRequest) (*RepairDetail, error) {
	detail, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update repair: %w", err)
	}

	rep := detail.Repair
	if req.Electrician != nil {
		rep.Electrician = *req.Electrician
	}
	if req.SealNumber != nil {
		rep.SealNumber = req.SealNumber
	}
	if req.EstimatedDelivery != nil {
		rep.EstimatedDelivery = req.EstimatedDelivery
	}

	if err := s.repo.Update(ctx, rep); err != nil {
		return nil, fmt.Errorf("update repair: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// ChangeStatus validates the target status and applies it. Any valid status
// can follow any other; the shop floor reorders stages all the time and the
// history table keeps the audit trail honest.
func (s *Service) ChangeStatus(ctx context.Context, id int64, req ChangeStatusRequest) (*RepairDetail, error) {
	if !ValidStatus(req.Status) {
		return nil, fmt.Errorf("status %q: %w", req.Status, httpx.ErrValidation)
	}

	if _, err := s.repo.ChangeStatus(ctx, id, req.Status); err != nil {
		return nil, fmt.Errorf("change repair status: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Recalculate re-derives the valuation and quotation amounts of the repair.
// Returns nil when the repair has no valuation yet.
func (s *Service) Recalculate(ctx context.Context, id int64) (*billing.RecalcResult, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, fmt.Errorf("recalculate repair: %w", err)
	}
	return s.recalc.Recalculate(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*RepairDetail, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]RepairSummary, error) {
	return s.repo.List(ctx)
}

func (s *Service) History(ctx context.Context, id int64) ([]StatusChange, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, fmt.Errorf("repair history: %w", err)
	}
	return s.repo.History(ctx, id)
}
