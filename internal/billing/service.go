package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/reparaciones-app/reparaciones/internal/platform/httpx"
)

// Service owns the derived monetary fields on valuations and quotations.
// Recalculate is the single write path for parts_cost, subtotal,
// original_amount and final_amount after creation.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Recalculate re-derives the valuation of a repair from the currently
// persisted part rows and, when a quotation exists, propagates the new
// subtotal into its amounts. A repair without a valuation is a valid state:
// the call is a no-op and returns (nil, nil).
//
// Both row updates happen inside one transaction so a storage failure can
// never leave the valuation and quotation disagreeing.
func (s *Service) Recalculate(ctx context.Context, repairID int64) (*RecalcResult, error) {
	partsCost, err := s.repo.SumPartsCost(ctx, repairID)
	if err != nil {
		return nil, fmt.Errorf("recalculate repair %d: %w", repairID, err)
	}
	partsCost = RoundCents(partsCost)

	valuation, err := s.repo.GetValuationByRepair(ctx, repairID)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			// Parts may exist before any valuation does. Nothing to recompute.
			return nil, nil
		}
		return nil, fmt.Errorf("recalculate repair %d: %w", repairID, err)
	}

	newSubtotal := RoundCents(partsCost + valuation.LaborAmount)

	var quotation *Quotation
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.UpdateValuationAmounts(ctx, valuation.ID, partsCost, newSubtotal); err != nil {
			return fmt.Errorf("update valuation %d: %w", valuation.ID, err)
		}

		q, err := repo.GetQuotationByValuation(ctx, valuation.ID)
		if err != nil {
			if errors.Is(err, httpx.ErrNotFound) {
				return nil
			}
			return err
		}

		finalAmount := RoundCents(newSubtotal + q.ManualAdjustment)
		if err := repo.UpdateQuotationAmounts(ctx, q.ID, newSubtotal, finalAmount); err != nil {
			return fmt.Errorf("update quotation %d: %w", q.ID, err)
		}
		q.OriginalAmount = newSubtotal
		q.FinalAmount = finalAmount
		quotation = q
		return nil
	})
	if err != nil {
		return nil, err
	}

	valuation.PartsCost = partsCost
	valuation.Subtotal = newSubtotal
	return &RecalcResult{Valuation: valuation, Quotation: quotation}, nil
}

// CreateValuation locks in the cost breakdown for a repair from the current
// part rows plus the entered labor amount. At most one valuation may exist
// per repair; the unique constraint surfaces a second attempt as a conflict.
func (s *Service) CreateValuation(ctx context.Context, req CreateValuationRequest) (*Valuation, error) {
	partsCost, err := s.repo.SumPartsCost(ctx, req.RepairID)
	if err != nil {
		return nil, fmt.Errorf("create valuation: %w", err)
	}
	partsCost = RoundCents(partsCost)

	v := Valuation{
		RepairID:      req.RepairID,
		PartsCost:     partsCost,
		LaborAssignee: req.LaborAssignee,
		LaborAmount:   req.LaborAmount,
		Subtotal:      RoundCents(partsCost + req.LaborAmount),
		InvoiceNumber: req.InvoiceNumber,
	}

	id, err := s.repo.CreateValuation(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("create valuation: %w", err)
	}
	return s.repo.GetValuation(ctx, id)
}

// CreateQuotation seeds a quotation from the valuation's current subtotal.
// The adjustment defaults to zero and stays under staff control afterwards.
func (s *Service) CreateQuotation(ctx context.Context, req CreateQuotationRequest) (*Quotation, error) {
	valuation, err := s.repo.GetValuation(ctx, req.ValuationID)
	if err != nil {
		return nil, fmt.Errorf("create quotation: %w", err)
	}

	q := Quotation{
		ValuationID:      valuation.ID,
		OriginalAmount:   valuation.Subtotal,
		ManualAdjustment: req.ManualAdjustment,
		FinalAmount:      RoundCents(valuation.Subtotal + req.ManualAdjustment),
		Status:           QuotationStatusPendiente,
	}

	id, err := s.repo.CreateQuotation(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("create quotation: %w", err)
	}
	return s.repo.GetQuotation(ctx, id)
}

// UpdateAdjustment changes the manual adjustment on a quotation. The stored
// original amount is read as-is, never recomputed here; only the adjustment
// and the final amount move.
func (s *Service) UpdateAdjustment(ctx context.Context, quotationID int64, adjustment float64) (*Quotation, error) {
	q, err := s.repo.GetQuotation(ctx, quotationID)
	if err != nil {
		return nil, fmt.Errorf("update adjustment: %w", err)
	}

	finalAmount := RoundCents(q.OriginalAmount + adjustment)
	if err := s.repo.UpdateQuotationAdjustment(ctx, q.ID, adjustment, finalAmount); err != nil {
		return nil, fmt.Errorf("update adjustment: %w", err)
	}
	return s.repo.GetQuotation(ctx, q.ID)
}

// UpdateQuotationStatus moves a quotation through its lifecycle. Any known
// status may follow any other; COMPLETADA drops it from the default listing.
func (s *Service) UpdateQuotationStatus(ctx context.Context, quotationID int64, status QuotationStatus) (*Quotation, error) {
	if !ValidQuotationStatus(status) {
		return nil, fmt.Errorf("quotation status %q: %w", status, httpx.ErrValidation)
	}
	if _, err := s.repo.GetQuotation(ctx, quotationID); err != nil {
		return nil, fmt.Errorf("update quotation status: %w", err)
	}
	if err := s.repo.UpdateQuotationStatus(ctx, quotationID, status); err != nil {
		return nil, fmt.Errorf("update quotation status: %w", err)
	}
	return s.repo.GetQuotation(ctx, quotationID)
}

func (s *Service) GetValuation(ctx context.Context, id int64) (*Valuation, error) {
	return s.repo.GetValuation(ctx, id)
}

func (s *Service) ListValuations(ctx context.Context) ([]ValuationWithDetails, error) {
	return s.repo.ListValuations(ctx)
}

func (s *Service) GetQuotation(ctx context.Context, id int64) (*Quotation, error) {
	return s.repo.GetQuotation(ctx, id)
}

func (s *Service) ListQuotations(ctx context.Context, req ListQuotationsRequest) ([]QuotationWithDetails, error) {
	return s.repo.ListQuotations(ctx, req)
}
