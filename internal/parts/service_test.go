package parts

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reparaciones-app/reparaciones/internal/billing"
	"github.com/reparaciones-app/reparaciones/internal/platform/httpx"
)

// mockPartsRepo keeps part rows in memory.
type mockPartsRepo struct {
	parts  map[int64]Part
	nextID int64
}

func newMockPartsRepo() *mockPartsRepo {
	return &mockPartsRepo{parts: map[int64]Part{}, nextID: 1}
}

func (m *mockPartsRepo) Get(_ context.Context, id int64) (*Part, error) {
	p, ok := m.parts[id]
	if !ok {
		return nil, fmt.Errorf("part %d: %w", id, httpx.ErrNotFound)
	}
	return &p, nil
}

func (m *mockPartsRepo) ListByRepair(_ context.Context, repairID int64) ([]Part, error) {
	var out []Part
	for _, p := range m.parts {
		if p.RepairID == repairID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPartsRepo) Create(_ context.Context, p Part) (int64, error) {
	p.ID = m.nextID
	m.nextID++
	m.parts[p.ID] = p
	return p.ID, nil
}

func (m *mockPartsRepo) Update(_ context.Context, p Part) error {
	if _, ok := m.parts[p.ID]; !ok {
		return fmt.Errorf("part %d: %w", p.ID, httpx.ErrNotFound)
	}
	m.parts[p.ID] = p
	return nil
}

func (m *mockPartsRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.parts[id]; !ok {
		return fmt.Errorf("part %d: %w", id, httpx.ErrNotFound)
	}
	delete(m.parts, id)
	return nil
}

// mockBillingRepo backs a real billing.Service with the part rows of the
// mockPartsRepo, so recalculations observe exactly what the parts service
// just wrote.
type mockBillingRepo struct {
	parts     *mockPartsRepo
	valuation *billing.Valuation
	quotation *billing.Quotation
}

func (m *mockBillingRepo) WithTx(ctx context.Context, fn func(context.Context, billing.Repository) error) error {
	return fn(ctx, m)
}

func (m *mockBillingRepo) SumPartsCost(_ context.Context, repairID int64) (float64, error) {
	var sum float64
	for _, p := range m.parts.parts {
		if p.RepairID == repairID {
			sum += p.Subtotal
		}
	}
	return sum, nil
}

func (m *mockBillingRepo) GetValuation(_ context.Context, id int64) (*billing.Valuation, error) {
	if m.valuation == nil || m.valuation.ID != id {
		return nil, fmt.Errorf("valuation %d: %w", id, httpx.ErrNotFound)
	}
	v := *m.valuation
	return &v, nil
}

func (m *mockBillingRepo) GetValuationByRepair(_ context.Context, repairID int64) (*billing.Valuation, error) {
	if m.valuation == nil || m.valuation.RepairID != repairID {
		return nil, fmt.Errorf("repair %d: %w", repairID, httpx.ErrNotFound)
	}
	v := *m.valuation
	return &v, nil
}

func (m *mockBillingRepo) ListValuations(context.Context) ([]billing.ValuationWithDetails, error) {
	return nil, nil
}

func (m *mockBillingRepo) CreateValuation(_ context.Context, v billing.Valuation) (int64, error) {
	if m.valuation != nil && m.valuation.RepairID == v.RepairID {
		return 0, fmt.Errorf("valuation for repair %d: %w", v.RepairID, httpx.ErrDuplicate)
	}
	v.ID = 1
	m.valuation = &v
	return v.ID, nil
}

func (m *mockBillingRepo) UpdateValuationAmounts(_ context.Context, id int64, partsCost, subtotal float64) error {
	if m.valuation == nil || m.valuation.ID != id {
		return fmt.Errorf("valuation %d: %w", id, httpx.ErrNotFound)
	}
	m.valuation.PartsCost = partsCost
	m.valuation.Subtotal = subtotal
	return nil
}

func (m *mockBillingRepo) GetQuotation(_ context.Context, id int64) (*billing.Quotation, error) {
	if m.quotation == nil || m.quotation.ID != id {
		return nil, fmt.Errorf("quotation %d: %w", id, httpx.ErrNotFound)
	}
	q := *m.quotation
	return &q, nil
}

func (m *mockBillingRepo) GetQuotationByValuation(_ context.Context, valuationID int64) (*billing.Quotation, error) {
	if m.quotation == nil || m.quotation.ValuationID != valuationID {
		return nil, fmt.Errorf("valuation %d: %w", valuationID, httpx.ErrNotFound)
	}
	q := *m.quotation
	return &q, nil
}

func (m *mockBillingRepo) ListQuotations(context.Context, billing.ListQuotationsRequest) ([]billing.QuotationWithDetails, error) {
	return nil, nil
}

func (m *mockBillingRepo) CreateQuotation(_ context.Context, q billing.Quotation) (int64, error) {
	q.ID = 2
	m.quotation = &q
	return q.ID, nil
}

func (m *mockBillingRepo) UpdateQuotationAmounts(_ context.Context, id int64, originalAmount, finalAmount float64) error {
	if m.quotation == nil || m.quotation.ID != id {
		return fmt.Errorf("quotation %d: %w", id, httpx.ErrNotFound)
	}
	m.quotation.OriginalAmount = originalAmount
	m.quotation.FinalAmount = finalAmount
	return nil
}

func (m *mockBillingRepo) UpdateQuotationAdjustment(_ context.Context, id int64, adjustment, finalAmount float64) error {
	if m.quotation == nil || m.quotation.ID != id {
		return fmt.Errorf("quotation %d: %w", id, httpx.ErrNotFound)
	}
	m.quotation.ManualAdjustment = adjustment
	m.quotation.FinalAmount = finalAmount
	return nil
}

func (m *mockBillingRepo) UpdateQuotationStatus(_ context.Context, id int64, status billing.QuotationStatus) error {
	if m.quotation == nil || m.quotation.ID != id {
		return fmt.Errorf("quotation %d: %w", id, httpx.ErrNotFound)
	}
	m.quotation.Status = status
	return nil
}

func ptr[T any](v T) *T { return &v }

func TestCreateComputesSubtotal(t *testing.T) {
	partsRepo := newMockPartsRepo()
	billingRepo := &mockBillingRepo{parts: partsRepo}
	svc := NewService(partsRepo, billing.NewService(billingRepo))

	p, err := svc.Create(context.Background(), CreatePartRequest{
		RepairID:  7,
		Code:      "ROD-6204",
		Quantity:  2,
		UnitPrice: ptr(50.0),
	})

	require.NoError(t, err)
	assert.InDelta(t, 100, p.Subtotal, 1e-9)
}

func TestUpdateRecomputesSubtotalFromPointers(t *testing.T) {
	partsRepo := newMockPartsRepo()
	billingRepo := &mockBillingRepo{parts: partsRepo}
	svc := NewService(partsRepo, billing.NewService(billingRepo))

	created, err := svc.Create(context.Background(), CreatePartRequest{
		RepairID: 7, Code: "ROD-6204", Quantity: 2, UnitPrice: ptr(50.0),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, UpdatePartRequest{Quantity: ptr(3)})
	require.NoError(t, err)
	assert.InDelta(t, 150, updated.Subtotal, 1e-9)
	assert.InDelta(t, 50, updated.UnitPrice, 1e-9)
}

func TestDeleteMissingPart(t *testing.T) {
	partsRepo := newMockPartsRepo()
	billingRepo := &mockBillingRepo{parts: partsRepo}
	svc := NewService(partsRepo, billing.NewService(billingRepo))

	err := svc.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

// TestPartLifecycleKeepsBillingInStep drives the full workshop flow: parts
// arrive, a valuation locks in labor, a quotation goes out with a discount,
// and then the parts change under them.
func TestPartLifecycleKeepsBillingInStep(t *testing.T) {
	ctx := context.Background()
	partsRepo := newMockPartsRepo()
	billingRepo := &mockBillingRepo{parts: partsRepo}
	billingSvc := billing.NewService(billingRepo)
	svc := NewService(partsRepo, billingSvc)

	// Parts before any valuation: the recalculation trigger is a no-op.
	part, err := svc.Create(ctx, CreatePartRequest{
		RepairID: 7, Code: "ROD-6204", Quantity: 2, UnitPrice: ptr(50.0),
	})
	require.NoError(t, err)
	require.Nil(t, billingRepo.valuation)

	// Valuation picks up the 100 of parts plus 200 of labor.
	v, err := billingSvc.CreateValuation(ctx, billing.CreateValuationRequest{
		RepairID: 7, LaborAssignee: "Carlos Benítez", LaborAmount: 200,
	})
	require.NoError(t, err)
	assert.InDelta(t, 300, v.Subtotal, 1e-9)

	// Quotation goes out with a 20 discount.
	q, err := billingSvc.CreateQuotation(ctx, billing.CreateQuotationRequest{
		ValuationID: v.ID, ManualAdjustment: -20,
	})
	require.NoError(t, err)
	assert.InDelta(t, 280, q.FinalAmount, 1e-9)

	// A third bearing turns out to be needed.
	_, err = svc.Update(ctx, part.ID, UpdatePartRequest{Quantity: ptr(3)})
	require.NoError(t, err)
	assert.InDelta(t, 150, billingRepo.valuation.PartsCost, 1e-9)
	assert.InDelta(t, 350, billingRepo.valuation.Subtotal, 1e-9)
	assert.InDelta(t, 330, billingRepo.quotation.FinalAmount, 1e-9)
	assert.InDelta(t, -20, billingRepo.quotation.ManualAdjustment, 1e-9)

	// The client sources the bearings themselves; the line comes off.
	require.NoError(t, svc.Delete(ctx, part.ID))
	assert.InDelta(t, 0, billingRepo.valuation.PartsCost, 1e-9)
	assert.InDelta(t, 200, billingRepo.valuation.Subtotal, 1e-9)
	assert.InDelta(t, 180, billingRepo.quotation.FinalAmount, 1e-9)

	// Staff replace the discount with a surcharge on the stored original.
	q, err = billingSvc.UpdateAdjustment(ctx, billingRepo.quotation.ID, 10)
	require.NoError(t, err)
	assert.InDelta(t, 210, q.FinalAmount, 1e-9)
}
