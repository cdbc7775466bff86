package billing

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reparaciones-app/reparaciones/internal/platform/httpx"
)

// mockRepository keeps one valuation/quotation pair in memory and tracks the
// writes the service issues against it.
type mockRepository struct {
	partsByRepair map[int64]float64

	valuation *Valuation
	quotation *Quotation

	nextID int64

	valuationUpdates int
	quotationUpdates int
	txCalls          int
	failTx           error
}

func newMockRepository() *mockRepository {
	return &mockRepository{partsByRepair: map[int64]float64{}, nextID: 1}
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	m.txCalls++
	if m.failTx != nil {
		return m.failTx
	}
	return fn(ctx, m)
}

func (m *mockRepository) SumPartsCost(_ context.Context, repairID int64) (float64, error) {
	return m.partsByRepair[repairID], nil
}

func (m *mockRepository) GetValuation(_ context.Context, id int64) (*Valuation, error) {
	if m.valuation == nil || m.valuation.ID != id {
		return nil, fmt.Errorf("valuation %d: %w", id, httpx.ErrNotFound)
	}
	v := *m.valuation
	return &v, nil
}

func (m *mockRepository) GetValuationByRepair(_ context.Context, repairID int64) (*Valuation, error) {
	if m.valuation == nil || m.valuation.RepairID != repairID {
		return nil, fmt.Errorf("repair %d: %w", repairID, httpx.ErrNotFound)
	}
	v := *m.valuation
	return &v, nil
}

func (m *mockRepository) ListValuations(context.Context) ([]ValuationWithDetails, error) {
	if m.valuation == nil {
		return nil, nil
	}
	return []ValuationWithDetails{{Valuation: *m.valuation}}, nil
}

func (m *mockRepository) CreateValuation(_ context.Context, v Valuation) (int64, error) {
	if m.valuation != nil && m.valuation.RepairID == v.RepairID {
		return 0, fmt.Errorf("valuation for repair %d: %w", v.RepairID, httpx.ErrDuplicate)
	}
	v.ID = m.nextID
	m.nextID++
	m.valuation = &v
	return v.ID, nil
}

func (m *mockRepository) UpdateValuationAmounts(_ context.Context, id int64, partsCost, subtotal float64) error {
	if m.valuation == nil || m.valuation.ID != id {
		return fmt.Errorf("valuation %d: %w", id, httpx.ErrNotFound)
	}
	m.valuation.PartsCost = partsCost
	m.valuation.Subtotal = subtotal
	m.valuationUpdates++
	return nil
}

func (m *mockRepository) GetQuotation(_ context.Context, id int64) (*Quotation, error) {
	if m.quotation == nil || m.quotation.ID != id {
		return nil, fmt.Errorf("quotation %d: %w", id, httpx.ErrNotFound)
	}
	q := *m.quotation
	return &q, nil
}

func (m *mockRepository) GetQuotationByValuation(_ context.Context, valuationID int64) (*Quotation, error) {
	if m.quotation == nil || m.quotation.ValuationID != valuationID {
		return nil, fmt.Errorf("valuation %d: %w", valuationID, httpx.ErrNotFound)
	}
	q := *m.quotation
	return &q, nil
}

func (m *mockRepository) ListQuotations(context.Context, ListQuotationsRequest) ([]QuotationWithDetails, error) {
	if m.quotation == nil {
		return nil, nil
	}
	return []QuotationWithDetails{{Quotation: *m.quotation}}, nil
}

func (m *mockRepository) CreateQuotation(_ context.Context, q Quotation) (int64, error) {
	if m.quotation != nil && m.quotation.ValuationID == q.ValuationID {
		return 0, fmt.Errorf("quotation for valuation %d: %w", q.ValuationID, httpx.ErrDuplicate)
	}
	q.ID = m.nextID
	m.nextID++
	m.quotation = &q
	return q.ID, nil
}

func (m *mockRepository) UpdateQuotationAmounts(_ context.Context, id int64, originalAmount, finalAmount float64) error {
	if m.quotation == nil || m.quotation.ID != id {
		return fmt.Errorf("quotation %d: %w", id, httpx.ErrNotFound)
	}
	m.quotation.OriginalAmount = originalAmount
	m.quotation.FinalAmount = finalAmount
	m.quotationUpdates++
	return nil
}

func (m *mockRepository) UpdateQuotationAdjustment(_ context.Context, id int64, adjustment, finalAmount float64) error {
	if m.quotation == nil || m.quotation.ID != id {
		return fmt.Errorf("quotation %d: %w", id, httpx.ErrNotFound)
	}
	m.quotation.ManualAdjustment = adjustment
	m.quotation.FinalAmount = finalAmount
	return nil
}

func (m *mockRepository) UpdateQuotationStatus(_ context.Context, id int64, status QuotationStatus) error {
	if m.quotation == nil || m.quotation.ID != id {
		return fmt.Errorf("quotation %d: %w", id, httpx.ErrNotFound)
	}
	m.quotation.Status = status
	return nil
}

func TestRecalculateWithoutValuationIsNoOp(t *testing.T) {
	mock := newMockRepository()
	mock.partsByRepair[7] = 135.50
	svc := NewService(mock)

	result, err := svc.Recalculate(context.Background(), 7)

	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Zero(t, mock.txCalls)
	assert.Zero(t, mock.valuationUpdates)
}

func TestRecalculateUpdatesValuation(t *testing.T) {
	mock := newMockRepository()
	mock.partsByRepair[7] = 135.50
	mock.valuation = &Valuation{ID: 1, RepairID: 7, PartsCost: 99.99, LaborAmount: 200, Subtotal: 299.99}
	svc := NewService(mock)

	result, err := svc.Recalculate(context.Background(), 7)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.InDelta(t, 135.50, result.Valuation.PartsCost, 1e-9)
	assert.InDelta(t, 335.50, result.Valuation.Subtotal, 1e-9)
	assert.Nil(t, result.Quotation)
	assert.Equal(t, 1, mock.valuationUpdates)
	assert.Equal(t, 1, mock.txCalls)
}

func TestRecalculatePropagatesToQuotation(t *testing.T) {
	mock := newMockRepository()
	mock.partsByRepair[7] = 100
	mock.valuation = &Valuation{ID: 1, RepairID: 7, LaborAmount: 200}
	mock.quotation = &Quotation{ID: 2, ValuationID: 1, OriginalAmount: 250, ManualAdjustment: -20, FinalAmount: 230}
	svc := NewService(mock)

	result, err := svc.Recalculate(context.Background(), 7)

	require.NoError(t, err)
	require.NotNil(t, result.Quotation)
	assert.InDelta(t, 300, result.Quotation.OriginalAmount, 1e-9)
	assert.InDelta(t, 280, result.Quotation.FinalAmount, 1e-9)
	// Only staff edit the adjustment; recalculation must never touch it.
	assert.InDelta(t, -20, result.Quotation.ManualAdjustment, 1e-9)
	assert.Equal(t, 1, mock.quotationUpdates)
}

func TestRecalculateIsIdempotent(t *testing.T) {
	mock := newMockRepository()
	mock.partsByRepair[7] = 135.50
	mock.valuation = &Valuation{ID: 1, RepairID: 7, LaborAmount: 200}
	mock.quotation = &Quotation{ID: 2, ValuationID: 1, ManualAdjustment: 10}
	svc := NewService(mock)

	first, err := svc.Recalculate(context.Background(), 7)
	require.NoError(t, err)
	second, err := svc.Recalculate(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, first.Valuation.Subtotal, second.Valuation.Subtotal)
	assert.Equal(t, first.Quotation.FinalAmount, second.Quotation.FinalAmount)
}

func TestRecalculateWithNoPartsZeroesCost(t *testing.T) {
	mock := newMockRepository()
	mock.valuation = &Valuation{ID: 1, RepairID: 7, PartsCost: 135.50, LaborAmount: 200, Subtotal: 335.50}
	svc := NewService(mock)

	result, err := svc.Recalculate(context.Background(), 7)

	require.NoError(t, err)
	assert.Zero(t, result.Valuation.PartsCost)
	assert.InDelta(t, 200, result.Valuation.Subtotal, 1e-9)
}

func TestRecalculateTxFailure(t *testing.T) {
	mock := newMockRepository()
	mock.valuation = &Valuation{ID: 1, RepairID: 7, LaborAmount: 200}
	mock.failTx = fmt.Errorf("connection reset")
	svc := NewService(mock)

	_, err := svc.Recalculate(context.Background(), 7)
	require.Error(t, err)
}

func TestCreateValuationSumsParts(t *testing.T) {
	mock := newMockRepository()
	mock.partsByRepair[3] = 135.50
	svc := NewService(mock)

	v, err := svc.CreateValuation(context.Background(), CreateValuationRequest{
		RepairID:      3,
		LaborAssignee: "Carlos Benítez",
		LaborAmount:   200,
	})

	require.NoError(t, err)
	assert.InDelta(t, 135.50, v.PartsCost, 1e-9)
	assert.InDelta(t, 335.50, v.Subtotal, 1e-9)
}

func TestCreateValuationDuplicateConflicts(t *testing.T) {
	mock := newMockRepository()
	svc := NewService(mock)

	_, err := svc.CreateValuation(context.Background(), CreateValuationRequest{RepairID: 3, LaborAssignee: "x"})
	require.NoError(t, err)

	_, err = svc.CreateValuation(context.Background(), CreateValuationRequest{RepairID: 3, LaborAssignee: "x"})
	assert.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestCreateQuotationSeedsFromValuation(t *testing.T) {
	mock := newMockRepository()
	mock.valuation = &Valuation{ID: 1, RepairID: 3, Subtotal: 300}
	svc := NewService(mock)

	q, err := svc.CreateQuotation(context.Background(), CreateQuotationRequest{
		ValuationID:      1,
		ManualAdjustment: -20,
	})

	require.NoError(t, err)
	assert.InDelta(t, 300, q.OriginalAmount, 1e-9)
	assert.InDelta(t, 280, q.FinalAmount, 1e-9)
	assert.Equal(t, QuotationStatusPendiente, q.Status)
}

func TestUpdateAdjustmentUsesStoredOriginal(t *testing.T) {
	mock := newMockRepository()
	mock.quotation = &Quotation{ID: 2, ValuationID: 1, OriginalAmount: 300, ManualAdjustment: -20, FinalAmount: 280}
	svc := NewService(mock)

	q, err := svc.UpdateAdjustment(context.Background(), 2, 10)

	require.NoError(t, err)
	assert.InDelta(t, 300, q.OriginalAmount, 1e-9)
	assert.InDelta(t, 10, q.ManualAdjustment, 1e-9)
	assert.InDelta(t, 310, q.FinalAmount, 1e-9)
}

func TestUpdateQuotationStatus(t *testing.T) {
	mock := newMockRepository()
	mock.quotation = &Quotation{ID: 2, ValuationID: 1, Status: QuotationStatusPendiente}
	svc := NewService(mock)

	q, err := svc.UpdateQuotationStatus(context.Background(), 2, QuotationStatusEnviada)
	require.NoError(t, err)
	assert.Equal(t, QuotationStatusEnviada, q.Status)

	_, err = svc.UpdateQuotationStatus(context.Background(), 2, QuotationStatus("RECHAZADA"))
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestRoundCents(t *testing.T) {
	assert.InDelta(t, 0.3, RoundCents(0.1+0.2), 1e-9)
	assert.InDelta(t, 135.50, RoundCents(135.499999999), 1e-9)
	assert.InDelta(t, 33.33, RoundCents(100.0/3), 1e-9)
}
