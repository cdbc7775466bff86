package repairs

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reparaciones-app/reparaciones/internal/billing"
	"github.com/reparaciones-app/reparaciones/internal/parts"
	"github.com/reparaciones-app/reparaciones/internal/platform/httpx"
)

type mockRepairsRepo struct {
	repairs map[int64]Repair
	history map[int64][]StatusChange
	nextID  int64
}

func newMockRepairsRepo() *mockRepairsRepo {
	return &mockRepairsRepo{repairs: map[int64]Repair{}, history: map[int64][]StatusChange{}, nextID: 1}
}

func (m *mockRepairsRepo) Get(_ context.Context, id int64) (*RepairDetail, error) {
	rep, ok := m.repairs[id]
	if !ok {
		return nil, fmt.Errorf("repair %d: %w", id, httpx.ErrNotFound)
	}
	return &RepairDetail{RepairSummary: RepairSummary{Repair: rep}, Parts: []parts.Part{}}, nil
}

func (m *mockRepairsRepo) List(context.Context) ([]RepairSummary, error) {
	var out []RepairSummary
	for _, rep := range m.repairs {
		out = append(out, RepairSummary{Repair: rep})
	}
	return out, nil
}

func (m *mockRepairsRepo) Create(_ context.Context, rep Repair) (int64, error) {
	rep.ID = m.nextID
	m.nextID++
	m.repairs[rep.ID] = rep
	return rep.ID, nil
}

func (m *mockRepairsRepo) Update(_ context.Context, rep Repair) error {
	if _, ok := m.repairs[rep.ID]; !ok {
		return fmt.Errorf("repair %d: %w", rep.ID, httpx.ErrNotFound)
	}
	m.repairs[rep.ID] = rep
	return nil
}

func (m *mockRepairsRepo) ChangeStatus(_ context.Context, id int64, to Status) (bool, error) {
	rep, ok := m.repairs[id]
	if !ok {
		return false, fmt.Errorf("repair %d: %w", id, httpx.ErrNotFound)
	}
	if rep.Status == to {
		return false, nil
	}
	m.history[id] = append(m.history[id], StatusChange{RepairID: id, FromStatus: rep.Status, ToStatus: to})
	rep.Status = to
	m.repairs[id] = rep
	return true, nil
}

func (m *mockRepairsRepo) History(_ context.Context, repairID int64) ([]StatusChange, error) {
	return m.history[repairID], nil
}

type mockRecalc struct {
	calls  []int64
	result *billing.RecalcResult
}

func (m *mockRecalc) Recalculate(_ context.Context, repairID int64) (*billing.RecalcResult, error) {
	m.calls = append(m.calls, repairID)
	return m.result, nil
}

func TestCreateStartsAtReceived(t *testing.T) {
	repo := newMockRepairsRepo()
	svc := NewService(repo, &mockRecalc{})

	detail, err := svc.Create(context.Background(), CreateRepairRequest{
		EquipmentID: 3,
		Electrician: "Carlos Benítez",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusReceived, detail.Status)
}

func TestChangeStatusRejectsUnknown(t *testing.T) {
	repo := newMockRepairsRepo()
	repo.repairs[1] = Repair{ID: 1, Status: StatusReceived}
	svc := NewService(repo, &mockRecalc{})

	_, err := svc.ChangeStatus(context.Background(), 1, ChangeStatusRequest{Status: "REVISADO"})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestChangeStatusRecordsHistoryOnlyOnChange(t *testing.T) {
	repo := newMockRepairsRepo()
	repo.repairs[1] = Repair{ID: 1, Status: StatusReceived}
	svc := NewService(repo, &mockRecalc{})

	_, err := svc.ChangeStatus(context.Background(), 1, ChangeStatusRequest{Status: StatusDiagnosis})
	require.NoError(t, err)
	_, err = svc.ChangeStatus(context.Background(), 1, ChangeStatusRequest{Status: StatusDiagnosis})
	require.NoError(t, err)

	history, err := svc.History(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, StatusReceived, history[0].FromStatus)
	assert.Equal(t, StatusDiagnosis, history[0].ToStatus)
}

func TestChangeStatusAllowsAnyOrder(t *testing.T) {
	repo := newMockRepairsRepo()
	repo.repairs[1] = Repair{ID: 1, Status: StatusQuoted}
	svc := NewService(repo, &mockRecalc{})

	// Stages move backwards on the shop floor too.
	detail, err := svc.ChangeStatus(context.Background(), 1, ChangeStatusRequest{Status: StatusDiagnosis})
	require.NoError(t, err)
	assert.Equal(t, StatusDiagnosis, detail.Status)
}

func TestRecalculateRequiresRepair(t *testing.T) {
	repo := newMockRepairsRepo()
	recalc := &mockRecalc{}
	svc := NewService(repo, recalc)

	_, err := svc.Recalculate(context.Background(), 42)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
	assert.Empty(t, recalc.calls)
}

func TestRecalculateDelegates(t *testing.T) {
	repo := newMockRepairsRepo()
	repo.repairs[7] = Repair{ID: 7, Status: StatusValuated}
	recalc := &mockRecalc{result: &billing.RecalcResult{Valuation: &billing.Valuation{ID: 1, RepairID: 7, Subtotal: 300}}}
	svc := NewService(repo, recalc)

	result, err := svc.Recalculate(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, []int64{7}, recalc.calls)
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	repo := newMockRepairsRepo()
	seal := "P-0193"
	repo.repairs[1] = Repair{ID: 1, Electrician: "Carlos", SealNumber: &seal, Status: StatusReceived}
	svc := NewService(repo, &mockRecalc{})

	name := "Lucía"
	detail, err := svc.Update(context.Background(), 1, UpdateRepairRequest{Electrician: &name})
	require.NoError(t, err)
	assert.Equal(t, "Lucía", detail.Electrician)
	require.NotNil(t, detail.SealNumber)
	assert.Equal(t, "P-0193", *detail.SealNumber)
}
