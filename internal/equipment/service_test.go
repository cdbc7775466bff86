package equipment

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reparaciones-app/reparaciones/internal/platform/httpx"
)

type mockEquipmentRepo struct {
	rows   map[int64]EquipmentWithClient
	nextID int64
}

func newMockEquipmentRepo() *mockEquipmentRepo {
	return &mockEquipmentRepo{rows: map[int64]EquipmentWithClient{}, nextID: 1}
}

func (m *mockEquipmentRepo) Get(_ context.Context, id int64) (*EquipmentWithClient, error) {
	e, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("equipment %d: %w", id, httpx.ErrNotFound)
	}
	return &e, nil
}

func (m *mockEquipmentRepo) GetByTrackingCode(_ context.Context, code string) (*EquipmentWithClient, error) {
	for _, e := range m.rows {
		if e.TrackingCode == code {
			return &e, nil
		}
	}
	return nil, fmt.Errorf("equipment: %w", httpx.ErrNotFound)
}

func (m *mockEquipmentRepo) List(context.Context) ([]EquipmentWithClient, error) {
	var out []EquipmentWithClient
	for _, e := range m.rows {
		out = append(out, e)
	}
	return out, nil
}

func (m *mockEquipmentRepo) Create(_ context.Context, e Equipment) (int64, error) {
	for _, existing := range m.rows {
		if existing.TrackingCode == e.TrackingCode {
			return 0, fmt.Errorf("equipment tracking code %s: %w", e.TrackingCode, httpx.ErrDuplicate)
		}
	}
	e.ID = m.nextID
	m.nextID++
	m.rows[e.ID] = EquipmentWithClient{Equipment: e}
	return e.ID, nil
}

func (m *mockEquipmentRepo) Update(_ context.Context, e Equipment) error {
	existing, ok := m.rows[e.ID]
	if !ok {
		return fmt.Errorf("equipment %d: %w", e.ID, httpx.ErrNotFound)
	}
	existing.Equipment = e
	m.rows[e.ID] = existing
	return nil
}

func TestNewTrackingCodeShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := newTrackingCode()
		assert.True(t, strings.HasPrefix(code, "EQ-"), code)
		assert.Len(t, code, 11)
		assert.Equal(t, strings.ToUpper(code), code)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestCreateAssignsCodeAndReceivedStatus(t *testing.T) {
	repo := newMockEquipmentRepo()
	svc := NewService(repo)

	eq, err := svc.Create(context.Background(), CreateEquipmentRequest{
		ClientID:    1,
		Description: "Motor trifásico 15HP",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusReceived, eq.Status)
	assert.True(t, strings.HasPrefix(eq.TrackingCode, "EQ-"))
}

func TestUpdateKeepsUnsetFields(t *testing.T) {
	repo := newMockEquipmentRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), CreateEquipmentRequest{
		ClientID:    1,
		Description: "Motor trifásico 15HP",
	})
	require.NoError(t, err)

	desc := "Motor trifásico 15HP, rebobinado"
	updated, err := svc.Update(context.Background(), created.ID, UpdateEquipmentRequest{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, desc, updated.Description)
	assert.Equal(t, created.TrackingCode, updated.TrackingCode)
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusReceived))
	assert.True(t, ValidStatus(StatusInRepair))
	assert.True(t, ValidStatus(StatusDelivered))
	assert.False(t, ValidStatus("PERDIDO"))
}
