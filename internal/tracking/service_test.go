package tracking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLookupRepo struct {
	lastCode string
}

func (m *mockLookupRepo) Lookup(_ context.Context, code string) (*Result, error) {
	m.lastCode = code
	return sampleResult(code), nil
}

func TestLookupNormalisesCode(t *testing.T) {
	repo := &mockLookupRepo{}
	svc := NewService(repo, nil)

	res, err := svc.Lookup(context.Background(), "  eq-abcd1234 ")
	require.NoError(t, err)
	assert.Equal(t, "EQ-ABCD1234", repo.lastCode)
	assert.Equal(t, "EQ-ABCD1234", res.Equipment.TrackingCode)
}

func TestLookupRejectsEmptyCode(t *testing.T) {
	svc := NewService(&mockLookupRepo{}, nil)

	_, err := svc.Lookup(context.Background(), "   ")
	assert.Error(t, err)
}
