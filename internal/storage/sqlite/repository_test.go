package sqlite

import (
	"context"
	"errors"
	"testing"

	"contas/internal/core"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore("contas-test-" + uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMemoryDSN(t *testing.T) {
	assert.Equal(t, "file:contas?mode=memory&cache=shared", MemoryDSN("contas"))
}

func TestNewStore_EmptyName(t *testing.T) {
	_, err := NewStore("")
	assert.Error(t, err)
}

func TestStore_RoundTripKeepsOrderAndPrecision(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, err := core.NewEntry("Internet", core.MustAmount("120.90"), core.NewDate(2025, 3, 1), core.Payable)
	require.NoError(t, err)
	second, err := core.NewEntry("Salary", core.MustAmount("5000"), core.NewDate(2025, 3, 5), core.Receivable)
	require.NoError(t, err)

	require.NoError(t, s.Append(ctx, first))
	require.NoError(t, s.Append(ctx, second))

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
	assert.True(t, first.Amount.Equal(all[0].Amount), "amount changed: %s", all[0].Amount)
	assert.Equal(t, first.DueDate, all[0].DueDate)
	assert.Equal(t, core.Receivable, all[1].Kind)
	assert.False(t, all[0].Settled)
}

func TestStore_MarkSettled(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	e, err := core.NewEntry("Rent", core.MustAmount("1500"), core.NewDate(2025, 4, 1), core.Payable)
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, e))

	require.NoError(t, s.MarkSettled(ctx, e.ID))
	got, err := s.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, got.Settled)

	err = s.MarkSettled(ctx, uuid.New())
	assert.True(t, errors.Is(err, core.ErrNotFound), "got %v", err)

	_, err = s.Get(ctx, uuid.New())
	assert.True(t, errors.Is(err, core.ErrNotFound), "got %v", err)
}

func TestStore_RejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	e, err := core.NewEntry("Rent", core.MustAmount("1500"), core.NewDate(2025, 4, 1), core.Payable)
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, e))
	assert.Error(t, s.Append(ctx, e))
}

func TestStore_IsolatedByName(t *testing.T) {
	ctx := context.Background()
	a := newTestStore(t)
	b := newTestStore(t)

	e, err := core.NewEntry("Rent", core.MustAmount("1500"), core.NewDate(2025, 4, 1), core.Payable)
	require.NoError(t, err)
	require.NoError(t, a.Append(ctx, e))

	all, err := b.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRunMigrations_ReportsVersionAndIsRepeatable(t *testing.T) {
	name := "contas-migrate-" + uuid.NewString()
	s, err := NewStore(name)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	// The store's pinned connection keeps the schema alive between runs
	version, err := RunMigrations(MemoryDSN(name))
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	e, err := core.NewEntry("Rent", core.MustAmount("1500"), core.NewDate(2025, 4, 1), core.Payable)
	require.NoError(t, err)
	require.NoError(t, s.Append(context.Background(), e))
	all, err := s.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
