package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteRowStore {
	t.Helper()
	db, err := NewDBConnection(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewSQLiteRowStore(context.Background(), db)
	require.NoError(t, err)
	return store
}

func TestSQLiteRowStoreAppendKeepsOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	require.NoError(t, store.AppendRow(ctx, "Automacao", []string{"l1", "Ana"}))
	require.NoError(t, store.AppendRow(ctx, "Automacao", []string{"l2", "Bia"}))
	require.NoError(t, store.AppendRow(ctx, "Vendas", []string{"o1"}))

	rows, err := store.ReadRows(ctx, "Automacao")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"l1", "Ana"}, {"l2", "Bia"}}, rows)

	rows, err = store.ReadRows(ctx, "Vendas")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSQLiteRowStoreUpdateCellsExtendsRow(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)
	require.NoError(t, store.AppendRow(ctx, "Automacao", []string{"l1", "Ana"}))

	require.NoError(t, store.UpdateCells(ctx, "Automacao", 0, map[int]string{3: "11999998888"}))

	rows, err := store.ReadRows(ctx, "Automacao")
	require.NoError(t, err)
	assert.Equal(t, []string{"l1", "Ana", "", "11999998888"}, rows[0])

	assert.Error(t, store.UpdateCells(ctx, "Automacao", 7, map[int]string{0: "x"}))
	assert.Error(t, store.WriteRow(ctx, "Automacao", 7, []string{"x"}))
}

func TestLeadRepositoryOverSQLite(t *testing.T) {
	ctx := context.Background()
	repo := NewLeadRepository(newTestSQLiteStore(t), "Automacao")

	require.NoError(t, repo.Append(ctx, &entityLeadFixture))

	lead, idx, err := repo.Find(ctx, "A@X.COM", "")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "lead-1", lead.ID)
}
