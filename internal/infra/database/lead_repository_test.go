package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/quiz-funnel/internal/entity"
)

func TestLeadFromRowTruncatedRow(t *testing.T) {
	// a API do Sheets corta as células vazias do fim da linha
	row := []string{"lead-1", "Ana", "ana@x.com", "11999998888", "2025-03-01T10:00:00Z", "FALSE"}

	got := LeadFromRow(row)

	want := entity.Lead{
		ID:        "lead-1",
		FirstName: "Ana",
		Email:     "ana@x.com",
		Phone:     "11999998888",
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LeadFromRow mismatch (-want +got):\n%s", diff)
	}
}

func TestLeadToRowKeepsColumnOrder(t *testing.T) {
	paid := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)
	row := LeadToRow(&entity.Lead{
		ID:             "lead-1",
		Email:          "a@x.com",
		Purchased:      true,
		CheckoutSource: entity.SourceHubla,
		PurchaseAt:     &paid,
	})

	require.Len(t, row, entity.LeadColumnCount)
	assert.Equal(t, "lead-1", row[0])
	assert.Equal(t, "a@x.com", row[2])
	assert.Equal(t, "TRUE", row[5])
	assert.Equal(t, "FALSE", row[6])
	assert.Equal(t, "hubla", row[7])
	assert.Equal(t, "2025-03-02T12:00:00Z", row[8])
	assert.Equal(t, "FALSE", row[9])
}

func TestLeadRepositoryFindFirstMatchWins(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.Seed("Automacao",
		[]string{"l1", "Ana", "", "11999998888"},
		[]string{"l2", "Ana", "ana@x.com", "11999998888"},
		[]string{"l3", "Ana B", "ANA@x.com", "11911112222"},
	)
	repo := NewLeadRepository(store, "Automacao")

	lead, idx, err := repo.Find(ctx, "ana@x.com", "")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "l2", lead.ID)

	lead, idx, err = repo.Find(ctx, "", "(11) 99999-8888")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "l1", lead.ID)

	_, _, err = repo.Find(ctx, "ninguem@x.com", "11999998888")
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestLeadRepositoryUpdateCells(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.Seed("Automacao", []string{"l1", "Ana", "ana@x.com"})
	repo := NewLeadRepository(store, "Automacao")

	err := repo.UpdateCells(ctx, 0, map[entity.LeadColumn]string{
		entity.ColZaiaSent:     "TRUE",
		entity.ColRecoverySent: "TRUE",
	})
	require.NoError(t, err)

	leads, err := repo.List(ctx)
	require.NoError(t, err)
	assert.True(t, leads[0].ZaiaSent)
	assert.True(t, leads[0].RecoverySent)
	assert.Equal(t, "Ana", leads[0].FirstName)

	assert.Error(t, repo.UpdateCells(ctx, 5, map[entity.LeadColumn]string{entity.ColPurchased: "TRUE"}))
}
