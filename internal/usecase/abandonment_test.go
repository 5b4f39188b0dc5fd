package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/quiz-funnel/internal/entity"
)

func TestScanAbandonedThreshold(t *testing.T) {
	now := t0
	leads := []entity.Lead{
		{ID: "4min", FirstName: "Ana", Phone: "11999990001", CreatedAt: now.Add(-4 * time.Minute)},
		{ID: "6min", FirstName: "Bia", Phone: "11999990002", CreatedAt: now.Add(-6 * time.Minute)},
		{ID: "5min", FirstName: "Caio", Phone: "11999990003", CreatedAt: now.Add(-5 * time.Minute)},
	}

	got := ScanAbandoned(leads, now, 5*time.Minute, entity.ChannelZaia)

	assert.Len(t, got, 2)
	assert.Equal(t, "6min", got[0].Lead.ID)
	assert.Equal(t, 1, got[0].Index)
	assert.Equal(t, "5min", got[1].Lead.ID)
}

func TestScanAbandonedFilters(t *testing.T) {
	old := t0.Add(-time.Hour)
	leads := []entity.Lead{
		{ID: "comprou", FirstName: "A", Phone: "11999990001", CreatedAt: old, Purchased: true},
		{ID: "zaia-enviado", FirstName: "B", Phone: "11999990002", CreatedAt: old, ZaiaSent: true},
		{ID: "sem-nome", Phone: "11999990003", CreatedAt: old},
		{ID: "sem-telefone", FirstName: "D", Email: "d@x.com", CreatedAt: old},
		{ID: "sem-data", FirstName: "E", Phone: "11999990005"},
		{ID: "ok", FirstName: "F", Phone: "11999990006", CreatedAt: old},
	}

	t.Run("canal zaia", func(t *testing.T) {
		got := ScanAbandoned(leads, t0, 5*time.Minute, entity.ChannelZaia)
		assert.Len(t, got, 1)
		assert.Equal(t, "ok", got[0].Lead.ID)
	})

	t.Run("flag é por canal", func(t *testing.T) {
		got := ScanAbandoned(leads, t0, 5*time.Minute, entity.ChannelRecovery)
		ids := []string{}
		for _, c := range got {
			ids = append(ids, c.Lead.ID)
		}
		assert.Equal(t, []string{"zaia-enviado", "ok"}, ids)
	})
}

func TestScanAbandonedEmpty(t *testing.T) {
	assert.Empty(t, ScanAbandoned(nil, t0, 5*time.Minute, entity.ChannelZaia))
}
