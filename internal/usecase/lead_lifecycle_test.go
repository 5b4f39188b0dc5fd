package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xavierca1/quiz-funnel/internal/entity"
)

var t0 = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newLifecycle(t *testing.T, repo entity.LeadRepositoryInterface) *LeadLifecycle {
	lc := NewLeadLifecycle(repo, nil, zaptest.NewLogger(t))
	lc.now = fixedClock(t0)
	lc.newID = func() string { return "generated-id" }
	return lc
}

func TestCaptureAppendsNewLead(t *testing.T) {
	_, repo := newLeadFixture()
	lc := newLifecycle(t, repo)

	out, err := lc.Capture(context.Background(), CaptureLeadInput{
		LeadID:    "lead-1",
		FirstName: " Ana ",
		Email:     "A@X.com",
		Phone:     "(11) 99999-8888",
	})
	require.NoError(t, err)
	assert.True(t, out.Created)
	assert.Equal(t, "lead-1", out.LeadID)

	leads, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Ana", leads[0].FirstName)
	assert.Equal(t, "a@x.com", leads[0].Email)
	assert.Equal(t, "11999998888", leads[0].Phone)
	assert.Equal(t, t0, leads[0].CreatedAt)
	assert.False(t, leads[0].Purchased)
	assert.False(t, leads[0].ZaiaSent)
	assert.False(t, leads[0].RecoverySent)
}

func TestCaptureGeneratesIDWhenMissing(t *testing.T) {
	_, repo := newLeadFixture()
	out, err := newLifecycle(t, repo).Capture(context.Background(), CaptureLeadInput{Phone: "11999998888"})
	require.NoError(t, err)
	assert.Equal(t, "generated-id", out.LeadID)
}

func TestCaptureFirstWriteWins(t *testing.T) {
	created := t0.Add(-time.Hour)
	_, repo := newLeadFixture(leadRow("lead-1", "Ana", "a@x.com", "", created, false, false))
	lc := newLifecycle(t, repo)

	out, err := lc.Capture(context.Background(), CaptureLeadInput{
		LeadID:    "lead-2",
		FirstName: "Bia",
		Email:     "a@x.com",
		Phone:     "11999998888",
	})
	require.NoError(t, err)
	assert.False(t, out.Created)
	assert.True(t, out.Updated)
	assert.Equal(t, "lead-1", out.LeadID)

	leads, _ := repo.List(context.Background())
	require.Len(t, leads, 1)
	assert.Equal(t, "lead-1", leads[0].ID)
	assert.Equal(t, "Ana", leads[0].FirstName, "nome existente não pode ser sobrescrito")
	assert.Equal(t, "11999998888", leads[0].Phone, "telefone vazio é completado")
	assert.Equal(t, created, leads[0].CreatedAt)
}

func TestCaptureNothingToMerge(t *testing.T) {
	store, repo := newLeadFixture(leadRow("lead-1", "Ana", "a@x.com", "11999998888", t0, false, false))
	before, _ := store.ReadRows(context.Background(), leadSheet)

	out, err := newLifecycle(t, repo).Capture(context.Background(), CaptureLeadInput{FirstName: "Ana", Email: "a@x.com"})
	require.NoError(t, err)
	assert.False(t, out.Created)
	assert.False(t, out.Updated)

	after, _ := store.ReadRows(context.Background(), leadSheet)
	assert.Equal(t, before, after)
}

func TestCaptureValidation(t *testing.T) {
	_, repo := newLeadFixture()
	lc := newLifecycle(t, repo)

	t.Run("sem email e telefone", func(t *testing.T) {
		_, err := lc.Capture(context.Background(), CaptureLeadInput{FirstName: "Ana"})
		de, ok := AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "VALIDATION_ERROR", de.Code)
		assert.Equal(t, "email", de.Fields[0].Field)
	})

	t.Run("email inválido", func(t *testing.T) {
		_, err := lc.Capture(context.Background(), CaptureLeadInput{Email: "nao-e-email"})
		assert.True(t, IsDomainError(err))
	})
}

func TestCaptureConcurrentSameEmailKeepsOneRow(t *testing.T) {
	_, repo := newLeadFixture()
	lc := newLifecycle(t, repo)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := lc.Capture(context.Background(), CaptureLeadInput{FirstName: "Ana", Email: "a@x.com"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	leads, _ := repo.List(context.Background())
	assert.Len(t, leads, 1)
}

func TestMarkPurchasedIsIdempotent(t *testing.T) {
	_, repo := newLeadFixture(leadRow("lead-1", "Ana", "a@x.com", "11999998888", t0.Add(-time.Hour), false, false))
	lc := newLifecycle(t, repo)

	lead, changed, err := lc.MarkPurchased(context.Background(), "a@x.com", "", entity.SourceHubla)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, lead.Purchased)

	lc.now = fixedClock(t0.Add(24 * time.Hour))
	_, changed, err = lc.MarkPurchased(context.Background(), "a@x.com", "", entity.SourceProprio)
	require.NoError(t, err)
	assert.False(t, changed)

	leads, _ := repo.List(context.Background())
	require.NotNil(t, leads[0].PurchaseAt)
	assert.Equal(t, t0, *leads[0].PurchaseAt, "purchase_at não muda na segunda chamada")
	assert.Equal(t, entity.SourceHubla, leads[0].CheckoutSource)
}

func TestMarkPurchasedByPhoneWhenEmailEmpty(t *testing.T) {
	_, repo := newLeadFixture(leadRow("lead-1", "Ana", "", "11999998888", t0, false, false))
	lead, changed, err := newLifecycle(t, repo).MarkPurchased(context.Background(), "", "(11) 99999-8888", entity.SourceProprio)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "lead-1", lead.ID)
}

func TestMarkPurchasedNotFound(t *testing.T) {
	_, repo := newLeadFixture(leadRow("lead-1", "Ana", "a@x.com", "11999998888", t0, false, false))
	_, _, err := newLifecycle(t, repo).MarkPurchased(context.Background(), "b@x.com", "11999998888", entity.SourceHubla)
	assert.True(t, errors.Is(err, entity.ErrLeadNotFound), "com email informado o telefone não é usado")
}

func TestMarkNotifiedPropagatesToPhoneSiblings(t *testing.T) {
	_, repo := newLeadFixture(
		leadRow("lead-1", "Ana", "a@x.com", "11999998888", t0, false, false),
		leadRow("lead-2", "Bia", "b@x.com", "11988887777", t0, false, false),
		leadRow("lead-3", "Ana", "ana@y.com", "(11) 99999-8888", t0, false, false),
	)
	lc := newLifecycle(t, repo)
	snapshot, _ := repo.List(context.Background())

	written, err := lc.MarkNotified(context.Background(), snapshot, 0, entity.ChannelRecovery)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, written)
	assert.True(t, snapshot[2].RecoverySent)

	leads, _ := repo.List(context.Background())
	assert.True(t, leads[0].RecoverySent)
	assert.False(t, leads[1].RecoverySent)
	assert.True(t, leads[2].RecoverySent)
	assert.False(t, leads[0].ZaiaSent, "outro canal não é tocado")
}
