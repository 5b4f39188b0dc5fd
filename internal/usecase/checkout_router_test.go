package usecase

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xavierca1/quiz-funnel/internal/entity"
	"github.com/xavierca1/quiz-funnel/internal/infra/database"
)

var testCatalog = PlanCatalog{
	entity.SourceProprio: {"mensal": "https://pay.cakto.com.br/abc?affiliate=1"},
	entity.SourceHubla:   {"mensal": "https://pay.hub.la/xyz"},
}

func newRouter(t *testing.T, provider entity.CheckoutSource) (*CheckoutRouter, *database.QuizRepository) {
	quiz := database.NewQuizRepository(database.NewMemoryStore(), "Respostas")
	r := NewCheckoutRouter(provider, testCatalog, quiz, zaptest.NewLogger(t))
	r.now = fixedClock(t0)
	return r, quiz
}

func TestBuildCheckoutURLKeepsBaseQuery(t *testing.T) {
	got, err := BuildCheckoutURL("https://pay.cakto.com.br/abc?affiliate=1", UTMParams{
		Source:   "facebook",
		Campaign: "black friday",
		Sck:      "ad-9",
	})
	require.NoError(t, err)

	u, err := url.Parse(got)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "1", q.Get("affiliate"))
	assert.Equal(t, "facebook", q.Get("utm_source"))
	assert.Equal(t, "black friday", q.Get("utm_campaign"))
	assert.Equal(t, "ad-9", q.Get("sck"))
	assert.False(t, q.Has("utm_medium"), "parâmetro vazio não entra na URL")
}

func TestBuildCheckoutURLRejectsRelative(t *testing.T) {
	_, err := BuildCheckoutURL("/checkout", UTMParams{})
	assert.Error(t, err)
}

func TestRouteUsesConfiguredProvider(t *testing.T) {
	r, _ := newRouter(t, entity.SourceHubla)

	out, err := r.Route(context.Background(), CheckoutInput{LeadID: "lead-1", Plan: "Mensal"})
	require.NoError(t, err)
	assert.Equal(t, entity.SourceHubla, out.Provider)
	assert.Contains(t, out.CheckoutURL, "https://pay.hub.la/xyz")
}

func TestRouteDefaultsToProprio(t *testing.T) {
	r, _ := newRouter(t, entity.SourceUnset)
	out, err := r.Route(context.Background(), CheckoutInput{LeadID: "lead-1", Plan: "mensal"})
	require.NoError(t, err)
	assert.Equal(t, entity.SourceProprio, out.Provider)
}

func TestRouteUnknownPlan(t *testing.T) {
	r, _ := newRouter(t, entity.SourceProprio)
	_, err := r.Route(context.Background(), CheckoutInput{LeadID: "lead-1", Plan: "anual"})
	de, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "plan", de.Fields[0].Field)
}

func TestRouteUpsertsQuizRow(t *testing.T) {
	r, quiz := newRouter(t, entity.SourceProprio)

	_, err := r.Route(context.Background(), CheckoutInput{
		LeadID:  "lead-1",
		Plan:    "mensal",
		Email:   "A@x.com",
		Answers: map[string]string{"goal": "perder peso", "coluna_inexistente": "x", "lead_id": "forjado"},
		UTM:     UTMParams{Source: "ig"},
	})
	require.NoError(t, err)

	r.now = fixedClock(t0.Add(time.Hour))
	_, err = r.Route(context.Background(), CheckoutInput{
		LeadID:  "lead-1",
		Plan:    "mensal",
		Answers: map[string]string{"goal": "ganhar massa", "height_cm": "170", "current_weight_kg": "72,5 kg"},
	})
	require.NoError(t, err)

	rows, err := quiz.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1, "mesmo lead_id sobrescreve a linha")

	got := rows[0]
	assert.Equal(t, "lead-1", got.LeadID)
	assert.Equal(t, t0, got.CreatedAt, "created_at original é mantido")
	assert.Equal(t, t0.Add(time.Hour), got.UpdatedAt)
	assert.Equal(t, "ganhar massa", got.Get("goal"))
	assert.Equal(t, "proprio", got.Get("checkout_variant"))
	assert.Equal(t, "checkout", got.Get("status"))
	assert.Empty(t, got.Get("coluna_inexistente"))
	assert.Equal(t, "25.1", got.Get("bmi"), "IMC calculado de altura e peso")
}

func TestQuizBMI(t *testing.T) {
	cases := []struct {
		height, weight, want string
	}{
		{"170", "72,5", "25.1"},
		{"1.70", "72.5", "25.1"},
		{"180 cm", "81kg", "25.0"},
		{"", "70", ""},
		{"170", "abc", ""},
		{"0", "70", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, quizBMI(c.height, c.weight), "altura=%q peso=%q", c.height, c.weight)
	}
}

func TestQuizFieldsKeepsInformedBMI(t *testing.T) {
	fields := quizFields(CheckoutInput{
		Answers: map[string]string{"bmi": "30", "height_cm": "170", "current_weight_kg": "70"},
	}, entity.Plan{Code: "mensal", Provider: entity.SourceProprio}, "https://x")
	assert.Equal(t, "30", fields["bmi"])
}
