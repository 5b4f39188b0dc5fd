package entity

import (
	"context"
	"time"
)

// QuizColumns é o layout da aba de respostas do quiz, na ordem das colunas.
var QuizColumns = []string{
	"lead_id", "created_at", "updated_at", "first_name", "email", "phone",
	"gender", "age", "height_cm", "current_weight_kg", "target_weight_kg",
	"activity_level", "goal", "body_type", "diet_type", "meals_per_day",
	"water_intake", "sleep_hours", "restrictions", "allergies", "motivation",
	"event", "event_date", "bmi", "target_date", "plan", "checkout_variant",
	"checkout_url", "utm_source", "utm_medium", "utm_campaign", "utm_content",
	"utm_term", "status",
}

// QuizSubmission guarda as respostas por nome de coluna; colunas desconhecidas são descartadas.
type QuizSubmission struct {
	LeadID    string
	CreatedAt time.Time
	UpdatedAt time.Time
	Fields    map[string]string
}

func (q *QuizSubmission) Get(col string) string {
	if q.Fields == nil {
		return ""
	}
	return q.Fields[col]
}

type QuizRepositoryInterface interface {
	List(ctx context.Context) ([]QuizSubmission, error)
	// Upsert sobrescreve a linha do mesmo lead_id ou acrescenta uma nova.
	Upsert(ctx context.Context, q *QuizSubmission) (created bool, err error)
}
