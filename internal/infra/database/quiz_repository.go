package database

import (
	"context"
	"fmt"

	"github.com/xavierca1/quiz-funnel/internal/entity"
)

type QuizRepository struct {
	Store entity.RowStore
	Sheet string
}

func NewQuizRepository(store entity.RowStore, sheet string) *QuizRepository {
	return &QuizRepository{Store: store, Sheet: sheet}
}

func (r *QuizRepository) List(ctx context.Context) ([]entity.QuizSubmission, error) {
	rows, err := r.Store.ReadRows(ctx, r.Sheet)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler aba %s: %w", r.Sheet, err)
	}

	out := make([]entity.QuizSubmission, 0, len(rows))
	for _, row := range rows {
		out = append(out, quizFromRow(row))
	}
	return out, nil
}

// Upsert procura a linha pelo lead_id (varredura linear, primeira vence). Ao sobrescrever,
// o created_at original é mantido.
func (r *QuizRepository) Upsert(ctx context.Context, q *entity.QuizSubmission) (bool, error) {
	existing, err := r.List(ctx)
	if err != nil {
		return false, err
	}

	for i, e := range existing {
		if q.LeadID == "" || e.LeadID != q.LeadID {
			continue
		}
		if !e.CreatedAt.IsZero() {
			q.CreatedAt = e.CreatedAt
		}
		if err := r.Store.WriteRow(ctx, r.Sheet, i, quizToRow(q)); err != nil {
			return false, fmt.Errorf("erro ao sobrescrever quiz do lead %s: %w", q.LeadID, err)
		}
		return false, nil
	}

	if err := r.Store.AppendRow(ctx, r.Sheet, quizToRow(q)); err != nil {
		return false, fmt.Errorf("erro ao inserir quiz do lead %s: %w", q.LeadID, err)
	}
	return true, nil
}

func quizFromRow(row []string) entity.QuizSubmission {
	q := entity.QuizSubmission{Fields: make(map[string]string, len(entity.QuizColumns))}
	for i, col := range entity.QuizColumns {
		switch col {
		case "lead_id":
			q.LeadID = entity.Cell(row, i)
		case "created_at":
			q.CreatedAt, _ = entity.ParseTime(entity.Cell(row, i))
		case "updated_at":
			q.UpdatedAt, _ = entity.ParseTime(entity.Cell(row, i))
		default:
			if v := entity.Cell(row, i); v != "" {
				q.Fields[col] = v
			}
		}
	}
	return q
}

func quizToRow(q *entity.QuizSubmission) []string {
	row := make([]string, len(entity.QuizColumns))
	for i, col := range entity.QuizColumns {
		switch col {
		case "lead_id":
			row[i] = q.LeadID
		case "created_at":
			row[i] = entity.FormatTime(q.CreatedAt)
		case "updated_at":
			row[i] = entity.FormatTime(q.UpdatedAt)
		default:
			row[i] = q.Get(col)
		}
	}
	return row
}
