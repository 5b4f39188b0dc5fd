package usecase

import (
	"time"

	"github.com/xavierca1/quiz-funnel/internal/entity"
)

type Candidate struct {
	Lead  entity.Lead
	Index int
}

// ScanAbandoned seleciona, na ordem da planilha, os leads que passaram do threshold
// sem compra e sem notificação no canal. Sem nome ou telefone não há como notificar,
// então ficam de fora. Linhas sem created_at válido também.
func ScanAbandoned(leads []entity.Lead, now time.Time, threshold time.Duration, ch entity.Channel) []Candidate {
	var out []Candidate
	for i, l := range leads {
		if l.Purchased || l.Notified(ch) {
			continue
		}
		if l.CreatedAt.IsZero() || now.Sub(l.CreatedAt) < threshold {
			continue
		}
		if l.FirstName == "" || entity.NormalizePhone(l.Phone) == "" {
			continue
		}
		out = append(out, Candidate{Lead: l, Index: i})
	}
	return out
}
