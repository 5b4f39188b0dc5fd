package usecase

import (
	"sync"

	"github.com/xavierca1/quiz-funnel/internal/entity"
)

// LeadLocks serializa escrita na planilha por lead (e-mail ou telefone normalizado).
// Só vale dentro do processo.
type LeadLocks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewLeadLocks() *LeadLocks {
	return &LeadLocks{locks: make(map[string]*lockEntry)}
}

// Lock bloqueia a chave e devolve a função de liberação.
func (l *LeadLocks) Lock(key string) func() {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &lockEntry{}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

func leadKey(email, phone string) string {
	if e := entity.NormalizeEmail(email); e != "" {
		return "e:" + e
	}
	return "p:" + entity.LocalPhone(phone)
}
