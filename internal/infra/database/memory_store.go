package database

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore é um entity.RowStore em memória, usado nos testes e com STORE_BACKEND=memory.
type MemoryStore struct {
	mu     sync.Mutex
	sheets map[string][][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sheets: make(map[string][][]string)}
}

func (s *MemoryStore) Seed(sheet string, rows ...[]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.sheets[sheet] = append(s.sheets[sheet], copyRow(r))
	}
}

func (s *MemoryStore) ReadRows(_ context.Context, sheet string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.sheets[sheet]
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = copyRow(r)
	}
	return out, nil
}

func (s *MemoryStore) AppendRow(_ context.Context, sheet string, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[sheet] = append(s.sheets[sheet], copyRow(row))
	return nil
}

func (s *MemoryStore) UpdateCells(_ context.Context, sheet string, index int, cells map[int]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.sheets[sheet]
	if index < 0 || index >= len(rows) {
		return fmt.Errorf("linha %d não existe em %s", index, sheet)
	}
	rows[index] = applyCells(rows[index], cells)
	return nil
}

func (s *MemoryStore) WriteRow(_ context.Context, sheet string, index int, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.sheets[sheet]
	if index < 0 || index >= len(rows) {
		return fmt.Errorf("linha %d não existe em %s", index, sheet)
	}
	rows[index] = copyRow(row)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func copyRow(r []string) []string {
	out := make([]string, len(r))
	copy(out, r)
	return out
}

func applyCells(row []string, cells map[int]string) []string {
	for col, v := range cells {
		for len(row) <= col {
			row = append(row, "")
		}
		row[col] = v
	}
	return row
}
