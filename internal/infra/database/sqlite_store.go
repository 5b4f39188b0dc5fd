package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

const sheetRowsSchema = `
	CREATE TABLE IF NOT EXISTS sheet_rows (
		sheet TEXT    NOT NULL,
		idx   INTEGER NOT NULL,
		cells TEXT    NOT NULL,
		PRIMARY KEY (sheet, idx)
	)
`

// SQLiteRowStore implementa entity.RowStore guardando cada linha como um array JSON.
type SQLiteRowStore struct {
	DB *sql.DB
}

func NewSQLiteRowStore(ctx context.Context, db *sql.DB) (*SQLiteRowStore, error) {
	if _, err := db.ExecContext(ctx, sheetRowsSchema); err != nil {
		return nil, fmt.Errorf("erro ao criar tabela sheet_rows: %w", err)
	}
	return &SQLiteRowStore{DB: db}, nil
}

func (s *SQLiteRowStore) ReadRows(ctx context.Context, sheet string) ([][]string, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT cells FROM sheet_rows WHERE sheet = ? ORDER BY idx`, sheet)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, fmt.Errorf("linha corrompida em %s: %w", sheet, err)
		}
		out = append(out, cells)
	}
	return out, rows.Err()
}

func (s *SQLiteRowStore) AppendRow(ctx context.Context, sheet string, row []string) error {
	raw, err := json.Marshal(row)
	if err != nil {
		return err
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO sheet_rows (sheet, idx, cells)
		VALUES (?, (SELECT COALESCE(MAX(idx) + 1, 0) FROM sheet_rows WHERE sheet = ?), ?)
	`, sheet, sheet, string(raw))
	return err
}

func (s *SQLiteRowStore) UpdateCells(ctx context.Context, sheet string, index int, cells map[int]string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx,
		`SELECT cells FROM sheet_rows WHERE sheet = ? AND idx = ?`, sheet, index).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("linha %d não existe em %s", index, sheet)
	}
	if err != nil {
		return err
	}

	var row []string
	if err := json.Unmarshal([]byte(raw), &row); err != nil {
		return err
	}
	row = applyCells(row, cells)

	if err := writeRowTx(ctx, tx, sheet, index, row); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteRowStore) WriteRow(ctx context.Context, sheet string, index int, row []string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := writeRowTx(ctx, tx, sheet, index, row); err != nil {
		return err
	}
	return tx.Commit()
}

func writeRowTx(ctx context.Context, tx *sql.Tx, sheet string, index int, row []string) error {
	raw, err := json.Marshal(row)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE sheet_rows SET cells = ? WHERE sheet = ? AND idx = ?`, string(raw), sheet, index)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("linha %d não existe em %s", index, sheet)
	}
	return nil
}

// Ping permite que o health check reporte o backend local.
func (s *SQLiteRowStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}
