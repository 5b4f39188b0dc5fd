package entity

import "context"

// RowStore é a planilha vista como tabela de linhas. O índice é 0-based sobre as
// linhas de dados (o cabeçalho fica fora), então a linha N da planilha é index+2.
type RowStore interface {
	ReadRows(ctx context.Context, sheet string) ([][]string, error)
	AppendRow(ctx context.Context, sheet string, row []string) error
	UpdateCells(ctx context.Context, sheet string, index int, cells map[int]string) error
	WriteRow(ctx context.Context, sheet string, index int, row []string) error
}

// Cell devolve a coluna i ou "" quando a linha veio cortada.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
