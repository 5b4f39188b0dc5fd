package sheets

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/xavierca1/quiz-funnel/internal/entity"
)

// Client implementa entity.RowStore sobre a API do Google Sheets. Os valores são
// gravados como RAW para o Sheets não converter telefone em número nem TRUE em booleano.
type Client struct {
	svc           *gsheets.Service
	spreadsheetID string
}

type Credentials struct {
	ServiceAccountJSON string
	ClientEmail        string
	PrivateKey         string
}

func NewClient(ctx context.Context, spreadsheetID string, creds Credentials) (*Client, error) {
	httpClient, err := serviceAccountClient(creds)
	if err != nil {
		return nil, err
	}
	return NewClientWithOptions(ctx, spreadsheetID, option.WithHTTPClient(httpClient))
}

func NewClientWithOptions(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Client, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("GOOGLE_SHEETS_ID ausente: %w", entity.ErrNotConfigured)
	}
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar serviço do Sheets: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func serviceAccountClient(creds Credentials) (*http.Client, error) {
	// o token é renovado pelo próprio oauth2 durante toda a vida do processo
	ctx := context.Background()

	if creds.ServiceAccountJSON != "" {
		cfg, err := google.JWTConfigFromJSON([]byte(creds.ServiceAccountJSON), gsheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("credencial da service account inválida: %w", err)
		}
		return cfg.Client(ctx), nil
	}

	if creds.ClientEmail != "" && creds.PrivateKey != "" {
		cfg := &jwt.Config{
			Email:      creds.ClientEmail,
			PrivateKey: []byte(strings.ReplaceAll(creds.PrivateKey, `\n`, "\n")),
			Scopes:     []string{gsheets.SpreadsheetsScope},
			TokenURL:   google.JWTTokenURL,
		}
		return cfg.Client(ctx), nil
	}

	return nil, fmt.Errorf("credenciais do Google ausentes: %w", entity.ErrNotConfigured)
}

func (c *Client) ReadRows(ctx context.Context, sheet string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheetRange(sheet, "A2:ZZ")).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		row := make([]string, len(raw))
		for j, v := range raw {
			row[j] = fmt.Sprint(v)
		}
		rows[i] = row
	}
	return rows, nil
}

func (c *Client) AppendRow(ctx context.Context, sheet string, row []string) error {
	vr := &gsheets.ValueRange{Values: [][]interface{}{toInterfaces(row)}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, sheetRange(sheet, "A1"), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func (c *Client) UpdateCells(ctx context.Context, sheet string, index int, cells map[int]string) error {
	if len(cells) == 0 {
		return nil
	}

	cols := make([]int, 0, len(cells))
	for col := range cells {
		cols = append(cols, col)
	}
	sort.Ints(cols)

	data := make([]*gsheets.ValueRange, 0, len(cols))
	for _, col := range cols {
		data = append(data, &gsheets.ValueRange{
			Range:  sheetRange(sheet, CellRef(col, index)),
			Values: [][]interface{}{{cells[col]}},
		})
	}

	_, err := c.svc.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, &gsheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}).Context(ctx).Do()
	return err
}

func (c *Client) WriteRow(ctx context.Context, sheet string, index int, row []string) error {
	vr := &gsheets.ValueRange{Values: [][]interface{}{toInterfaces(row)}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, sheetRange(sheet, CellRef(0, index)), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

func (c *Client) Ping(ctx context.Context) error {
	_, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	return err
}

// ColumnLetter converte o índice 0-based em letra de coluna (0 -> A, 26 -> AA).
func ColumnLetter(col int) string {
	var b []byte
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

// CellRef monta a referência A1 de uma linha de dados (o cabeçalho ocupa a linha 1).
func CellRef(col, index int) string {
	return fmt.Sprintf("%s%d", ColumnLetter(col), index+2)
}

func sheetRange(sheet, ref string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(sheet, "'", "''"), ref)
}

func toInterfaces(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
