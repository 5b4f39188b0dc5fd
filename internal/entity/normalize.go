package entity

import (
	"strings"
	"sync/atomic"
	"time"
	"unicode"
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone mantém só os dígitos.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LocalPhone é a forma canônica do telefone na planilha: só dígitos, sem o DDI 55.
// Captura, webhooks de venda e buscas usam a mesma forma.
func LocalPhone(phone string) string {
	d := NormalizePhone(phone)
	if (len(d) == 12 || len(d) == 13) && strings.HasPrefix(d, "55") {
		return d[2:]
	}
	return d
}

func FormatBool(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "sim", "yes", "x", "verdadeiro":
		return true
	}
	return false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02",
}

// Brasil não tem horário de verão desde 2019; serve quando não há tzdata.
var brasilia = time.FixedZone("BRT", -3*60*60)

var sheetLocation atomic.Pointer[time.Location]

// SetSheetLocation define o fuso das datas digitadas sem offset na planilha.
func SetSheetLocation(loc *time.Location) {
	if loc != nil {
		sheetLocation.Store(loc)
	}
}

func SheetLocation() *time.Location {
	if loc := sheetLocation.Load(); loc != nil {
		return loc
	}
	return brasilia
}

// ParseTime aceita os formatos que aparecem na planilha (ISO e o padrão pt-BR do Sheets).
// Datas sem offset são lidas no fuso de SheetLocation.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	loc := SheetLocation()
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
