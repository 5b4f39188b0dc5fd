package usecase

import (
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/xavierca1/quiz-funnel/internal/entity"
)

// Extractor tenta tirar um valor do payload. As listas abaixo são tentadas em ordem
// e vence o primeiro valor válido.
type Extractor struct {
	Name string
	Fn   func(doc gjson.Result) string
}

func jsonPath(path string) Extractor {
	return Extractor{Name: path, Fn: func(doc gjson.Result) string {
		return strings.TrimSpace(doc.Get(path).String())
	}}
}

// jsonString só aceita quando o valor é string (no Hubla "event" é objeto).
func jsonString(path string) Extractor {
	return Extractor{Name: path, Fn: func(doc gjson.Result) string {
		v := doc.Get(path)
		if v.Type != gjson.String {
			return ""
		}
		return strings.TrimSpace(v.Str)
	}}
}

func fullName(first, last string) Extractor {
	return Extractor{Name: first + "+" + last, Fn: func(doc gjson.Result) string {
		return strings.TrimSpace(doc.Get(first).String() + " " + doc.Get(last).String())
	}}
}

var (
	EmailExtractors = []Extractor{
		jsonPath("data.customer.email"),
		jsonPath("event.user.email"),
		jsonPath("event.invoice.payer.email"),
		jsonPath("event.userEmail"),
		jsonPath("customer.email"),
		jsonPath("email"),
	}
	PhoneExtractors = []Extractor{
		jsonPath("data.customer.phone"),
		jsonPath("event.user.phone"),
		jsonPath("event.invoice.payer.phone"),
		jsonPath("event.userPhone"),
		jsonPath("customer.phone"),
		jsonPath("phone"),
	}
	NameExtractors = []Extractor{
		jsonPath("data.customer.name"),
		fullName("event.user.firstName", "event.user.lastName"),
		jsonPath("event.userName"),
		jsonPath("customer.name"),
		jsonPath("name"),
	}
	OrderIDExtractors = []Extractor{
		jsonPath("data.id"),
		jsonPath("data.refId"),
		jsonPath("event.invoice.id"),
		jsonPath("event.transactionId"),
		jsonString("id"),
	}
	ProductExtractors = []Extractor{
		jsonPath("data.product.name"),
		jsonPath("data.offer.name"),
		jsonPath("event.product.name"),
		jsonPath("event.productName"),
		jsonPath("product.name"),
	}
	EventExtractors = []Extractor{
		jsonString("event"),
		jsonString("type"),
	}
	StatusExtractors = []Extractor{
		jsonPath("data.status"),
		jsonPath("event.invoice.status"),
		jsonPath("status"),
	}
)

// FirstValid devolve o primeiro valor aceito por valid e o nome do extrator que o achou.
func FirstValid(doc gjson.Result, chain []Extractor, valid func(string) bool) (string, string) {
	for _, ex := range chain {
		v := ex.Fn(doc)
		if v != "" && (valid == nil || valid(v)) {
			return v, ex.Name
		}
	}
	return "", ""
}

type amountPath struct {
	path  string
	cents bool
}

// Cakto manda reais com casas decimais; Hubla v2 manda centavos.
var amountPaths = []amountPath{
	{"data.amount", false},
	{"data.baseAmount", false},
	{"event.invoice.amount.totalCents", true},
	{"event.totalAmount", false},
	{"amount", false},
}

func extractAmountCents(doc gjson.Result) int64 {
	for _, p := range amountPaths {
		v := doc.Get(p.path)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		f := v.Float()
		if f <= 0 {
			continue
		}
		if p.cents {
			return int64(math.Round(f))
		}
		return int64(math.Round(f * 100))
	}
	return 0
}

var approvedEvents = map[entity.CheckoutSource][]string{
	entity.SourceProprio: {"purchase_approved"},
	entity.SourceHubla:   {"invoice.payment_succeeded", "NewSale"},
}

func IsApprovedEvent(provider entity.CheckoutSource, event string) bool {
	for _, e := range approvedEvents[provider] {
		if e == event {
			return true
		}
	}
	return false
}

// DetectProvider reconhece o provedor pelo formato: Cakto manda "secret" e o objeto
// "data"; Hubla manda "event" como objeto ou "type" de invoice/NewSale.
func DetectProvider(doc gjson.Result) entity.CheckoutSource {
	if doc.Get("secret").Exists() && doc.Get("data").IsObject() {
		return entity.SourceProprio
	}
	t := doc.Get("type").String()
	if doc.Get("event").IsObject() || strings.HasPrefix(t, "invoice.") || t == "NewSale" {
		return entity.SourceHubla
	}
	return entity.SourceUnset
}

type SaleEvent struct {
	Provider    entity.CheckoutSource
	Event       string
	Approved    bool
	Secret      string
	OrderID     string
	Email       string
	Phone       string
	Name        string
	Product     string
	Status      string
	AmountCents int64
}

// ParseSaleEvent lê o webhook de venda. provider vazio faz a detecção pelo formato.
func ParseSaleEvent(body []byte, provider entity.CheckoutSource) (*SaleEvent, error) {
	if !gjson.ValidBytes(body) {
		return nil, &DomainError{Code: "INVALID_PAYLOAD", Message: "payload não é JSON válido"}
	}
	doc := gjson.ParseBytes(body)

	if provider == entity.SourceUnset {
		provider = DetectProvider(doc)
	}
	if provider == entity.SourceUnset {
		return nil, &DomainError{Code: "UNKNOWN_PROVIDER", Message: "formato de webhook não reconhecido"}
	}

	ev := &SaleEvent{Provider: provider}
	ev.Event, _ = FirstValid(doc, EventExtractors, nil)
	ev.Approved = IsApprovedEvent(provider, ev.Event)
	ev.Secret = doc.Get("secret").String()
	ev.OrderID, _ = FirstValid(doc, OrderIDExtractors, nil)
	ev.Email, _ = FirstValid(doc, EmailExtractors, func(s string) bool { return strings.Contains(s, "@") })
	ev.Email = entity.NormalizeEmail(ev.Email)
	phone, _ := FirstValid(doc, PhoneExtractors, func(s string) bool { return len(entity.NormalizePhone(s)) >= 10 })
	ev.Phone = entity.LocalPhone(phone)
	ev.Name, _ = FirstValid(doc, NameExtractors, nil)
	ev.Product, _ = FirstValid(doc, ProductExtractors, nil)
	ev.Status, _ = FirstValid(doc, StatusExtractors, nil)
	ev.AmountCents = extractAmountCents(doc)
	return ev, nil
}
