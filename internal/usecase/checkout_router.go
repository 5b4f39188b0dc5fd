package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/quiz-funnel/internal/entity"
)

// PlanCatalog guarda, por provedor, a URL de checkout de cada plano.
type PlanCatalog map[entity.CheckoutSource]map[string]string

func (c PlanCatalog) Lookup(provider entity.CheckoutSource, code string) (entity.Plan, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	base, ok := c[provider][code]
	if !ok || base == "" {
		return entity.Plan{}, fmt.Errorf("plano %q no provedor %q: %w", code, provider, entity.ErrPlanNotFound)
	}
	return entity.Plan{Code: code, Provider: provider, CheckoutURL: base}, nil
}

// CheckoutRouter escolhe o checkout do quiz concluído. O provedor vem da
// configuração; não existe sorteio entre provedores.
type CheckoutRouter struct {
	Provider entity.CheckoutSource
	Catalog  PlanCatalog
	Quiz     entity.QuizRepositoryInterface
	log      *zap.Logger
	now      func() time.Time
}

func NewCheckoutRouter(provider entity.CheckoutSource, catalog PlanCatalog, quiz entity.QuizRepositoryInterface, log *zap.Logger) *CheckoutRouter {
	if provider == entity.SourceUnset {
		provider = entity.SourceProprio
	}
	return &CheckoutRouter{
		Provider: provider,
		Catalog:  catalog,
		Quiz:     quiz,
		log:      log,
		now:      time.Now,
	}
}

func (uc *CheckoutRouter) Route(ctx context.Context, input CheckoutInput) (*CheckoutOutput, error) {
	if errs := ValidateCheckoutInput(input); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	plan, err := uc.Catalog.Lookup(uc.Provider, input.Plan)
	if err != nil {
		return nil, NewValidationError([]ValidationError{{"plan", "is not available"}})
	}

	checkoutURL, err := BuildCheckoutURL(plan.CheckoutURL, input.UTM)
	if err != nil {
		return nil, &TechnicalError{Code: "CONFIG_ERROR", Message: "URL de checkout inválida", Err: err}
	}

	leadID := strings.TrimSpace(input.LeadID)
	if leadID == "" {
		leadID = uuid.NewString()
	}

	now := uc.now().UTC()
	sub := &entity.QuizSubmission{
		LeadID:    leadID,
		CreatedAt: now,
		UpdatedAt: now,
		Fields:    quizFields(input, plan, checkoutURL),
	}

	created, err := uc.Quiz.Upsert(ctx, sub)
	if err != nil {
		return nil, storageError("falha ao gravar respostas do quiz", err)
	}

	uc.log.Info("🛒 Checkout roteado",
		zap.String("lead_id", leadID),
		zap.String("plan", plan.Code),
		zap.String("provider", string(plan.Provider)),
		zap.Bool("new_row", created))

	return &CheckoutOutput{
		LeadID:      leadID,
		CheckoutURL: checkoutURL,
		Provider:    plan.Provider,
	}, nil
}

// BuildCheckoutURL acrescenta os parâmetros de rastreio preenchidos à URL base,
// mantendo a query que ela já tem.
func BuildCheckoutURL(base string, utm UTMParams) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url sem esquema ou host: %q", base)
	}

	q := u.Query()
	for _, p := range []struct{ key, value string }{
		{"utm_source", utm.Source},
		{"utm_medium", utm.Medium},
		{"utm_campaign", utm.Campaign},
		{"utm_content", utm.Content},
		{"utm_term", utm.Term},
		{"src", utm.Src},
		{"sck", utm.Sck},
	} {
		if v := strings.TrimSpace(p.value); v != "" {
			q.Set(p.key, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func quizFields(input CheckoutInput, plan entity.Plan, checkoutURL string) map[string]string {
	known := make(map[string]bool, len(entity.QuizColumns))
	for _, c := range entity.QuizColumns {
		known[c] = true
	}

	fields := map[string]string{}
	for k, v := range input.Answers {
		k = strings.ToLower(strings.TrimSpace(k))
		if known[k] {
			fields[k] = strings.TrimSpace(v)
		}
	}

	set := func(k, v string) {
		if v != "" {
			fields[k] = v
		}
	}
	set("first_name", strings.TrimSpace(input.FirstName))
	set("email", entity.NormalizeEmail(input.Email))
	set("phone", entity.LocalPhone(input.Phone))
	set("plan", plan.Code)
	set("checkout_variant", string(plan.Provider))
	set("checkout_url", checkoutURL)
	set("utm_source", input.UTM.Source)
	set("utm_medium", input.UTM.Medium)
	set("utm_campaign", input.UTM.Campaign)
	set("utm_content", input.UTM.Content)
	set("utm_term", input.UTM.Term)
	fields["status"] = "checkout"
	if fields["bmi"] == "" {
		set("bmi", quizBMI(fields["height_cm"], fields["current_weight_kg"]))
	}

	// colunas controladas pelo repositório
	delete(fields, "lead_id")
	delete(fields, "created_at")
	delete(fields, "updated_at")
	return fields
}

// quizBMI calcula o IMC (peso / altura²) com uma casa decimal. Altura abaixo de 3 é
// tratada como metros. Devolve "" se algum dos dois não for número positivo.
func quizBMI(height, weight string) string {
	h, okH := parseAnswerNumber(height)
	w, okW := parseAnswerNumber(weight)
	if !okH || !okW || h <= 0 || w <= 0 {
		return ""
	}
	if h >= 3 {
		h /= 100
	}
	return strconv.FormatFloat(w/(h*h), 'f', 1, 64)
}

// parseAnswerNumber aceita vírgula decimal e unidade no fim ("72,5 kg", "170cm").
func parseAnswerNumber(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSpace(strings.TrimRight(s, "abcdefghijklmnopqrstuvwxyz "))
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
