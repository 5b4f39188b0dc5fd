package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/quiz-funnel/internal/entity"
	"github.com/xavierca1/quiz-funnel/internal/infra/http/middleware"
	"github.com/xavierca1/quiz-funnel/internal/usecase"
)

const maxWebhookBody = 1 << 20

type SaleConfirmer interface {
	Execute(ctx context.Context, ev *usecase.SaleEvent) (*usecase.ConfirmSaleOutput, error)
}

type WebhookHandler struct {
	Confirm     SaleConfirmer
	HublaToken  string
	CaktoSecret string
	log         *zap.Logger
}

func NewWebhookHandler(confirm SaleConfirmer, hublaToken, caktoSecret string, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		Confirm:     confirm,
		HublaToken:  hublaToken,
		CaktoSecret: caktoSecret,
		log:         log,
	}
}

func (h *WebhookHandler) HandleHubla(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, entity.SourceHubla)
}

func (h *WebhookHandler) HandleCakto(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, entity.SourceProprio)
}

// HandleSale recebe dos dois provedores e decide pelo formato do payload.
func (h *WebhookHandler) HandleSale(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, entity.SourceUnset)
}

func (h *WebhookHandler) handle(w http.ResponseWriter, r *http.Request, provider entity.CheckoutSource) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_BODY", "falha ao ler corpo")
		return
	}

	ev, err := usecase.ParseSaleEvent(body, provider)
	if err != nil {
		writeUseCaseError(w, h.log, err)
		return
	}

	if status, code, msg := h.authenticate(r, ev); status != 0 {
		h.log.Warn("🔒 Webhook recusado", zap.String("provider", string(ev.Provider)), zap.String("code", code))
		writeErrorResponse(w, status, code, msg)
		return
	}

	out, err := h.Confirm.Execute(r.Context(), ev)
	if err != nil {
		middleware.RecordSale(string(ev.Provider), "error")
		h.writeSaleError(w, ev, err)
		return
	}

	switch {
	case out.Ignored:
		middleware.RecordSale(string(ev.Provider), "ignored")
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "ignored": true, "event": ev.Event})
	case !out.LeadFound:
		middleware.RecordSale(string(ev.Provider), "lead_not_found")
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": false, "message": "lead não encontrado"})
	default:
		middleware.RecordSale(string(ev.Provider), "confirmed")
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":           true,
			"lead_id":           out.LeadID,
			"already_purchased": out.AlreadyPurchased,
		})
	}
}

// authenticate devolve status 0 quando o webhook é aceito.
func (h *WebhookHandler) authenticate(r *http.Request, ev *usecase.SaleEvent) (int, string, string) {
	var expected, given string
	switch ev.Provider {
	case entity.SourceHubla:
		expected, given = h.HublaToken, r.Header.Get("x-hubla-token")
	case entity.SourceProprio:
		expected, given = h.CaktoSecret, ev.Secret
	}

	if expected == "" {
		return http.StatusInternalServerError, "NOT_CONFIGURED", "segredo do webhook não configurado"
	}
	if subtle.ConstantTimeCompare([]byte(given), []byte(expected)) != 1 {
		return http.StatusUnauthorized, "UNAUTHORIZED", "token do webhook inválido"
	}
	return 0, "", ""
}

// writeSaleError só devolve não-2xx para payload inválido (400) e falta de
// configuração (500). Falha de planilha ou fila responde 200 com success:false para o
// provedor não entrar em loop de reenvio; a venda fica no log para reprocessar.
func (h *WebhookHandler) writeSaleError(w http.ResponseWriter, ev *usecase.SaleEvent, err error) {
	if usecase.IsDomainError(err) || errors.Is(err, entity.ErrNotConfigured) {
		writeUseCaseError(w, h.log, err)
		return
	}

	h.log.Error("❌ Falha ao processar venda",
		zap.String("provider", string(ev.Provider)),
		zap.String("event", ev.Event),
		zap.String("order_id", ev.OrderID),
		zap.Error(err))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": false,
		"message": "falha ao processar venda",
	})
}
