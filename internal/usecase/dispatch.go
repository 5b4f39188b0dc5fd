package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xavierca1/quiz-funnel/internal/entity"
)

type DispatchStatus string

const (
	StatusSent    DispatchStatus = "sent"
	StatusFailed  DispatchStatus = "failed"
	StatusSkipped DispatchStatus = "skipped"
	StatusAborted DispatchStatus = "aborted"
)

type DispatchOutcome struct {
	LeadID string         `json:"lead_id"`
	Row    int            `json:"row"`
	Status DispatchStatus `json:"status"`
	Error  string         `json:"error,omitempty"`
}

// BatchResult soma o lote. Failed inclui os abortados.
type BatchResult struct {
	Sent        int               `json:"sent"`
	Failed      int               `json:"failed"`
	Skipped     int               `json:"skipped"`
	Aborted     int               `json:"aborted"`
	AbortReason string            `json:"abort_reason,omitempty"`
	Outcomes    []DispatchOutcome `json:"outcomes"`
}

func (r *BatchResult) add(c Candidate, status DispatchStatus, err error) {
	o := DispatchOutcome{LeadID: c.Lead.ID, Row: c.Index + 2, Status: status}
	if err != nil {
		o.Error = err.Error()
	}
	r.Outcomes = append(r.Outcomes, o)

	switch status {
	case StatusSent:
		r.Sent++
	case StatusFailed:
		r.Failed++
	case StatusSkipped:
		r.Skipped++
	case StatusAborted:
		r.Aborted++
		r.Failed++
	}
}

// Dispatcher envia as notificações de um lote em sequência, com espaçamento fixo
// entre envios. Não há retry.
type Dispatcher struct {
	Notifiers map[entity.Channel]Notifier
	Leads     *LeadLifecycle
	limiter   *rate.Limiter
	log       *zap.Logger
}

func NewDispatcher(notifiers map[entity.Channel]Notifier, leads *LeadLifecycle, delay time.Duration, log *zap.Logger) *Dispatcher {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Dispatcher{
		Notifiers: notifiers,
		Leads:     leads,
		limiter:   rate.NewLimiter(limit, 1),
		log:       log,
	}
}

// Dispatch percorre os candidatos. snapshot é a leitura da planilha de onde os
// candidatos saíram; ele recebe as flags gravadas durante o lote.
//
// Erro de transporte conta como falha e o lote segue. ErrTemplateDisabled é condição
// da conta no provedor: o lead atual e todos os restantes saem como abortados, sem envio.
func (d *Dispatcher) Dispatch(ctx context.Context, ch entity.Channel, candidates []Candidate, snapshot []entity.Lead) (*BatchResult, error) {
	notifier, ok := d.Notifiers[ch]
	if !ok || notifier == nil {
		return nil, fmt.Errorf("canal %s sem notificador: %w", ch, entity.ErrNotConfigured)
	}

	result := &BatchResult{Outcomes: make([]DispatchOutcome, 0, len(candidates))}
	notifiedPhones := map[string]bool{}
	var abortErr error

	for _, c := range candidates {
		if abortErr != nil {
			result.add(c, StatusAborted, abortErr)
			continue
		}

		phone := entity.LocalPhone(c.Lead.Phone)
		if notifiedPhones[phone] || (c.Index < len(snapshot) && snapshot[c.Index].Notified(ch)) {
			result.add(c, StatusSkipped, nil)
			continue
		}

		if err := d.limiter.Wait(ctx); err != nil {
			return result, err
		}

		err := notifier.Notify(ctx, c.Lead)
		if errors.Is(err, entity.ErrTemplateDisabled) {
			abortErr = err
			result.AbortReason = err.Error()
			result.add(c, StatusAborted, err)
			d.log.Error("🛑 Template desativado no provedor, abortando o lote",
				zap.String("channel", string(ch)),
				zap.String("lead_id", c.Lead.ID),
				zap.Int("remaining", len(candidates)-len(result.Outcomes)),
				zap.Error(err))
			continue
		}
		if errors.Is(err, entity.ErrNotConfigured) {
			return result, err
		}
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.add(c, StatusFailed, err)
			d.log.Warn("⚠️ Falha ao notificar lead",
				zap.String("channel", string(ch)),
				zap.String("lead_id", c.Lead.ID),
				zap.Error(err))
			continue
		}

		notifiedPhones[phone] = true
		if _, err := d.Leads.MarkNotified(ctx, snapshot, c.Index, ch); err != nil {
			// mensagem já saiu; registra o envio mesmo sem a flag gravada
			result.add(c, StatusSent, err)
			d.log.Error("❌ Notificado, mas falhou ao gravar flag",
				zap.String("channel", string(ch)),
				zap.String("lead_id", c.Lead.ID),
				zap.Error(err))
			continue
		}

		result.add(c, StatusSent, nil)
		d.log.Info("📤 Lead notificado",
			zap.String("channel", string(ch)),
			zap.String("lead_id", c.Lead.ID))
	}

	return result, nil
}
