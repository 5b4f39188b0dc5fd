package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/quiz-funnel/internal/entity"
	"github.com/xavierca1/quiz-funnel/internal/infra/http/middleware"
	"github.com/xavierca1/quiz-funnel/internal/usecase"
)

type Sweeper interface {
	Execute(ctx context.Context, input usecase.SweepInput) (*usecase.SweepOutput, error)
}

// SweepHandler atende o agendador externo (/api/cron/*).
type SweepHandler struct {
	Sweep             Sweeper
	ZaiaThreshold     time.Duration
	RecoveryThreshold time.Duration
	log               *zap.Logger
}

func NewSweepHandler(sweep Sweeper, zaiaThreshold, recoveryThreshold time.Duration, log *zap.Logger) *SweepHandler {
	return &SweepHandler{
		Sweep:             sweep,
		ZaiaThreshold:     zaiaThreshold,
		RecoveryThreshold: recoveryThreshold,
		log:               log,
	}
}

func (h *SweepHandler) HandleAbandoned(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, entity.ChannelZaia, h.ZaiaThreshold)
}

func (h *SweepHandler) HandleRecovery(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, entity.ChannelRecovery, h.RecoveryThreshold)
}

func (h *SweepHandler) run(w http.ResponseWriter, r *http.Request, ch entity.Channel, threshold time.Duration) {
	// ?minutes= sobrescreve o threshold configurado
	if m := r.URL.Query().Get("minutes"); m != "" {
		n, err := strconv.Atoi(m)
		if err != nil || n < 0 {
			writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "minutes deve ser inteiro não negativo")
			return
		}
		threshold = time.Duration(n) * time.Minute
	}

	out, err := h.Sweep.Execute(r.Context(), usecase.SweepInput{Channel: ch, Threshold: threshold})
	if out != nil {
		middleware.RecordNotifications(string(ch), out.Sent, out.Failed, out.Skipped, out.Aborted)
		if out.Failed > 0 {
			middleware.RecordIntegrationError(providerFor(ch))
		}
	}
	if err != nil {
		result := "error"
		if errors.Is(err, entity.ErrNotConfigured) {
			result = "not_configured"
		}
		middleware.RecordSweep(string(ch), result)
		writeUseCaseError(w, h.log, err)
		return
	}

	result := "ok"
	if out.Aborted > 0 {
		result = "aborted"
	}
	middleware.RecordSweep(string(ch), result)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  out,
	})
}

func providerFor(ch entity.Channel) string {
	if ch == entity.ChannelRecovery {
		return "whatsapp"
	}
	return "zaia"
}
