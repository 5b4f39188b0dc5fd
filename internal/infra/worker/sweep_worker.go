package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/quiz-funnel/internal/entity"
	"github.com/xavierca1/quiz-funnel/internal/usecase"
)

type Sweeper interface {
	Execute(ctx context.Context, input usecase.SweepInput) (*usecase.SweepOutput, error)
}

// SweepWorker roda os sweeps de abandono dentro do processo, para quem não tem
// agendador externo chamando /api/cron.
type SweepWorker struct {
	sweeper      Sweeper
	jobs         []usecase.SweepInput
	tickInterval time.Duration
	log          *zap.Logger
	onTick       func() // usado nos testes
}

func NewSweepWorker(sweeper Sweeper, interval time.Duration, log *zap.Logger, jobs ...usecase.SweepInput) *SweepWorker {
	return &SweepWorker{
		sweeper:      sweeper,
		jobs:         jobs,
		tickInterval: interval,
		log:          log,
	}
}

func (w *SweepWorker) Start(ctx context.Context) {
	w.log.Info("🕒 Sweep Worker iniciado", zap.Duration("interval", w.tickInterval), zap.Int("jobs", len(w.jobs)))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("⚠️ Sweep Worker encerrado")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *SweepWorker) runOnce(ctx context.Context) {
	for _, job := range w.jobs {
		if ctx.Err() != nil {
			return
		}
		out, err := w.sweeper.Execute(ctx, job)
		if err != nil {
			w.log.Error("❌ Erro no sweep", zap.String("channel", string(job.Channel)), zap.Error(err))
			continue
		}
		if out.Sent > 0 || out.Failed > 0 {
			w.log.Info("✅ Sweep do worker",
				zap.String("channel", string(job.Channel)),
				zap.Int("sent", out.Sent),
				zap.Int("failed", out.Failed))
		}
	}
	if w.onTick != nil {
		w.onTick()
	}
}

// DefaultJobs são os dois sweeps do funil: Zaia logo após o abandono e
// recuperação por WhatsApp mais tarde.
func DefaultJobs(zaiaThreshold, recoveryThreshold time.Duration) []usecase.SweepInput {
	return []usecase.SweepInput{
		{Channel: entity.ChannelZaia, Threshold: zaiaThreshold},
		{Channel: entity.ChannelRecovery, Threshold: recoveryThreshold},
	}
}
