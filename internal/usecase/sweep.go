package usecase

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xavierca1/quiz-funnel/internal/entity"
)

// SweepUseCase é uma passada do scanner de abandono seguida do disparo do lote.
type SweepUseCase struct {
	Repo       entity.LeadRepositoryInterface
	Dispatcher *Dispatcher
	running    *LeadLocks
	tracer     trace.Tracer
	log        *zap.Logger
	now        func() time.Time
}

func NewSweepUseCase(repo entity.LeadRepositoryInterface, dispatcher *Dispatcher, log *zap.Logger) *SweepUseCase {
	return &SweepUseCase{
		Repo:       repo,
		Dispatcher: dispatcher,
		running:    NewLeadLocks(),
		tracer:     otel.Tracer("quiz-funnel/usecase"),
		log:        log,
		now:        time.Now,
	}
}

func (uc *SweepUseCase) Execute(ctx context.Context, input SweepInput) (*SweepOutput, error) {
	if errs := ValidateSweepInput(input); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	// Worker e /cron podem disparar juntos: um sweep por canal de cada vez,
	// o segundo lê a planilha já com as flags do primeiro.
	release := uc.running.Lock("sweep:" + string(input.Channel))
	defer release()

	ctx, span := uc.tracer.Start(ctx, "sweep",
		trace.WithAttributes(
			attribute.String("funnel.channel", string(input.Channel)),
			attribute.Float64("funnel.threshold_minutes", input.Threshold.Minutes()),
		))
	defer span.End()

	leads, err := uc.Repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list leads")
		return nil, storageError("falha ao ler planilha de automação", err)
	}

	candidates := ScanAbandoned(leads, uc.now(), input.Threshold, input.Channel)
	out := &SweepOutput{
		Channel:    input.Channel,
		Scanned:    len(leads),
		Candidates: len(candidates),
	}
	span.SetAttributes(attribute.Int("funnel.candidates", len(candidates)))

	if len(candidates) == 0 {
		uc.log.Debug("🕒 Nenhum lead abandonado", zap.String("channel", string(input.Channel)))
		return out, nil
	}

	result, err := uc.Dispatcher.Dispatch(ctx, input.Channel, candidates, leads)
	if result != nil {
		out.BatchResult = *result
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dispatch")
		return out, err
	}

	span.SetAttributes(
		attribute.Int("funnel.sent", out.Sent),
		attribute.Int("funnel.failed", out.Failed),
	)
	uc.log.Info("✅ Sweep concluído",
		zap.String("channel", string(input.Channel)),
		zap.Int("candidates", out.Candidates),
		zap.Int("sent", out.Sent),
		zap.Int("failed", out.Failed),
		zap.Int("skipped", out.Skipped),
		zap.Int("aborted", out.Aborted))
	return out, nil
}
