package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/quiz-funnel/internal/app"
	"github.com/xavierca1/quiz-funnel/internal/config"
	"github.com/xavierca1/quiz-funnel/internal/infra/logger"
	"github.com/xavierca1/quiz-funnel/internal/infra/obs"
	"github.com/xavierca1/quiz-funnel/internal/infra/queue"
	"github.com/xavierca1/quiz-funnel/internal/infra/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ configuração inválida: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("❌ logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, "quiz-funnel", cfg.OTelEndpoint, cfg.Environment)
	if err != nil {
		zlog.Warn("⚠️ Tracing desativado", zap.Error(err))
		shutdownTracer = func(context.Context) error { return nil }
	}

	a, err := app.New(ctx, cfg, zlog, true)
	if err != nil {
		zlog.Fatal("❌ Falha ao montar a aplicação", zap.Error(err))
	}
	defer a.Close()

	// Consumidor do ledger de vendas
	if a.Rabbit != nil {
		consumer := queue.NewWorker(a.Rabbit.Ch, a.RecordSale, zlog)
		go func() {
			if err := consumer.Start(ctx, queue.QueueName); err != nil {
				zlog.Error("❌ Consumidor de vendas parou", zap.Error(err))
			}
		}()
	} else {
		zlog.Info("📨 RABBITMQ_URL ausente, vendas vão direto para o ledger")
	}

	if cfg.SweepInterval > 0 {
		sweeper := worker.NewSweepWorker(a.Sweep, cfg.SweepInterval, zlog,
			worker.DefaultJobs(cfg.ZaiaThreshold(), cfg.RecoveryThreshold())...)
		go sweeper.Start(ctx)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(a),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("🔥 Quiz funnel rodando", zap.String("addr", cfg.HTTPAddr), zap.String("store", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("❌ Servidor HTTP caiu", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Info("🛑 Encerrando")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("❌ Shutdown HTTP", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		zlog.Warn("⚠️ Shutdown do tracer", zap.Error(err))
	}
}
