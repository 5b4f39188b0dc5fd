// Package main implementa o funnelctl, CLI de operação do funil (sweeps manuais,
// consulta de leads e resumo do dashboard) direto sobre a planilha.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xavierca1/quiz-funnel/internal/app"
	"github.com/xavierca1/quiz-funnel/internal/config"
	"github.com/xavierca1/quiz-funnel/internal/infra/logger"
)

var (
	logLevel   string
	outputJSON bool
	version    = "dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "funnelctl",
	Short: "Operação do quiz funnel",
	Long: `funnelctl roda as mesmas operações da API direto sobre o backend configurado
(STORE_BACKEND), lendo a configuração do .env e do ambiente.`,
	Version:       version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "nível de log (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "saída em JSON")
}

// withApp carrega a configuração e monta a aplicação sem fila: vendas, se houver,
// vão direto para o ledger.
func withApp(ctx context.Context, fn func(*app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuração: %w", err)
	}

	log, err := logger.New(logLevel, "console")
	if err != nil {
		return err
	}
	defer log.Sync()

	a, err := app.New(ctx, cfg, log, false)
	if err != nil {
		log.Error("❌ Falha ao montar a aplicação", zap.Error(err))
		return err
	}
	defer a.Close()

	return fn(a)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
