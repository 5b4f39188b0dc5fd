package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xavierca1/quiz-funnel/internal/app"
	"github.com/xavierca1/quiz-funnel/internal/entity"
	"github.com/xavierca1/quiz-funnel/internal/usecase"
)

var (
	sweepChannel   string
	sweepThreshold time.Duration
)

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringVar(&sweepChannel, "channel", "zaia", "canal: zaia ou recovery")
	sweepCmd.Flags().DurationVar(&sweepThreshold, "threshold", 0, "idade mínima do lead (padrão: threshold configurado do canal)")
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Roda um sweep de abandono",
	Long: `Varre a planilha de automação e notifica os leads abandonados do canal.

Examples:
  # Zaia com o threshold do .env
  funnelctl sweep --channel zaia

  # Recuperação via WhatsApp para leads com mais de 2 horas
  funnelctl sweep --channel recovery --threshold 2h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ch := entity.Channel(sweepChannel)
		if !ch.Valid() {
			return fmt.Errorf("canal inválido: %q", sweepChannel)
		}

		return withApp(cmd.Context(), func(a *app.App) error {
			threshold := sweepThreshold
			if !cmd.Flags().Changed("threshold") {
				threshold = a.Config.ZaiaThreshold()
				if ch == entity.ChannelRecovery {
					threshold = a.Config.RecoveryThreshold()
				}
			}

			out, err := a.Sweep.Execute(cmd.Context(), usecase.SweepInput{Channel: ch, Threshold: threshold})
			if out != nil {
				if outputJSON {
					if perr := printJSON(cmd.OutOrStdout(), out); perr != nil {
						return perr
					}
				} else {
					printSweep(cmd, out)
				}
			}
			return err
		})
	},
}

func printSweep(cmd *cobra.Command, out *usecase.SweepOutput) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "canal %s: %d lidos, %d candidatos\n", out.Channel, out.Scanned, out.Candidates)
	fmt.Fprintf(w, "enviados %d, falhas %d, pulados %d, abortados %d\n", out.Sent, out.Failed, out.Skipped, out.Aborted)
	if out.AbortReason != "" {
		fmt.Fprintf(w, "lote abortado: %s\n", out.AbortReason)
	}
}
