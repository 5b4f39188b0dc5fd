package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xavierca1/quiz-funnel/internal/app"
	"github.com/xavierca1/quiz-funnel/internal/usecase"
)

var (
	dashFrom string
	dashTo   string
)

func init() {
	rootCmd.AddCommand(dashboardCmd)

	dashboardCmd.Flags().StringVar(&dashFrom, "from", "", "data inicial (YYYY-MM-DD)")
	dashboardCmd.Flags().StringVar(&dashTo, "to", "", "data final, inclusiva (YYYY-MM-DD)")
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Resumo do funil no período",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, errs := usecase.ParseDateFilter(dashFrom, dashTo)
		if len(errs) > 0 {
			return usecase.NewValidationError(errs)
		}

		return withApp(cmd.Context(), func(a *app.App) error {
			out, err := a.Dashboard.Execute(cmd.Context(), input)
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "leads\t%d\n", out.TotalLeads)
			fmt.Fprintf(w, "quiz concluído\t%d\n", out.QuizCompleted)
			fmt.Fprintf(w, "compras\t%d (%.1f%%)\n", out.Purchased, out.ConversionRate*100)
			for src, n := range out.BySource {
				fmt.Fprintf(w, "  %s\t%d\n", src, n)
			}
			fmt.Fprintf(w, "zaia enviados\t%d\n", out.ZaiaSent)
			fmt.Fprintf(w, "recuperação enviados\t%d\n", out.RecoverySent)
			fmt.Fprintf(w, "vendas no ledger\t%d\n", out.SalesCount)
			fmt.Fprintf(w, "receita\tR$ %.2f\n", float64(out.RevenueCents)/100)
			return w.Flush()
		})
	},
}
