package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xavierca1/quiz-funnel/internal/app"
	"github.com/xavierca1/quiz-funnel/internal/entity"
)

var (
	leadEmail string
	leadPhone string
)

func init() {
	rootCmd.AddCommand(leadCmd)
	leadCmd.AddCommand(leadFindCmd)

	leadFindCmd.Flags().StringVar(&leadEmail, "email", "", "e-mail do lead")
	leadFindCmd.Flags().StringVar(&leadPhone, "phone", "", "telefone do lead")
}

var leadCmd = &cobra.Command{
	Use:   "lead",
	Short: "Consulta leads da planilha de automação",
}

var leadFindCmd = &cobra.Command{
	Use:   "find",
	Short: "Procura um lead por e-mail ou telefone",
	Long: `Procura o lead como a API faz: e-mail primeiro, telefone como fallback.

Examples:
  funnelctl lead find --email ana@exemplo.com
  funnelctl lead find --phone "(11) 99999-8888" --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if leadEmail == "" && leadPhone == "" {
			return errors.New("informe --email ou --phone")
		}

		return withApp(cmd.Context(), func(a *app.App) error {
			lead, idx, err := a.Leads.Find(cmd.Context(),
				entity.NormalizeEmail(leadEmail), entity.LocalPhone(leadPhone))
			if err != nil {
				return err
			}

			if outputJSON {
				return printJSON(cmd.OutOrStdout(), struct {
					Row   int         `json:"row"`
					State string      `json:"state"`
					Lead  entity.Lead `json:"lead"`
				}{idx + 2, string(lead.State()), *lead})
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "linha\t%d\n", idx+2)
			fmt.Fprintf(w, "estado\t%s\n", lead.State())
			fmt.Fprintf(w, "lead_id\t%s\n", lead.ID)
			fmt.Fprintf(w, "nome\t%s\n", lead.FirstName)
			fmt.Fprintf(w, "email\t%s\n", lead.Email)
			fmt.Fprintf(w, "telefone\t%s\n", lead.Phone)
			fmt.Fprintf(w, "criado em\t%s\n", entity.FormatTime(lead.CreatedAt))
			fmt.Fprintf(w, "comprou\t%t (%s)\n", lead.Purchased, lead.CheckoutSource)
			fmt.Fprintf(w, "zaia\t%t\n", lead.ZaiaSent)
			fmt.Fprintf(w, "recuperação\t%t\n", lead.RecoverySent)
			return w.Flush()
		})
	},
}
