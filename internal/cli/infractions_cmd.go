package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tachoscope/tachoscope-backend/internal/tacho/analyzer"
	"github.com/tachoscope/tachoscope-backend/internal/tacho/domain"
)

func newInfractionsCmd(app *App) *cobra.Command {
	var flags analysisFlags

	cmd := &cobra.Command{
		Use:   "infractions <card.json>",
		Short: "List the infractions found on a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := analyzeFiles(cmd, app, args, flags)
			if err != nil {
				return err
			}
			writeInfractions(cmd.OutOrStdout(), reports[0])
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func writeInfractions(w io.Writer, r *domain.Report) {
	if len(r.Infractions) == 0 {
		fmt.Fprintf(w, "No infractions over %d day(s).\n", r.Statistics.TotalDays)
		return
	}

	critical := 0
	fmt.Fprintf(w, "%-10s  %-28s  %-8s  %6s  %6s\n", "DATE", "TYPE", "SEVERITY", "VALUE", "LIMIT")
	for _, inf := range r.Infractions {
		if inf.Severity == domain.SeverityCritical {
			critical++
		}
		fmt.Fprintf(w, "%-10s  %-28s  %-8s  %6s  %6s\n",
			inf.Date,
			inf.Type,
			inf.Severity,
			analyzer.FormatDuration(inf.Value),
			analyzer.FormatDuration(inf.Limit),
		)
	}
	fmt.Fprintf(w, "\n%d infraction(s), %d critical, over %d day(s).\n",
		len(r.Infractions), critical, r.Statistics.TotalDays)
}
