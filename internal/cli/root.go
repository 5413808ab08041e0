package cli

import (
	"github.com/spf13/cobra"

	"github.com/tachoscope/tachoscope-backend/internal/tacho/service"
)

// App holds the services used by CLI commands.
type App struct {
	Analysis *service.Service
}

// NewRootCmd creates the top-level "tacho-analyze" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "tacho-analyze",
		Short:         "Analyse decoded tachograph driver cards",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newReportCmd(app),
		newInfractionsCmd(app),
	)

	return root
}

// analysisFlags are shared by every command that produces a report.
type analysisFlags struct {
	locale string
	from   string
	to     string
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.locale, "locale", "", "Locale of infraction descriptions (en|fr)")
	cmd.Flags().StringVar(&f.from, "from", "", "Keep days on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "Keep days on or before this date (YYYY-MM-DD)")
}

func (f *analysisFlags) options() service.AnalyzeOptions {
	return service.AnalyzeOptions{Locale: f.locale, From: f.from, To: f.to}
}
