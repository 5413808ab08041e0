package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tachoscope/tachoscope-backend/internal/tacho/domain"
	"github.com/tachoscope/tachoscope-backend/pkg/errors"
)

func newReportCmd(app *App) *cobra.Command {
	var (
		flags  analysisFlags
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "report <card.json>...",
		Short: "Print the full compliance report of one or more cards",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := analyzeFiles(cmd, app, args, flags)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			for _, r := range reports {
				if err := enc.Encode(r); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent JSON output")
	return cmd
}

// analyzeFiles reads every path and analyses the cards in batches no larger
// than the service accepts. Reports come back in path order.
func analyzeFiles(cmd *cobra.Command, app *App, paths []string, flags analysisFlags) ([]*domain.Report, error) {
	opts := flags.options()
	if err := opts.Validate(); err != nil {
		return nil, describeOptionsError(err)
	}

	cards := make([]json.RawMessage, 0, len(paths))
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		cards = append(cards, raw)
	}

	size := app.Analysis.MaxBatchSize()
	if size <= 0 {
		size = len(cards)
	}

	reports := make([]*domain.Report, 0, len(cards))
	for start := 0; start < len(cards); start += size {
		end := min(start+size, len(cards))
		batch, err := app.Analysis.AnalyzeBatch(cmd.Context(), cards[start:end], opts)
		if err != nil {
			return nil, describeBatchError(err, paths[start:end])
		}
		reports = append(reports, batch...)
	}
	return reports, nil
}

// describeOptionsError maps a validation failure back to the offending flag
func describeOptionsError(err error) error {
	var appErr *errors.AppError
	if !errors.As(err, &appErr) || len(appErr.Details) == 0 {
		return err
	}
	fields := make([]string, 0, len(appErr.Details))
	for field := range appErr.Details {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Errorf("invalid --%s: %s", fields[0], appErr.Details[fields[0]])
}

// describeBatchError names the offending file when the batch points at one
func describeBatchError(err error, paths []string) error {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		if idx, convErr := strconv.Atoi(appErr.Details["index"]); convErr == nil && idx >= 0 && idx < len(paths) {
			return fmt.Errorf("analysing %s: %w", paths[idx], err)
		}
	}
	return fmt.Errorf("analysing cards: %w", err)
}
