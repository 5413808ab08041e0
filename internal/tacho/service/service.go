package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tachoscope/tachoscope-backend/internal/tacho/analyzer"
	"github.com/tachoscope/tachoscope-backend/internal/tacho/card"
	"github.com/tachoscope/tachoscope-backend/internal/tacho/domain"
	"github.com/tachoscope/tachoscope-backend/pkg/config"
	"github.com/tachoscope/tachoscope-backend/pkg/errors"
	"github.com/tachoscope/tachoscope-backend/pkg/i18n"
	"github.com/tachoscope/tachoscope-backend/pkg/logger"
)

const dateLayout = "2006-01-02"

// ReportPublisher announces generated reports
type ReportPublisher interface {
	PublishReport(ctx context.Context, report *domain.Report)
}

// AnalyzeOptions narrows and localises a report
type AnalyzeOptions struct {
	// Locale of infraction descriptions. Empty uses the request context locale.
	Locale string
	// From and To bound the days kept, inclusive, as YYYY-MM-DD. Empty is open.
	From string
	To   string
}

// Validate checks the date bounds
func (o AnalyzeOptions) Validate() error {
	details := map[string]string{}
	if o.From != "" {
		if _, err := time.Parse(dateLayout, o.From); err != nil {
			details["from"] = "must be a date formatted as " + dateLayout
		}
	}
	if o.To != "" {
		if _, err := time.Parse(dateLayout, o.To); err != nil {
			details["to"] = "must be a date formatted as " + dateLayout
		}
	}
	if len(details) == 0 && o.From != "" && o.To != "" && o.From > o.To {
		details["from"] = "must not be after to"
	}
	if len(details) > 0 {
		return errors.Validation(details)
	}
	return nil
}

// Service runs card analyses
type Service struct {
	cfg       config.AnalysisConfig
	publisher ReportPublisher
	log       *logger.Logger
	opts      []analyzer.Option
}

// NewService creates a new analysis service. publisher may be nil.
func NewService(cfg config.AnalysisConfig, publisher ReportPublisher, log *logger.Logger, opts ...analyzer.Option) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		cfg:       cfg,
		publisher: publisher,
		log:       log.WithComponent("analysis"),
		opts:      opts,
	}
}

// MaxBatchSize is the largest batch AnalyzeBatch accepts, zero when unbounded
func (s *Service) MaxBatchSize() int {
	return s.cfg.MaxBatchSize
}

// Analyze parses the decoder output and generates a report.
// Only undecodable JSON and invalid options are errors; anything that
// parses yields a report, possibly empty.
func (s *Service) Analyze(ctx context.Context, raw []byte, opts AnalyzeOptions) (*domain.Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	c, err := card.Parse(raw)
	if err != nil {
		return nil, errors.InvalidJSON()
	}

	return s.AnalyzeCard(ctx, c, opts), nil
}

// AnalyzeCard generates a report for an already parsed card. Options are
// assumed valid.
func (s *Service) AnalyzeCard(ctx context.Context, c *card.Card, opts AnalyzeOptions) *domain.Report {
	locale := opts.Locale
	if locale == "" {
		if fromCtx, ok := i18n.LookupLocale(ctx); ok {
			locale = fromCtx
		} else {
			locale = s.cfg.DefaultLocale
		}
	}

	start := time.Now()
	a := analyzer.New(append([]analyzer.Option{
		analyzer.WithLogger(s.log),
		analyzer.WithTranslator(i18n.NewLocalizer(locale)),
	}, s.opts...)...)
	report := a.GenerateReport(c)

	if opts.From != "" || opts.To != "" {
		report = report.Filter(opts.From, opts.To)
	}

	s.log.Info().
		Str("report_id", report.ID).
		Str("generation", report.Generation).
		Int("days", len(report.Days)).
		Int("infractions", len(report.Infractions)).
		Dur("duration", time.Since(start)).
		Msg("card analysed")

	if s.publisher != nil {
		s.publisher.PublishReport(ctx, report)
	}

	return report
}

// AnalyzeBatch analyses several cards in parallel and returns the reports in
// input order. An undecodable card fails the whole batch and nothing is
// analysed or published.
func (s *Service) AnalyzeBatch(ctx context.Context, cards []json.RawMessage, opts AnalyzeOptions) ([]*domain.Report, error) {
	if len(cards) == 0 {
		return nil, errors.Validation(map[string]string{"cards": "at least one card is required"})
	}
	if s.cfg.MaxBatchSize > 0 && len(cards) > s.cfg.MaxBatchSize {
		return nil, errors.Validation(map[string]string{
			"cards": fmt.Sprintf("at most %d cards per batch", s.cfg.MaxBatchSize),
		})
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	// Parse everything first so a bad card fails the batch before any
	// report is published.
	parsed := make([]*card.Card, len(cards))
	for i, raw := range cards {
		c, err := card.Parse(raw)
		if err != nil {
			s.log.Warn().Err(err).Int("index", i).Int("cards", len(cards)).Msg("batch rejected")
			return nil, errors.UnprocessableCard(err).WithDetails(map[string]string{
				"index": fmt.Sprintf("%d", i),
			})
		}
		parsed[i] = c
	}

	reports := make([]*domain.Report, len(parsed))

	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.BatchConcurrency > 0 {
		g.SetLimit(s.cfg.BatchConcurrency)
	}

	for i, c := range parsed {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = s.AnalyzeCard(gctx, c, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.log.Warn().Err(err).Int("cards", len(cards)).Msg("batch analysis aborted")
		return nil, err
	}

	return reports, nil
}
