package analyzer

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tachoscope/tachoscope-backend/internal/tacho/card"
	"github.com/tachoscope/tachoscope-backend/internal/tacho/domain"
	"github.com/tachoscope/tachoscope-backend/pkg/logger"
)

// Analyzer turns a decoded card into a compliance report. It holds no
// mutable state and is safe for concurrent use.
type Analyzer struct {
	log   *logger.Logger
	tr    Translator
	now   func() time.Time
	newID func() string
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithLogger sets the logger used for soft failures
func WithLogger(log *logger.Logger) Option {
	return func(a *Analyzer) {
		if log != nil {
			a.log = log.WithComponent("analyzer")
		}
	}
}

// WithTranslator sets the catalogue used for infraction descriptions
func WithTranslator(tr Translator) Option {
	return func(a *Analyzer) {
		if tr != nil {
			a.tr = tr
		}
	}
}

// WithClock overrides the generation timestamp source
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// WithIDGenerator overrides report id generation
func WithIDGenerator(newID func() string) Option {
	return func(a *Analyzer) {
		if newID != nil {
			a.newID = newID
		}
	}
}

// New creates an analyzer
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		log:   logger.Nop(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GenerateReport analyses one card. It never fails: missing identity gives
// a nil driver, bad days are dropped, and a card with no recognised
// generation yields an empty report.
func (a *Analyzer) GenerateReport(c *card.Card) *domain.Report {
	if c == nil {
		c = &card.Card{Generation: card.GenerationNone}
	}

	report := &domain.Report{
		ID:         a.newID(),
		Generation: string(c.Generation),
		Driver:     ExtractDriverInfo(c, a.log),
	}
	log := a.log.WithReportID(report.ID)

	report.Days = a.buildDays(c, log)
	report.Infractions = NewDetector(a.tr).Detect(report.Days)
	report.Statistics = domain.ComputeStatistics(report.Days, report.Infractions)
	report.GeneratedAt = a.now().UTC()

	log.Debug().
		Str("generation", report.Generation).
		Int("days", len(report.Days)).
		Int("infractions", len(report.Infractions)).
		Msg("report generated")

	return report
}

// buildDays decodes every daily record and returns the kept days sorted
// most recent first.
func (a *Analyzer) buildDays(c *card.Card, log *logger.Logger) []domain.DayRecord {
	days := []domain.DayRecord{}
	if c.Activity == nil {
		return days
	}

	for i := range c.Activity.DailyRecords {
		rec, err := c.Activity.DecodeRecord(i)
		if err != nil {
			log.Warn().Err(err).Int("record", i).Msg("dropping malformed daily record")
			continue
		}

		date, err := rec.ActivityRecordDate.Calendar()
		if err != nil {
			log.Warn().Err(err).Int("record", i).Msg("dropping daily record without usable date")
			continue
		}

		events := make([]ChangeEvent, len(rec.ActivityChangeInfo))
		for j, change := range rec.ActivityChangeInfo {
			events[j] = ChangeEvent{Code: change.WorkType, Minute: change.Minutes}
		}

		intervals, span := BuildIntervals(events)
		day, ok := AggregateDay(date, intervals, span)
		if !ok {
			log.Debug().Str("date", date).Msg("skipping empty day")
			continue
		}
		days = append(days, day)
	}

	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date > days[j].Date
	})
	return days
}
