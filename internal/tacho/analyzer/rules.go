package analyzer

import (
	"strings"

	"github.com/tachoscope/tachoscope-backend/internal/tacho/domain"
	"github.com/tachoscope/tachoscope-backend/pkg/i18n"
)

// Translator renders a catalogue message
type Translator interface {
	T(key string, params ...map[string]string) string
}

// BreakState tracks consecutive driving and the 15+30 split break.
//
// Transitions on Step:
//   - DRIVING adds to DrivingBlock; crossing 270 reports an excess and resets the block
//   - REST >= 45 resets everything
//   - REST in [30,45) after a first part resets everything
//   - REST >= 15 without a first part records the first part only
//
// Other kinds leave the state unchanged.
type BreakState struct {
	DrivingBlock      int
	HasFirstSplitPart bool
}

// Step folds one interval into the state. exceeded is the block length when
// the continuous driving limit was crossed on this interval, zero otherwise.
func (s BreakState) Step(iv domain.ActivityInterval) (next BreakState, exceeded int) {
	switch iv.Kind {
	case domain.ActivityDriving:
		s.DrivingBlock += iv.DurationMinutes
		if s.DrivingBlock > ContinuousDriving {
			exceeded = s.DrivingBlock
			s.DrivingBlock = 0
		}
	case domain.ActivityRest:
		switch {
		case iv.DurationMinutes >= FullBreak:
			s = BreakState{}
		case iv.DurationMinutes >= SplitBreakFinal && s.HasFirstSplitPart:
			s = BreakState{}
		case iv.DurationMinutes >= SplitBreakFirst && !s.HasFirstSplitPart:
			s.HasFirstSplitPart = true
		}
	case domain.ActivityWork, domain.ActivityAvailability, domain.ActivityUnknown:
	}
	return s, exceeded
}

// Detector evaluates the driving and working time rules day by day
type Detector struct {
	tr Translator
}

// NewDetector creates a detector rendering descriptions with tr.
// A nil translator uses the default locale.
func NewDetector(tr Translator) *Detector {
	if tr == nil {
		tr = i18n.NewLocalizer(i18n.DefaultLocale)
	}
	return &Detector{tr: tr}
}

// Detect returns the infractions for every day, in day order. Within a day
// the rules run in a fixed order: daily driving, continuous driving,
// service time, amplitude, daily rest.
func (d *Detector) Detect(days []domain.DayRecord) []domain.Infraction {
	infractions := []domain.Infraction{}
	for _, day := range days {
		infractions = append(infractions, d.DetectDay(day)...)
	}
	return infractions
}

// DetectDay evaluates a single day
func (d *Detector) DetectDay(day domain.DayRecord) []domain.Infraction {
	var out []domain.Infraction

	// Daily driving
	switch {
	case day.TotalDriving > DailyDrivingLimit:
		out = append(out, d.infraction(day.Date, domain.InfractionDailyDrivingCritical, domain.SeverityCritical, day.TotalDriving, DailyDrivingLimit))
	case day.TotalDriving > DailyDrivingAdvisory:
		out = append(out, d.infraction(day.Date, domain.InfractionDailyDrivingAdvisory, domain.SeverityInfo, day.TotalDriving, DailyDrivingAdvisory))
	}

	// Continuous driving
	var state BreakState
	for _, iv := range day.Intervals {
		var exceeded int
		state, exceeded = state.Step(iv)
		if exceeded > 0 {
			out = append(out, d.infraction(day.Date, domain.InfractionContinuousDrivingExceeded, domain.SeverityMajor, exceeded, ContinuousDriving))
		}
	}

	// Service time, stricter when any service falls in the night window
	service := day.ServiceTime()
	if hasNightWork(day.Intervals) {
		if service > NightServiceLimit {
			out = append(out, d.infraction(day.Date, domain.InfractionNightWorkExceeded, domain.SeverityMajor, service, NightServiceLimit))
		}
	} else if service > ServiceTimeLimit {
		out = append(out, d.infraction(day.Date, domain.InfractionExcessiveServiceTime, domain.SeverityMajor, service, ServiceTimeLimit))
	}

	// Amplitude
	switch amplitude := DaySpan(day); {
	case amplitude > AmplitudeLimit:
		out = append(out, d.infraction(day.Date, domain.InfractionExcessiveAmplitude, domain.SeverityCritical, amplitude, AmplitudeLimit))
	case amplitude > AmplitudeAdvisory:
		out = append(out, d.infraction(day.Date, domain.InfractionAmplitudeAdvisory, domain.SeverityWarning, amplitude, AmplitudeAdvisory))
	}

	// Daily rest
	if day.TotalRest < MinimumDailyRest {
		out = append(out, d.infraction(day.Date, domain.InfractionInsufficientDailyRest, domain.SeverityCritical, day.TotalRest, MinimumDailyRest))
	}

	return out
}

func (d *Detector) infraction(date string, typ domain.InfractionType, sev domain.Severity, value, limit int) domain.Infraction {
	return domain.Infraction{
		Date:     date,
		Type:     typ,
		Severity: sev,
		Description: d.tr.T("infractions."+strings.ToLower(string(typ)), map[string]string{
			"value": FormatDuration(value),
			"limit": FormatDuration(limit),
		}),
		Value: value,
		Limit: limit,
	}
}

// hasNightWork reports whether a driving or work interval starts in
// [00:00, 05:00) or ends in (00:00, 05:00]. Zero-length and out-of-order
// intervals count on their endpoints alone.
func hasNightWork(intervals []domain.ActivityInterval) bool {
	for _, iv := range intervals {
		switch iv.Kind {
		case domain.ActivityDriving, domain.ActivityWork:
			startsAtNight := iv.StartMinute >= NightStart && iv.StartMinute < NightEnd
			endsAtNight := iv.EndMinute > NightStart && iv.EndMinute <= NightEnd
			if startsAtNight || endsAtNight {
				return true
			}
		case domain.ActivityRest, domain.ActivityAvailability, domain.ActivityUnknown:
		}
	}
	return false
}
