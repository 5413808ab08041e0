package analyzer

import "github.com/tachoscope/tachoscope-backend/internal/tacho/domain"

// AggregateDay sums the intervals of one day by kind.
//
// Daily rest is the complement of the active span: when the span is
// non-empty TotalRest becomes max(0, 1440-amplitude) and the raw sum of
// rest intervals is discarded. Unknown intervals widen the span but are
// not totalled.
//
// The second return value is false when the day has no intervals and no
// driving, in which case the record must be dropped.
func AggregateDay(date string, intervals []domain.ActivityInterval, span ActiveSpan) (domain.DayRecord, bool) {
	day := domain.DayRecord{
		Date:      date,
		Intervals: intervals,
	}

	for _, iv := range intervals {
		switch iv.Kind {
		case domain.ActivityDriving:
			day.TotalDriving += iv.DurationMinutes
		case domain.ActivityWork:
			day.TotalWork += iv.DurationMinutes
		case domain.ActivityAvailability:
			day.TotalAvailable += iv.DurationMinutes
		case domain.ActivityRest:
			day.TotalRest += iv.DurationMinutes
		case domain.ActivityUnknown:
		}
	}

	if amplitude := span.Amplitude(); amplitude > 0 {
		day.AmplitudeMinutes = amplitude
		day.TotalRest = MinutesPerDay - amplitude
		if day.TotalRest < 0 {
			day.TotalRest = 0
		}
	}

	if len(intervals) == 0 && day.TotalDriving == 0 {
		return domain.DayRecord{}, false
	}
	if day.Intervals == nil {
		day.Intervals = []domain.ActivityInterval{}
	}
	return day, true
}

// DaySpan is the elapsed time from the first interval's start to the last
// interval's end, regardless of kind.
func DaySpan(day domain.DayRecord) int {
	if len(day.Intervals) == 0 {
		return 0
	}
	span := day.Intervals[len(day.Intervals)-1].EndMinute - day.Intervals[0].StartMinute
	if span < 0 {
		return 0
	}
	return span
}
