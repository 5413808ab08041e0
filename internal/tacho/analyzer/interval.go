package analyzer

import "github.com/tachoscope/tachoscope-backend/internal/tacho/domain"

// ChangeEvent is an "activity changed to Code at Minute" sample
type ChangeEvent struct {
	Code   int
	Minute int
}

// ActiveSpan is the earliest start and latest end of the day's active
// (non-rest) intervals. With no activity it stays at First=1440, Last=0.
type ActiveSpan struct {
	First int
	Last  int
}

// NewActiveSpan returns a span at its sentinel values
func NewActiveSpan() ActiveSpan {
	return ActiveSpan{First: MinutesPerDay, Last: 0}
}

// Amplitude is Last-First, or zero when nothing was active
func (s ActiveSpan) Amplitude() int {
	if s.Last <= s.First {
		return 0
	}
	return s.Last - s.First
}

func (s *ActiveSpan) include(iv domain.ActivityInterval) {
	if !iv.Kind.IsActive() {
		return
	}
	if iv.StartMinute < s.First {
		s.First = iv.StartMinute
	}
	if iv.EndMinute > s.Last {
		s.Last = iv.EndMinute
	}
}

// BuildIntervals turns a day's change events, ordered by minute, into
// contiguous intervals. The last interval runs to the end of the day.
// Out-of-order events produce zero-length intervals instead of failing.
func BuildIntervals(events []ChangeEvent) ([]domain.ActivityInterval, ActiveSpan) {
	span := NewActiveSpan()
	intervals := make([]domain.ActivityInterval, 0, len(events))

	for i, ev := range events {
		end := MinutesPerDay
		if i+1 < len(events) {
			end = events[i+1].Minute
		}

		duration := end - ev.Minute
		if duration < 0 {
			duration = 0
		}

		iv := domain.ActivityInterval{
			Kind:            KindFromCode(ev.Code),
			StartMinute:     ev.Minute,
			EndMinute:       end,
			DurationMinutes: duration,
			Start:           FormatClock(ev.Minute),
			End:             FormatClock(end),
		}
		span.include(iv)
		intervals = append(intervals, iv)
	}

	return intervals, span
}
