package domain

// Statistics summarises a report's days and infractions
type Statistics struct {
	TotalDays             int     `json:"total_days"`
	TotalDrivingMinutes   int     `json:"total_driving_minutes"`
	TotalWorkMinutes      int     `json:"total_work_minutes"`
	TotalRestMinutes      int     `json:"total_rest_minutes"`
	TotalAvailableMinutes int     `json:"total_available_minutes"`
	AverageDrivingPerDay  float64 `json:"average_driving_per_day"`
	DaysWithInfractions   int     `json:"days_with_infractions"`
	TotalInfractions      int     `json:"total_infractions"`
}

// ComputeStatistics sums the day totals and counts distinct infraction dates
func ComputeStatistics(days []DayRecord, infractions []Infraction) Statistics {
	stats := Statistics{
		TotalDays:        len(days),
		TotalInfractions: len(infractions),
	}

	for _, d := range days {
		stats.TotalDrivingMinutes += d.TotalDriving
		stats.TotalWorkMinutes += d.TotalWork
		stats.TotalRestMinutes += d.TotalRest
		stats.TotalAvailableMinutes += d.TotalAvailable
	}

	if len(days) > 0 {
		stats.AverageDrivingPerDay = float64(stats.TotalDrivingMinutes) / float64(len(days))
	}

	dates := make(map[string]struct{}, len(infractions))
	for _, inf := range infractions {
		dates[inf.Date] = struct{}{}
	}
	stats.DaysWithInfractions = len(dates)

	return stats
}

// Filter returns a copy of the report restricted to the inclusive date range.
// Empty bounds are open. Dates are compared as YYYY-MM-DD strings.
func (r *Report) Filter(from, to string) *Report {
	inRange := func(date string) bool {
		if from != "" && date < from {
			return false
		}
		if to != "" && date > to {
			return false
		}
		return true
	}

	filtered := *r
	filtered.Days = make([]DayRecord, 0, len(r.Days))
	for _, d := range r.Days {
		if inRange(d.Date) {
			filtered.Days = append(filtered.Days, d)
		}
	}

	filtered.Infractions = make([]Infraction, 0, len(r.Infractions))
	for _, inf := range r.Infractions {
		if inRange(inf.Date) {
			filtered.Infractions = append(filtered.Infractions, inf)
		}
	}

	filtered.Statistics = ComputeStatistics(filtered.Days, filtered.Infractions)
	return &filtered
}
