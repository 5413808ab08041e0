package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tachoscope/tachoscope-backend/internal/tacho/domain"
)

func sampleReport() *domain.Report {
	days := []domain.DayRecord{
		{Date: "2024-03-03", TotalDriving: 300, TotalWork: 60, TotalRest: 900, TotalAvailable: 30},
		{Date: "2024-03-02", TotalDriving: 610, TotalWork: 120, TotalRest: 500},
		{Date: "2024-03-01", TotalDriving: 200, TotalRest: 1100},
	}
	infractions := []domain.Infraction{
		{Date: "2024-03-02", Type: domain.InfractionDailyDrivingCritical, Severity: domain.SeverityCritical},
		{Date: "2024-03-02", Type: domain.InfractionInsufficientDailyRest, Severity: domain.SeverityCritical},
		{Date: "2024-03-01", Type: domain.InfractionAmplitudeAdvisory, Severity: domain.SeverityWarning},
	}
	return &domain.Report{
		Days:        days,
		Infractions: infractions,
		Statistics:  domain.ComputeStatistics(days, infractions),
	}
}

func TestComputeStatistics(t *testing.T) {
	r := sampleReport()

	assert.Equal(t, 3, r.Statistics.TotalDays)
	assert.Equal(t, 1110, r.Statistics.TotalDrivingMinutes)
	assert.Equal(t, 180, r.Statistics.TotalWorkMinutes)
	assert.Equal(t, 2500, r.Statistics.TotalRestMinutes)
	assert.Equal(t, 30, r.Statistics.TotalAvailableMinutes)
	assert.InDelta(t, 370.0, r.Statistics.AverageDrivingPerDay, 0.001)
	assert.Equal(t, 2, r.Statistics.DaysWithInfractions)
	assert.Equal(t, 3, r.Statistics.TotalInfractions)
}

func TestComputeStatistics_Empty(t *testing.T) {
	stats := domain.ComputeStatistics(nil, nil)

	assert.Equal(t, domain.Statistics{}, stats)
}

func TestReport_Filter(t *testing.T) {
	r := sampleReport()

	filtered := r.Filter("2024-03-02", "2024-03-03")

	require.Len(t, filtered.Days, 2)
	assert.Equal(t, "2024-03-03", filtered.Days[0].Date)
	assert.Equal(t, "2024-03-02", filtered.Days[1].Date)
	assert.Len(t, filtered.Infractions, 2)
	assert.Equal(t, 2, filtered.Statistics.TotalDays)
	assert.Equal(t, 1, filtered.Statistics.DaysWithInfractions)

	// original untouched
	assert.Len(t, r.Days, 3)
	assert.Len(t, r.Infractions, 3)
}

func TestReport_Filter_OpenBounds(t *testing.T) {
	r := sampleReport()

	assert.Len(t, r.Filter("", "").Days, 3)
	assert.Len(t, r.Filter("2024-03-02", "").Days, 2)
	assert.Len(t, r.Filter("", "2024-03-01").Days, 1)
}

func TestActivityKind(t *testing.T) {
	tests := []struct {
		kind   domain.ActivityKind
		valid  bool
		active bool
	}{
		{domain.ActivityRest, true, false},
		{domain.ActivityAvailability, true, true},
		{domain.ActivityWork, true, true},
		{domain.ActivityDriving, true, true},
		{domain.ActivityUnknown, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.kind.IsValid())
			assert.Equal(t, tt.active, tt.kind.IsActive())
		})
	}
}

func TestSeverity_Rank(t *testing.T) {
	assert.Less(t, domain.SeverityInfo.Rank(), domain.SeverityWarning.Rank())
	assert.Less(t, domain.SeverityWarning.Rank(), domain.SeverityMajor.Rank())
	assert.Less(t, domain.SeverityMajor.Rank(), domain.SeverityCritical.Rank())
}
