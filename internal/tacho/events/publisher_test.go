package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tachoscope/tachoscope-backend/internal/tacho/domain"
	"github.com/tachoscope/tachoscope-backend/internal/tacho/events"
	"github.com/tachoscope/tachoscope-backend/pkg/messaging"
	"github.com/tachoscope/tachoscope-backend/pkg/testutil"
)

func sampleReport() *domain.Report {
	return &domain.Report{
		ID:         "report-1",
		Generation: "gen1",
		Driver: &domain.DriverInfo{
			LastName:   testutil.PtrString("DUPONT"),
			CardNumber: testutil.PtrString("F000001234567000"),
		},
		Days: []domain.DayRecord{
			{Date: "2024-03-03"},
			{Date: "2024-03-02"},
			{Date: "2024-03-01"},
		},
		Infractions: []domain.Infraction{
			{Date: "2024-03-03", Type: domain.InfractionDailyDrivingCritical, Severity: domain.SeverityCritical, Value: 601, Limit: 600},
			{Date: "2024-03-01", Type: domain.InfractionAmplitudeAdvisory, Severity: domain.SeverityWarning, Value: 780, Limit: 720},
		},
		GeneratedAt: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestPublishReport(t *testing.T) {
	mock := testutil.NewMockPublisher()
	p := events.NewReportEventPublisherWith(mock, nil)

	p.PublishReport(context.Background(), sampleReport())

	published := mock.Events()
	require.Len(t, published, 2)
	assert.Equal(t, messaging.EventReportGenerated, published[0].Type)
	assert.Equal(t, messaging.EventInfractionsDetected, published[1].Type)

	generated, ok := published[0].Payload.(messaging.ReportGeneratedEvent)
	require.True(t, ok)
	assert.Equal(t, "report-1", generated.ReportID)
	assert.Equal(t, "F000001234567000", generated.CardNumber)
	assert.Equal(t, "DUPONT", generated.DriverLastName)
	assert.Equal(t, 3, generated.DayCount)
	assert.Equal(t, "2024-03-01", generated.FirstDay)
	assert.Equal(t, "2024-03-03", generated.LastDay)
	assert.Equal(t, 2, generated.InfractionCount)
	assert.Equal(t, 1, generated.CriticalCount)

	detected, ok := published[1].Payload.(messaging.InfractionsDetectedEvent)
	require.True(t, ok)
	require.Len(t, detected.Infractions, 2)
	assert.Equal(t, "DAILY_DRIVING_CRITICAL", detected.Infractions[0].Type)
	assert.Equal(t, "CRITICAL", detected.Infractions[0].Severity)
}

func TestPublishReport_NoInfractions(t *testing.T) {
	mock := testutil.NewMockPublisher()
	p := events.NewReportEventPublisherWith(mock, nil)

	report := sampleReport()
	report.Infractions = nil
	report.Driver = nil
	p.PublishReport(context.Background(), report)

	mock.AssertEventPublished(t, messaging.EventReportGenerated)
	assert.Empty(t, mock.EventsOfType(messaging.EventInfractionsDetected))
}

func TestPublishReport_FailureIsLogged(t *testing.T) {
	mock := testutil.NewMockPublisher()
	mock.Err = testutil.ErrPublishFailed
	log, buf := testutil.NewTestLogger()

	events.NewReportEventPublisherWith(mock, log).PublishReport(context.Background(), sampleReport())

	assert.True(t, buf.HasMessage("error", "failed to publish report generated event"))
	assert.True(t, buf.HasMessage("error", "failed to publish infractions detected event"))
}

func TestPublishReport_NilPublisher(t *testing.T) {
	var p *events.ReportEventPublisher
	assert.NotPanics(t, func() {
		p.PublishReport(context.Background(), sampleReport())
	})
}
