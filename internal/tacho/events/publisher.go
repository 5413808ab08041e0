package events

import (
	"context"

	"github.com/tachoscope/tachoscope-backend/internal/tacho/domain"
	"github.com/tachoscope/tachoscope-backend/pkg/logger"
	"github.com/tachoscope/tachoscope-backend/pkg/messaging"
)

// ServiceName is the event source for everything published here
const ServiceName = "tacho-service"

// ReportEventPublisher publishes analysis events
type ReportEventPublisher struct {
	publisher messaging.EventPublisher
	logger    *logger.Logger
}

// NewReportEventPublisher creates a publisher on the tacho exchange
func NewReportEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*ReportEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeTachoEvents, ServiceName, log)
	if err != nil {
		return nil, err
	}
	return NewReportEventPublisherWith(publisher, log), nil
}

// NewReportEventPublisherWith wraps an existing publisher
func NewReportEventPublisherWith(publisher messaging.EventPublisher, log *logger.Logger) *ReportEventPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &ReportEventPublisher{
		publisher: publisher,
		logger:    log,
	}
}

// PublishReport publishes tacho.report.generated, then
// tacho.infractions.detected when the report has infractions.
// Failures are logged and never returned.
func (p *ReportEventPublisher) PublishReport(ctx context.Context, report *domain.Report) {
	if p == nil || report == nil {
		return
	}

	cardNumber := ""
	if report.Driver != nil && report.Driver.CardNumber != nil {
		cardNumber = *report.Driver.CardNumber
	}

	if err := p.publisher.Publish(ctx, messaging.EventReportGenerated, ReportGenerated(report)); err != nil {
		p.logger.Error().Err(err).Str("report_id", report.ID).Msg("failed to publish report generated event")
	}

	if len(report.Infractions) == 0 {
		return
	}

	data := messaging.InfractionsDetectedEvent{
		ReportID:    report.ID,
		CardNumber:  cardNumber,
		Infractions: make([]messaging.InfractionSummary, 0, len(report.Infractions)),
	}
	for _, inf := range report.Infractions {
		data.Infractions = append(data.Infractions, messaging.InfractionSummary{
			Date:     inf.Date,
			Type:     string(inf.Type),
			Severity: string(inf.Severity),
			Value:    inf.Value,
			Limit:    inf.Limit,
		})
	}

	if err := p.publisher.Publish(ctx, messaging.EventInfractionsDetected, data); err != nil {
		p.logger.Error().Err(err).Str("report_id", report.ID).Msg("failed to publish infractions detected event")
	}
}

// ReportGenerated builds the summary payload for a report
func ReportGenerated(report *domain.Report) messaging.ReportGeneratedEvent {
	data := messaging.ReportGeneratedEvent{
		ReportID:        report.ID,
		Generation:      report.Generation,
		DayCount:        len(report.Days),
		InfractionCount: len(report.Infractions),
		GeneratedAt:     report.GeneratedAt,
	}

	if d := report.Driver; d != nil {
		if d.CardNumber != nil {
			data.CardNumber = *d.CardNumber
		}
		if d.LastName != nil {
			data.DriverLastName = *d.LastName
		}
	}

	// Days are sorted most recent first
	if n := len(report.Days); n > 0 {
		data.LastDay = report.Days[0].Date
		data.FirstDay = report.Days[n-1].Date
	}

	for _, inf := range report.Infractions {
		if inf.Severity == domain.SeverityCritical {
			data.CriticalCount++
		}
	}

	return data
}
