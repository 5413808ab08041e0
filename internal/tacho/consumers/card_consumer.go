package consumers

import (
	"bytes"
	"context"
	"fmt"

	"github.com/tachoscope/tachoscope-backend/internal/tacho/events"
	"github.com/tachoscope/tachoscope-backend/internal/tacho/service"
	"github.com/tachoscope/tachoscope-backend/pkg/logger"
	"github.com/tachoscope/tachoscope-backend/pkg/messaging"
)

// QueueName is the durable queue holding decoded cards for this service
const QueueName = "tacho-service.card-events"

// CardEventHandler analyses decoded cards received as events (testable without RabbitMQ)
type CardEventHandler struct {
	service *service.Service
	logger  *logger.Logger
}

// NewCardEventHandler creates a new handler
func NewCardEventHandler(svc *service.Service, log *logger.Logger) *CardEventHandler {
	return &CardEventHandler{
		service: svc,
		logger:  log,
	}
}

// HandleCardDecoded runs the analysis for a tacho.card.decoded event. The
// report itself is announced by the service's publisher.
func (h *CardEventHandler) HandleCardDecoded(ctx context.Context, event *messaging.Event) error {
	var data messaging.CardDecodedEvent
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("failed to unmarshal card decoded event: %w", err)
	}

	log := h.logger.WithCorrelationID(event.CorrelationID)

	if card := bytes.TrimSpace(data.Card); len(card) == 0 || bytes.Equal(card, []byte("null")) {
		log.Warn().Str("event_id", event.ID).Msg("card decoded event without card data, skipping")
		return nil
	}

	ctx = messaging.WithCorrelationID(ctx, event.CorrelationID)
	report, err := h.service.Analyze(ctx, data.Card, service.AnalyzeOptions{Locale: data.Locale})
	if err != nil {
		// Redelivering a card that does not parse cannot succeed
		log.Error().Err(err).Str("event_id", event.ID).Str("file_name", data.FileName).Msg("dropping undecodable card")
		return nil
	}

	log.Info().
		Str("event_id", event.ID).
		Str("report_id", report.ID).
		Str("file_name", data.FileName).
		Int("infractions", len(report.Infractions)).
		Msg("decoded card analysed")

	return nil
}

// CardEventConsumer consumes decoded cards from the tacho exchange
type CardEventConsumer struct {
	consumer *messaging.Consumer
	handler  *CardEventHandler
	logger   *logger.Logger
}

// NewCardEventConsumer declares the dead letter queue and the card queue,
// binds it and registers the handler
func NewCardEventConsumer(rmq *messaging.RabbitMQ, svc *service.Service, maxRetries int, log *logger.Logger) (*CardEventConsumer, error) {
	if err := rmq.DeclareDeadLetterQueue(events.ServiceName); err != nil {
		return nil, err
	}

	consumer, err := messaging.NewConsumer(rmq, QueueName, log)
	if err != nil {
		return nil, err
	}
	consumer.SetMaxRetries(maxRetries)

	if err := consumer.Subscribe(messaging.ExchangeTachoEvents, messaging.EventCardDecoded); err != nil {
		return nil, err
	}

	handler := NewCardEventHandler(svc, log)
	consumer.RegisterHandler(messaging.EventCardDecoded, handler.HandleCardDecoded)

	return &CardEventConsumer{
		consumer: consumer,
		handler:  handler,
		logger:   log,
	}, nil
}

// Start starts consuming messages
func (c *CardEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}
