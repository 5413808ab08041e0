package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	// Published by the decoder once a card file has been read
	EventCardDecoded = "tacho.card.decoded"

	// Analysis events
	EventReportGenerated     = "tacho.report.generated"
	EventInfractionsDetected = "tacho.infractions.detected"
)

// Exchange names
const (
	ExchangeTachoEvents = "tacho.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// CardDecodedEvent carries the decoder output for one card file
type CardDecodedEvent struct {
	FileName string          `json:"file_name,omitempty"`
	Locale   string          `json:"locale,omitempty"`
	Card     json.RawMessage `json:"card"`
}

// ReportGeneratedEvent is published for every analysed card
type ReportGeneratedEvent struct {
	ReportID        string    `json:"report_id"`
	Generation      string    `json:"generation"`
	CardNumber      string    `json:"card_number,omitempty"`
	DriverLastName  string    `json:"driver_last_name,omitempty"`
	DayCount        int       `json:"day_count"`
	FirstDay        string    `json:"first_day,omitempty"`
	LastDay         string    `json:"last_day,omitempty"`
	InfractionCount int       `json:"infraction_count"`
	CriticalCount   int       `json:"critical_count"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// InfractionSummary is the wire form of a single infraction
type InfractionSummary struct {
	Date     string `json:"date"`
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Value    int    `json:"value"`
	Limit    int    `json:"limit"`
}

// InfractionsDetectedEvent is published when a report has at least one infraction
type InfractionsDetectedEvent struct {
	ReportID    string              `json:"report_id"`
	CardNumber  string              `json:"card_number,omitempty"`
	Infractions []InfractionSummary `json:"infractions"`
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return uuid.NewString()
}
