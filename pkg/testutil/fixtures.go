package testutil

import (
	"encoding/json"
	"fmt"
)

// CardFixture describes a decoded driver card as emitted by the decoder
type CardFixture struct {
	// Generation is 1 or 2 and selects the key suffix
	Generation   int
	Surname      string
	FirstNames   string
	CardNumber   string
	IssuingState interface{}
	IssueDate    interface{}
	ExpiryDate   interface{}
	BirthDate    interface{}
	LicenceNo    string
	Days         []DayFixture
	// NestedName places the holder name under driver_card_holder_identification
	NestedName bool
}

// DayFixture is one daily activity record
type DayFixture struct {
	Date   interface{}
	Events []ActivityEvent
}

// ActivityEvent is a {work_type, minutes} change
type ActivityEvent struct {
	Code   int
	Minute int
}

// FixtureFactory creates test fixtures with sensible defaults
type FixtureFactory struct {
	sequence int
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{sequence: 0}
}

// nextSeq returns the next sequence number for unique values
func (f *FixtureFactory) nextSeq() int {
	f.sequence++
	return f.sequence
}

// Card creates a generation 1 card fixture with a single holder and no days
func (f *FixtureFactory) Card(opts ...func(*CardFixture)) CardFixture {
	seq := f.nextSeq()

	c := CardFixture{
		Generation:   1,
		Surname:      "DUPONT",
		FirstNames:   "JEAN",
		CardNumber:   fmt.Sprintf("F%015d", seq),
		IssuingState: "F",
		IssueDate:    "2021-05-04T00:00:00Z",
		ExpiryDate:   "2026-05-03T00:00:00Z",
		BirthDate:    "1980-02-29",
		LicenceNo:    fmt.Sprintf("LIC%06d", seq),
		NestedName:   true,
	}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// WithGeneration selects the decoder generation
func WithGeneration(gen int) func(*CardFixture) {
	return func(c *CardFixture) {
		c.Generation = gen
	}
}

// WithHolder sets the holder's surname and first names
func WithHolder(surname, firstNames string) func(*CardFixture) {
	return func(c *CardFixture) {
		c.Surname = surname
		c.FirstNames = firstNames
	}
}

// WithCardNumber sets the card number
func WithCardNumber(number string) func(*CardFixture) {
	return func(c *CardFixture) {
		c.CardNumber = number
	}
}

// WithDay appends a daily record
func WithDay(date interface{}, events ...ActivityEvent) func(*CardFixture) {
	return func(c *CardFixture) {
		c.Days = append(c.Days, DayFixture{Date: date, Events: events})
	}
}

// Ev is shorthand for an ActivityEvent
func Ev(code, minute int) ActivityEvent {
	return ActivityEvent{Code: code, Minute: minute}
}

// Document renders the fixture as the decoder's top-level object
func (c CardFixture) Document() map[string]interface{} {
	suffix := fmt.Sprintf("_%d", c.Generation)

	name := map[string]interface{}{
		"holder_surname":     c.Surname,
		"holder_first_names": c.FirstNames,
	}
	holder := map[string]interface{}{
		"card_holder_birth_date": c.BirthDate,
	}
	ident := map[string]interface{}{
		"card_identification": map[string]interface{}{
			"card_number":               c.CardNumber,
			"card_issuing_member_state": c.IssuingState,
			"card_issue_date":           c.IssueDate,
			"card_expiry_date":          c.ExpiryDate,
		},
		"driver_card_holder_identification": holder,
	}
	if c.NestedName {
		holder["card_holder_name"] = name
	} else {
		ident["card_holder_name"] = name
	}

	records := make([]map[string]interface{}, 0, len(c.Days))
	for _, d := range c.Days {
		changes := make([]map[string]int, 0, len(d.Events))
		for _, e := range d.Events {
			changes = append(changes, map[string]int{"work_type": e.Code, "minutes": e.Minute})
		}
		records = append(records, map[string]interface{}{
			"activity_record_date": d.Date,
			"activity_change_info": changes,
		})
	}

	return map[string]interface{}{
		"card_identification_and_driver_card_holder_identification" + suffix: ident,
		"card_driving_licence_information" + suffix: map[string]interface{}{
			"driving_licence_number": c.LicenceNo,
		},
		"card_driver_activity" + suffix: map[string]interface{}{
			"decoded_activity_daily_records": records,
		},
	}
}

// JSON renders the fixture as decoder JSON
func (c CardFixture) JSON() []byte {
	return MustJSONBytes(c.Document())
}

// RawMessage renders the fixture as a json.RawMessage
func (c CardFixture) RawMessage() json.RawMessage {
	return json.RawMessage(c.JSON())
}
