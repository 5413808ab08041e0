// Package card models the decoded driver-card structure handed over by the
// tachograph decoder. Only the blocks consumed by the analyzer are modelled.
package card

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Generation identifies which decoder shape a card was read from
type Generation string

const (
	GenerationNone Generation = "none"
	Generation1    Generation = "gen1"
	Generation2    Generation = "gen2"
)

// Block keys emitted by the decoder, without the generation suffix
const (
	keyIdentification = "card_identification_and_driver_card_holder_identification"
	keyLicence        = "card_driving_licence_information"
	keyActivity       = "card_driver_activity"
)

// Card is the decoded card resolved to a single generation.
// Blocks are nil when the decoder did not emit them or they were malformed.
type Card struct {
	Generation     Generation
	Identification *Identification
	Licence        *DrivingLicence
	Activity       *DriverActivity
}

// Identification groups card and holder identification
type Identification struct {
	CardIdentification             *CardIdentification
	CardHolderName                 *HolderName
	DriverCardHolderIdentification *DriverCardHolderIdentification
}

// CardIdentification is the card's own identity
type CardIdentification struct {
	CardNumber             Text      `json:"card_number"`
	CardIssuingMemberState Text      `json:"card_issuing_member_state"`
	CardIssueDate          Timestamp `json:"card_issue_date"`
	CardExpiryDate         Timestamp `json:"card_expiry_date"`
}

// HolderName is the name printed on the card
type HolderName struct {
	HolderSurname    Text `json:"holder_surname"`
	HolderFirstNames Text `json:"holder_first_names"`
}

// DriverCardHolderIdentification is the holder block of a driver card
type DriverCardHolderIdentification struct {
	CardHolderName      *HolderName
	CardHolderBirthDate Timestamp
}

// DrivingLicence is the driving licence block
type DrivingLicence struct {
	DrivingLicenceNumber Text `json:"driving_licence_number"`
}

// DriverActivity holds the daily records still in raw form so that one
// malformed day can be skipped without losing the others.
type DriverActivity struct {
	DailyRecords []json.RawMessage
}

// DailyRecord is one day of activity changes
type DailyRecord struct {
	ActivityRecordDate Timestamp        `json:"activity_record_date"`
	ActivityChangeInfo []ActivityChange `json:"activity_change_info"`
}

// ActivityChange is an "activity changed at minute X" event
type ActivityChange struct {
	WorkType int `json:"work_type"`
	Minutes  int `json:"minutes"`
}

// Parse decodes the decoder's JSON output. Invalid JSON is an error; valid
// JSON that is not card-shaped yields a card with GenerationNone.
func Parse(data []byte) (*Card, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("card data is not valid JSON")
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return &Card{Generation: GenerationNone}, nil
	}

	return FromDocument(doc), nil
}

// FromDocument resolves the generation once: gen1 when any "_1" block is
// present, otherwise gen2 when any "_2" block is present. Each block is then
// read from the resolved generation, falling back to the other one when the
// resolved generation lacks it.
func FromDocument(doc map[string]json.RawMessage) *Card {
	gen := resolveGeneration(doc)
	c := &Card{Generation: gen}
	if gen == GenerationNone {
		return c
	}

	suffixes := []string{"_1", "_2"}
	if gen == Generation2 {
		suffixes = []string{"_2", "_1"}
	}

	if raw, ok := lookup(doc, keyIdentification, suffixes); ok {
		c.Identification = decodeIdentification(raw)
	}
	if raw, ok := lookup(doc, keyLicence, suffixes); ok {
		var lic DrivingLicence
		if decodeInto(raw, &lic) {
			c.Licence = &lic
		}
	}
	if raw, ok := lookup(doc, keyActivity, suffixes); ok {
		c.Activity = decodeActivity(raw)
	}

	return c
}

// DecodeRecord decodes the i-th daily record
func (a *DriverActivity) DecodeRecord(i int) (*DailyRecord, error) {
	if i < 0 || i >= len(a.DailyRecords) {
		return nil, fmt.Errorf("daily record %d out of range", i)
	}
	var rec DailyRecord
	if err := json.Unmarshal(a.DailyRecords[i], &rec); err != nil {
		return nil, fmt.Errorf("decode daily record %d: %w", i, err)
	}
	return &rec, nil
}

func resolveGeneration(doc map[string]json.RawMessage) Generation {
	for _, suffix := range []string{"_1", "_2"} {
		for _, key := range []string{keyIdentification, keyLicence, keyActivity} {
			if _, ok := present(doc, key+suffix); ok {
				if suffix == "_1" {
					return Generation1
				}
				return Generation2
			}
		}
	}
	return GenerationNone
}

// lookup returns the first present block among key+suffix, in order
func lookup(doc map[string]json.RawMessage, key string, suffixes []string) (json.RawMessage, bool) {
	for _, suffix := range suffixes {
		if raw, ok := present(doc, key+suffix); ok {
			return raw, true
		}
	}
	return nil, false
}

func present(doc map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	raw, ok := doc[key]
	if !ok {
		return nil, false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false
	}
	return raw, true
}

func decodeInto(raw json.RawMessage, v any) bool {
	return json.Unmarshal(raw, v) == nil
}

// decodeIdentification decodes each sub-block on its own so a malformed
// holder block does not hide the card identification, and vice versa.
func decodeIdentification(raw json.RawMessage) *Identification {
	var fields map[string]json.RawMessage
	if !decodeInto(raw, &fields) {
		return nil
	}

	id := &Identification{}
	if sub, ok := present(fields, "card_identification"); ok {
		var ci CardIdentification
		if decodeInto(sub, &ci) {
			id.CardIdentification = &ci
		}
	}
	if sub, ok := present(fields, "card_holder_name"); ok {
		var name HolderName
		if decodeInto(sub, &name) {
			id.CardHolderName = &name
		}
	}
	if sub, ok := present(fields, "driver_card_holder_identification"); ok {
		id.DriverCardHolderIdentification = decodeHolderIdentification(sub)
	}
	return id
}

func decodeHolderIdentification(raw json.RawMessage) *DriverCardHolderIdentification {
	var fields map[string]json.RawMessage
	if !decodeInto(raw, &fields) {
		return nil
	}

	holder := &DriverCardHolderIdentification{}
	if sub, ok := present(fields, "card_holder_name"); ok {
		var name HolderName
		if decodeInto(sub, &name) {
			holder.CardHolderName = &name
		}
	}
	if sub, ok := present(fields, "card_holder_birth_date"); ok {
		holder.CardHolderBirthDate = Timestamp{raw: sub}
	}
	return holder
}

func decodeActivity(raw json.RawMessage) *DriverActivity {
	var block struct {
		DecodedActivityDailyRecords json.RawMessage `json:"decoded_activity_daily_records"`
	}
	if !decodeInto(raw, &block) {
		return nil
	}

	activity := &DriverActivity{}
	// A non-array value is treated as no records.
	_ = json.Unmarshal(block.DecodedActivityDailyRecords, &activity.DailyRecords)
	return activity
}
