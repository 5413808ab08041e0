package domain

import "time"

// ActivityKind is the canonical activity recorded by the tachograph
type ActivityKind string

const (
	ActivityRest         ActivityKind = "REST"
	ActivityAvailability ActivityKind = "AVAILABILITY"
	ActivityWork         ActivityKind = "WORK"
	ActivityDriving      ActivityKind = "DRIVING"
	// ActivityUnknown marks a code outside the decoder's 0..3 range.
	// Unknown intervals widen the active span but are never totalled.
	ActivityUnknown ActivityKind = "UNKNOWN"
)

// IsValid returns true for the four recorded kinds
func (k ActivityKind) IsValid() bool {
	switch k {
	case ActivityRest, ActivityAvailability, ActivityWork, ActivityDriving:
		return true
	case ActivityUnknown:
		return false
	}
	return false
}

// IsActive reports whether the kind belongs to the active span of a day:
// anything that is not rest, unknown codes included
func (k ActivityKind) IsActive() bool {
	return k != ActivityRest
}

// ActivityInterval is one contiguous stretch of a single activity
type ActivityInterval struct {
	Kind            ActivityKind `json:"kind"`
	StartMinute     int          `json:"start_minute"`
	EndMinute       int          `json:"end_minute"`
	DurationMinutes int          `json:"duration_minutes"`
	Start           string       `json:"start"`
	End             string       `json:"end"`
}

// DayRecord is the aggregated view of one calendar day
type DayRecord struct {
	Date             string             `json:"date"`
	Intervals        []ActivityInterval `json:"intervals"`
	TotalDriving     int                `json:"total_driving_minutes"`
	TotalWork        int                `json:"total_work_minutes"`
	TotalRest        int                `json:"total_rest_minutes"`
	TotalAvailable   int                `json:"total_available_minutes"`
	AmplitudeMinutes int                `json:"amplitude_minutes"`
}

// ServiceTime is driving plus work; availability and rest are excluded
func (d DayRecord) ServiceTime() int {
	return d.TotalDriving + d.TotalWork
}

// DriverInfo holds identity data read from the card. Every field is optional.
type DriverInfo struct {
	LastName       *string `json:"last_name"`
	FirstName      *string `json:"first_name"`
	LicenseNumber  *string `json:"license_number"`
	CardNumber     *string `json:"card_number"`
	BirthDate      *string `json:"birth_date"`
	IssueDate      *string `json:"issue_date"`
	ExpiryDate     *string `json:"expiry_date"`
	IssuingCountry *string `json:"issuing_country"`
}

// Report is the result of analysing one driver card
type Report struct {
	ID          string       `json:"id"`
	Generation  string       `json:"generation"`
	Driver      *DriverInfo  `json:"driver"`
	Days        []DayRecord  `json:"days"`
	Infractions []Infraction `json:"infractions"`
	Statistics  Statistics   `json:"statistics"`
	GeneratedAt time.Time    `json:"generated_at"`
}
