package domain

// InfractionType identifies the rule that was violated
type InfractionType string

const (
	// RSE (Regulation 561/2006)
	InfractionDailyDrivingCritical      InfractionType = "DAILY_DRIVING_CRITICAL"
	InfractionDailyDrivingAdvisory      InfractionType = "DAILY_DRIVING_ADVISORY"
	InfractionContinuousDrivingExceeded InfractionType = "CONTINUOUS_DRIVING_EXCEEDED"
	InfractionInsufficientDailyRest     InfractionType = "INSUFFICIENT_DAILY_REST"

	// Labor code (road transport)
	InfractionNightWorkExceeded    InfractionType = "NIGHT_WORK_EXCEEDED"
	InfractionExcessiveServiceTime InfractionType = "EXCESSIVE_SERVICE_TIME"
	InfractionExcessiveAmplitude   InfractionType = "EXCESSIVE_AMPLITUDE"
	InfractionAmplitudeAdvisory    InfractionType = "AMPLITUDE_ADVISORY"
)

// Severity ranks an infraction
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityMajor    Severity = "MAJOR"
	SeverityCritical Severity = "CRITICAL"
)

// Rank orders severities from least to most serious
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 1
	case SeverityWarning:
		return 2
	case SeverityMajor:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

// Infraction is a single rule violation found on a given day
type Infraction struct {
	Date        string         `json:"date"`
	Type        InfractionType `json:"type"`
	Severity    Severity       `json:"severity"`
	Description string         `json:"description"`
	Value       int            `json:"value"`
	Limit       int            `json:"limit"`
}
