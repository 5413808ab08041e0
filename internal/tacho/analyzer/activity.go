package analyzer

import "github.com/tachoscope/tachoscope-backend/internal/tacho/domain"

// KindFromCode maps a decoder work_type to an activity kind.
// Codes outside 0..3 map to ActivityUnknown.
func KindFromCode(code int) domain.ActivityKind {
	switch code {
	case 0:
		return domain.ActivityRest
	case 1:
		return domain.ActivityAvailability
	case 2:
		return domain.ActivityWork
	case 3:
		return domain.ActivityDriving
	default:
		return domain.ActivityUnknown
	}
}
