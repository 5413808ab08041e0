package analyzer

// Thresholds in minutes
const (
	MinutesPerDay = 1440

	DailyDrivingLimit    = 600 // 10h
	DailyDrivingAdvisory = 540 // 9h
	ContinuousDriving    = 270 // 4h30

	FullBreak       = 45
	SplitBreakFinal = 30
	SplitBreakFirst = 15

	NightServiceLimit = 600 // 10h
	ServiceTimeLimit  = 720 // 12h

	AmplitudeLimit    = 900 // 15h
	AmplitudeAdvisory = 720 // 12h

	MinimumDailyRest = 540 // 9h

	// Night window [00:00, 05:00)
	NightStart = 0
	NightEnd   = 300
)
