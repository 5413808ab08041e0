package analyzer

import "fmt"

// FormatDuration renders minutes as "4h30". Zero and negative values render as "0h00".
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return "0h00"
	}
	return fmt.Sprintf("%dh%02d", minutes/60, minutes%60)
}

// FormatClock renders a minute of the day as "HH:MM". 1440 renders as "24:00".
func FormatClock(minute int) string {
	if minute < 0 {
		minute = 0
	}
	if minute > MinutesPerDay {
		minute = MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
