package domain

import "fmt"

// ToHours converts a minutes/seconds pair to fractional hours.
func ToHours(minutes, seconds int) float64 {
	return (float64(minutes) + float64(seconds)/60) / 60
}

// ToSeconds converts a minutes/seconds pair to whole seconds.
func ToSeconds(minutes, seconds int) int {
	return minutes*60 + seconds
}

// SplitSeconds floors a second count into minutes and a 0-59 remainder.
// Non-positive input yields 0, 0.
func SplitSeconds(total int) (minutes, seconds int) {
	if total <= 0 {
		return 0, 0
	}
	return total / 60, total % 60
}

// FormatClock renders a countdown as MM:SS. Minutes are not capped at 59,
// and negative input renders as 00:00.
func FormatClock(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}
