package domain

import "math"

// SecondsToMinutes converts a duration in seconds to whole minutes, rounding
// to the nearest minute with halves rounded away from zero (90s is 2 minutes).
func SecondsToMinutes(seconds int) int {
	return int(math.Round(float64(seconds) / 60))
}
