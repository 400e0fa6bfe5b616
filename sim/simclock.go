package sim

import (
	"fmt"
	"math"
)

const (
	// WorkdaySeconds is the length of one simulated work day.
	WorkdaySeconds = 8 * 3600
	// WorkdayStartHour is the wall-clock hour at which each work day begins.
	WorkdayStartHour = 6
)

// FormatWorkdayClock renders simulated seconds as "day N HH:MM:SS", where
// each day is WorkdaySeconds long and starts at WorkdayStartHour.
func FormatWorkdayClock(t float64) string {
	if t < 0 || math.IsNaN(t) {
		t = 0
	}
	total := int64(t)
	day := total/WorkdaySeconds + 1
	within := total % WorkdaySeconds
	h := WorkdayStartHour + within/3600
	m := (within % 3600) / 60
	s := within % 60
	return fmt.Sprintf("day %d %02d:%02d:%02d", day, h, m, s)
}
