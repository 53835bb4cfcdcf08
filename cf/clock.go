package cf

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Time source for the fallback start time and the creation/history stamps
var clock = clockwork.NewRealClock()

// Swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Current UTC time of the package clock
func Now() time.Time {
	return clock.Now().UTC()
}
