package profiles

import (
	"fmt"
	"slices"
	"time"
)

// Used when no --profile is given
const DEFAULT_PROFILE string = "standard"

// Gross range and spike thresholds shared by the "basic" and "dummy-time" profiles
var (
	basicTemperature = Thresholds{
		FailSpan:     [2]float64{-5, 45},
		SuspectSpan:  [2]float64{-2, 35},
		SpikeSuspect: 0.5,
		SpikeFail:    1.0,
	}
	basicSalinity = Thresholds{
		FailSpan:     [2]float64{0, 50},
		SuspectSpan:  [2]float64{0.1, 42},
		SpikeSuspect: 1.0,
		SpikeFail:    2.0,
	}
	basicDefault = Thresholds{
		FailSpan:     [2]float64{0, 100},
		SuspectSpan:  [2]float64{0.01, 90},
		SpikeSuspect: 5.0,
		SpikeFail:    10.0,
	}
)

// Adds the flat line and rate of change thresholds used with the index time axis
func withDummyTime(t Thresholds) Thresholds {
	t.FlatSuspect = 5 * time.Second
	t.FlatFail = 10 * time.Second
	t.FlatTolerance = 0.001
	t.RocThreshold = 2.5
	return t
}

// Same spike and time-based thresholds for every variable, only the spans differ
func standard(suspect, fail [2]float64) Thresholds {
	return Thresholds{
		SuspectSpan:   suspect,
		FailSpan:      fail,
		SpikeSuspect:  5.0,
		SpikeFail:     10.0,
		FlatSuspect:   20 * time.Second,
		FlatFail:      45 * time.Second,
		FlatTolerance: 0.01,
		RocThreshold:  30.0,
	}
}

// Built-in profiles, indexed by name
func Init() map[string]*Profile {
	return map[string]*Profile{
		// Gross range and spike only, no time axis needed
		"basic": NewProfile("basic", "Gross range and spike tests only", basicDefault).
			SetTests(GROSS_RANGE, SPIKE).
			SetPlot("_basic", "IOOS QC Flags for %s (Basic Only)").
			AddRule("t090c", basicTemperature).
			AddRule("sal", basicSalinity),

		// All tests, with the observation index used as time
		"dummy-time": NewProfile("dummy-time", "All tests, observation index as time axis", withDummyTime(basicDefault)).
			SetTimeAxis(INDEX_TIME).
			AddRule("t090c", withDummyTime(basicTemperature)).
			AddRule("sal", withDummyTime(basicSalinity)),

		// Per-parameter thresholds
		"custom": NewProfile("custom", "All tests, tuned per parameter",
			Thresholds{
				FailSpan:      [2]float64{0, 50},
				SuspectSpan:   [2]float64{0.1, 45},
				SpikeSuspect:  1.5,
				SpikeFail:     3.0,
				FlatSuspect:   20 * time.Second,
				FlatFail:      45 * time.Second,
				FlatTolerance: 0.01,
				RocThreshold:  10.0,
			}).
			SetPlot("_custom", "IOOS QC Flags for %s").
			AddRule("t090c", Thresholds{
				FailSpan:      [2]float64{-2, 35},
				SuspectSpan:   [2]float64{-1.5, 32},
				SpikeSuspect:  0.5,
				SpikeFail:     1.0,
				FlatSuspect:   15 * time.Second,
				FlatFail:      30 * time.Second,
				FlatTolerance: 0.005,
				RocThreshold:  2.0,
			}).
			AddRule("sal00", Thresholds{
				FailSpan:      [2]float64{0, 42},
				SuspectSpan:   [2]float64{1, 40},
				SpikeSuspect:  1.0,
				SpikeFail:     2.0,
				FlatSuspect:   30 * time.Second,
				FlatFail:      60 * time.Second,
				FlatTolerance: 0.01,
				RocThreshold:  5.0,
			}),

		"standard": NewProfile("standard", "All tests, common thresholds",
			standard([2]float64{0.1, 42}, [2]float64{0, 50})).
			AddRule("t090c", standard([2]float64{-2, 35}, [2]float64{-5, 45})),
	}
}

// Returns the named built-in profile. Every call returns a new instance,
// so overrides applied by the caller never leak into other lookups.
func Lookup(name string) (*Profile, error) {
	profile, ok := Init()[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile '%s', available profiles: %v", name, Names())
	}
	return profile, nil
}

// Sorted names of the built-in profiles
func Names() []string {
	var names []string
	for name := range Init() {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
