package profiles

import (
	"fmt"
	"strings"
	"time"
)

type Test string

const (
	GROSS_RANGE    Test = "gross_range"
	SPIKE          Test = "spike"
	FLAT_LINE      Test = "flat_line"
	RATE_OF_CHANGE Test = "rate_of_change"
)

// Run order of the tests
var ALL_TESTS = []Test{GROSS_RANGE, SPIKE, FLAT_LINE, RATE_OF_CHANGE}

func (t Test) String() string {
	return string(t)
}

// Time-based tests need a time axis with at least two distinct values
func (t Test) TimeBased() bool {
	return t == FLAT_LINE || t == RATE_OF_CHANGE
}

// Which time values the time-based tests are run against
type TimeAxis string

const (
	OBSERVED_TIME TimeAxis = "observed" // The `time` variable of the dataset
	INDEX_TIME    TimeAxis = "index"    // Observation index, one second apart
)

type Thresholds struct {
	SuspectSpan   [2]float64
	FailSpan      [2]float64
	SpikeSuspect  float64
	SpikeFail     float64
	FlatSuspect   time.Duration
	FlatFail      time.Duration
	FlatTolerance float64
	RocThreshold  float64 // units per second
}

// Thresholds used for variables whose name contains `Match`
type Rule struct {
	Match      string
	Thresholds Thresholds
}

type Profile struct {
	Name        string
	Description string
	Tests       []Test
	TimeAxis    TimeAxis
	PlotSuffix  string // Appended to the chart file name, e.g. "t090c_qc_flags_basic.png"
	PlotTitle   string // Format string taking the variable name
	Rules       []Rule // Checked in order, first match wins
	Default     Thresholds
}

// Creates a profile running all tests against the observed time
func NewProfile(name, description string, defaults Thresholds) *Profile {
	return &Profile{
		Name:        name,
		Description: description,
		Tests:       ALL_TESTS,
		TimeAxis:    OBSERVED_TIME,
		PlotTitle:   "IOOS QC Flags for %s",
		Default:     defaults,
	}
}

// Restricts the tests run by the profile
func (p *Profile) SetTests(tests ...Test) *Profile {
	p.Tests = tests
	return p
}

func (p *Profile) SetTimeAxis(axis TimeAxis) *Profile {
	p.TimeAxis = axis
	return p
}

func (p *Profile) SetPlot(suffix, title string) *Profile {
	p.PlotSuffix = suffix
	p.PlotTitle = title
	return p
}

// Appends a rule, checked after the existing ones
func (p *Profile) AddRule(match string, thresholds Thresholds) *Profile {
	p.Rules = append(p.Rules, Rule{Match: strings.ToLower(match), Thresholds: thresholds})
	return p
}

// Returns the thresholds of the first rule contained in the lower-cased
// variable name, or the default ones
func (p *Profile) Select(variable string) Thresholds {
	variable = strings.ToLower(variable)
	for _, rule := range p.Rules {
		if strings.Contains(variable, rule.Match) {
			return rule.Thresholds
		}
	}
	return p.Default
}

func (p *Profile) Runs(test Test) bool {
	for _, t := range p.Tests {
		if t == test {
			return true
		}
	}
	return false
}

func (p *Profile) ChartTitle(variable string) string {
	return fmt.Sprintf(p.PlotTitle, variable)
}
