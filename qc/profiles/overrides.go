package profiles

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rickb777/period"
)

// A row of the threshold overrides CSV.
// Durations are ISO 8601 periods, e.g. "PT20S".
type OverrideRow struct {
	Profile       string  `csv:"profile"` // Empty applies to every profile
	Match         string  `csv:"match"`   // Empty replaces the default thresholds
	SuspectMin    float64 `csv:"suspect_min"`
	SuspectMax    float64 `csv:"suspect_max"`
	FailMin       float64 `csv:"fail_min"`
	FailMax       float64 `csv:"fail_max"`
	SpikeSuspect  float64 `csv:"spike_suspect"`
	SpikeFail     float64 `csv:"spike_fail"`
	FlatSuspect   string  `csv:"flat_suspect"`
	FlatFail      string  `csv:"flat_fail"`
	FlatTolerance float64 `csv:"flat_tolerance"`
	RocThreshold  float64 `csv:"roc_threshold"`
}

func (row *OverrideRow) thresholds() (Thresholds, error) {
	flatSuspect, err := parseDuration(row.FlatSuspect)
	if err != nil {
		return Thresholds{}, err
	}
	flatFail, err := parseDuration(row.FlatFail)
	if err != nil {
		return Thresholds{}, err
	}

	return Thresholds{
		SuspectSpan:   [2]float64{row.SuspectMin, row.SuspectMax},
		FailSpan:      [2]float64{row.FailMin, row.FailMax},
		SpikeSuspect:  row.SpikeSuspect,
		SpikeFail:     row.SpikeFail,
		FlatSuspect:   flatSuspect,
		FlatFail:      flatFail,
		FlatTolerance: row.FlatTolerance,
		RocThreshold:  row.RocThreshold,
	}, nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	p, err := period.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration '%s': %w", s, err)
	}
	return p.DurationApprox(), nil
}

func LoadOverrides(path string) ([]OverrideRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var rows []OverrideRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Applies the rows targeting this profile. Rules are prepended in file order,
// so they take precedence over the built-in ones.
func (p *Profile) ApplyOverrides(rows []OverrideRow) error {
	var rules []Rule
	for i, row := range rows {
		if row.Profile != "" && row.Profile != p.Name {
			continue
		}

		thresholds, err := row.thresholds()
		if err != nil {
			return fmt.Errorf("override row %d: %w", i+1, err)
		}

		if row.Match == "" {
			slog.Info(fmt.Sprintf("Overriding default thresholds of profile '%s'", p.Name))
			p.Default = thresholds
			continue
		}

		slog.Info(fmt.Sprintf("Overriding thresholds of '%s' in profile '%s'", row.Match, p.Name))
		rules = append(rules, Rule{Match: strings.ToLower(row.Match), Thresholds: thresholds})
	}

	p.Rules = append(rules, p.Rules...)
	return nil
}
