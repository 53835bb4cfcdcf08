// Package qc runs QARTOD tests on the variables of a trajectory dataset and
// stores the combined flags next to them.
package qc

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/uferreira/cnv2netcdf/cf"
	"github.com/uferreira/cnv2netcdf/qc/flags"
	"github.com/uferreira/cnv2netcdf/qc/profiles"
	"github.com/uferreira/cnv2netcdf/qc/qartod"
)

// Values of a single variable with the time axis the tests run against
type Series struct {
	Variable string
	Values   []float64
	Times    []float64 // Seconds, either since epoch or since the first observation
}

// Names of the variables QC can run on: numeric (trajectory, obs) data
// variables that are neither coordinates (they carry `axis`) nor flags
func Candidates(ds *cf.Dataset) []string {
	dims := []string{cf.TRAJECTORY_DIM, cf.OBS_DIM}

	var out []string
	for _, v := range ds.Vars {
		if !slices.Equal(v.Dims, dims) || v.Chars != nil || strings.HasSuffix(v.Name, QC_SUFFIX) {
			continue
		}
		if _, ok := v.Attrs.Get("axis"); ok {
			continue
		}
		out = append(out, v.Name)
	}
	return out
}

// Extracts `variable` and the time axis selected by `axis` from the dataset
func NewSeries(ds *cf.Dataset, variable string, axis profiles.TimeAxis) (Series, error) {
	values, err := ds.Series(variable)
	if err != nil {
		return Series{}, err
	}

	var times []float64
	switch axis {
	case profiles.INDEX_TIME:
		times = make([]float64, len(values))
		for i := range times {
			times[i] = float64(i)
		}
	default:
		times, err = ds.EpochSeconds("time")
		if err != nil {
			return Series{}, fmt.Errorf("time axis: %w", err)
		}
	}

	return Series{Variable: variable, Values: values, Times: times}, nil
}

type Result struct {
	Variable string
	Profile  string
	Flags    []flags.Flag                   // Worst flag of all the tests
	Tests    map[profiles.Test][]flags.Flag // Flags of every test run (or skipped)
	Skipped  []profiles.Test                // Time-based tests skipped for lack of time variation
	Failed   []profiles.Test                // Tests that returned an error
}

// Runs the tests of the profile on the series. Tests that cannot run contribute
// GOOD flags, so the combined result only depends on the tests that did.
func Run(series Series, profile *profiles.Profile, thresholds profiles.Thresholds) Result {
	n := len(series.Values)
	result := Result{
		Variable: series.Variable,
		Profile:  profile.Name,
		Tests:    make(map[profiles.Test][]flags.Flag, len(profile.Tests)),
	}

	degenerate := qartod.DistinctTimes(series.Times) < 2

	var all [][]flags.Flag
	for _, test := range profile.Tests {
		if test.TimeBased() && degenerate {
			slog.Warn(fmt.Sprintf("Skipping %s test for '%s': time axis has no variation", test, series.Variable))
			result.Skipped = append(result.Skipped, test)
			result.Tests[test] = flags.Ones(n)
			all = append(all, result.Tests[test])
			continue
		}

		out, err := runTest(test, series, thresholds)
		if err != nil {
			slog.Error(fmt.Sprintf("%s test failed for '%s', flagging as good: %s", test, series.Variable, err))
			result.Failed = append(result.Failed, test)
			out = flags.Ones(n)
		}

		result.Tests[test] = out
		all = append(all, out)
	}

	result.Flags = flags.Combine(all...)
	if len(result.Flags) < n {
		// No test was run
		result.Flags = flags.Ones(n)
	}
	return result
}

func runTest(test profiles.Test, series Series, t profiles.Thresholds) ([]flags.Flag, error) {
	switch test {
	case profiles.GROSS_RANGE:
		return qartod.GrossRange(series.Values, t.SuspectSpan, t.FailSpan)
	case profiles.SPIKE:
		return qartod.Spike(series.Values, t.SpikeSuspect, t.SpikeFail)
	case profiles.FLAT_LINE:
		return qartod.FlatLine(series.Values, series.Times, t.FlatSuspect, t.FlatFail, t.FlatTolerance)
	case profiles.RATE_OF_CHANGE:
		return qartod.RateOfChange(series.Values, series.Times, t.RocThreshold)
	}
	return nil, fmt.Errorf("unknown test '%s'", test)
}
