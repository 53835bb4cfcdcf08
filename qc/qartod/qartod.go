// Package qartod implements the QARTOD primary tests used on CTD series.
//
// Every test takes the raw series (NaN marks a missing value) and returns one
// flag per observation. Times are seconds since epoch, as stored in the
// `time` variable.
package qartod

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/uferreira/cnv2netcdf/qc/flags"
)

var ErrLengthMismatch = errors.New("values and times have different lengths")

// Returns:
// - GOOD,            inside the suspect span
// - POTENTIALLY_BAD, outside the suspect span but inside the fail span
// - BAD,             outside the fail span
// - PROBABLY_GOOD,   for missing values
func GrossRange(values []float64, suspect, fail [2]float64) ([]flags.Flag, error) {
	if suspect[0] > suspect[1] {
		return nil, fmt.Errorf("suspect span %v is inverted", suspect)
	}
	if fail[0] > fail[1] {
		return nil, fmt.Errorf("fail span %v is inverted", fail)
	}
	if suspect[0] < fail[0] || suspect[1] > fail[1] {
		return nil, fmt.Errorf("suspect span %v must be within fail span %v", suspect, fail)
	}

	out := flags.Ones(len(values))
	for i, x := range values {
		switch {
		case math.IsNaN(x):
			out[i] = flags.PROBABLY_GOOD
		case x < fail[0] || x > fail[1]:
			out[i] = flags.BAD
		case x < suspect[0] || x > suspect[1]:
			out[i] = flags.POTENTIALLY_BAD
		}
	}
	return out, nil
}

// Compares every value with the average of its two neighbours.
// The first and last observations, and any observation next to (or equal to)
// a missing value, cannot be evaluated and are flagged PROBABLY_GOOD.
func Spike(values []float64, suspect, fail float64) ([]flags.Flag, error) {
	if suspect > fail {
		return nil, fmt.Errorf("spike suspect threshold %v is larger than fail threshold %v", suspect, fail)
	}

	n := len(values)
	out := flags.Ones(n)
	for i := range values {
		if i == 0 || i == n-1 {
			out[i] = flags.PROBABLY_GOOD
			continue
		}

		prev, x, next := values[i-1], values[i], values[i+1]
		if math.IsNaN(prev) || math.IsNaN(x) || math.IsNaN(next) {
			out[i] = flags.PROBABLY_GOOD
			continue
		}

		ref := math.Abs(x - (prev+next)/2)
		switch {
		case ref > fail:
			out[i] = flags.BAD
		case ref > suspect:
			out[i] = flags.POTENTIALLY_BAD
		}
	}
	return out, nil
}

// Flags observations closing a window of near-constant values.
// The suspect and fail durations are converted to a number of observations
// using the median sampling interval, truncating any fraction. An observation
// is flagged when the `count+1` values ending at it are all present and their
// range is below `tolerance`. A zero tolerance never flags.
func FlatLine(values, times []float64, suspect, fail time.Duration, tolerance float64) ([]flags.Flag, error) {
	if len(values) != len(times) {
		return nil, ErrLengthMismatch
	}
	if suspect > fail {
		return nil, fmt.Errorf("flat line suspect threshold %v is larger than fail threshold %v", suspect, fail)
	}

	interval, err := medianInterval(times)
	if err != nil {
		return nil, err
	}

	suspectCount := windowCount(suspect, interval)
	failCount := windowCount(fail, interval)

	out := flags.Ones(len(values))
	for i, x := range values {
		if math.IsNaN(x) {
			out[i] = flags.PROBABLY_GOOD
			continue
		}

		switch {
		case isFlat(values, i, failCount, tolerance):
			out[i] = flags.BAD
		case isFlat(values, i, suspectCount, tolerance):
			out[i] = flags.POTENTIALLY_BAD
		}
	}
	return out, nil
}

// Flags observations whose change from the previous observation exceeds
// `threshold` units per second
func RateOfChange(values, times []float64, threshold float64) ([]flags.Flag, error) {
	if len(values) != len(times) {
		return nil, ErrLengthMismatch
	}
	if threshold < 0 {
		return nil, fmt.Errorf("rate of change threshold %v is negative", threshold)
	}

	out := flags.Ones(len(values))
	for i, x := range values {
		if math.IsNaN(x) {
			out[i] = flags.PROBABLY_GOOD
			continue
		}
		if i == 0 || math.IsNaN(values[i-1]) {
			continue
		}

		// Repeated or unordered timestamps cannot be evaluated
		dt := times[i] - times[i-1]
		if math.IsNaN(dt) || dt <= 0 {
			continue
		}

		if math.Abs(x-values[i-1])/dt > threshold {
			out[i] = flags.POTENTIALLY_BAD
		}
	}
	return out, nil
}

// Number of distinct finite values in `times`
func DistinctTimes(times []float64) int {
	seen := make(map[float64]struct{})
	for _, t := range times {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			continue
		}
		seen[t] = struct{}{}
	}
	return len(seen)
}

// Median of the finite differences between consecutive times
func medianInterval(times []float64) (float64, error) {
	var diffs []float64
	for i := 1; i < len(times); i++ {
		d := times[i] - times[i-1]
		if math.IsNaN(d) || math.IsInf(d, 0) {
			continue
		}
		diffs = append(diffs, d)
	}

	if len(diffs) == 0 {
		return 0, errors.New("not enough timestamps to compute a sampling interval")
	}

	slices.Sort(diffs)
	mid := len(diffs) / 2
	median := diffs[mid]
	if len(diffs)%2 == 0 {
		median = (diffs[mid-1] + diffs[mid]) / 2
	}

	if median <= 0 {
		return 0, fmt.Errorf("median sampling interval %vs is not positive", median)
	}
	return median, nil
}

// Truncates, so a threshold shorter than the interval gives a one-value window
func windowCount(threshold time.Duration, interval float64) int {
	return int(threshold.Seconds() / interval)
}

// Checks the `count+1` values ending at index `end`
func isFlat(values []float64, end, count int, tolerance float64) bool {
	start := end - count
	if start < 0 {
		return false
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range values[start : end+1] {
		if math.IsNaN(x) {
			return false
		}
		lo = min(lo, x)
		hi = max(hi, x)
	}
	return hi-lo < tolerance
}
