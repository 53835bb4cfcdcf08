package flags

// QARTOD primary flags, stored as NC_BYTE in the `<var>_qc` variables:
//
//  1. GOOD            - Data passed the test
//  2. PROBABLY_GOOD   - Test not evaluated (missing data, not enough points, endpoints)
//  3. POTENTIALLY_BAD - Suspect, data should be reviewed
//  4. BAD             - Data failed the test
//
// QARTOD also defines 9 (MISSING), which is never emitted here. Missing values
// are flagged as PROBABLY_GOOD so every flag stays in the 1..4 range written to
// `flag_values`.

import "math"

type Flag int8

const (
	GOOD            Flag = 1
	PROBABLY_GOOD   Flag = 2
	POTENTIALLY_BAD Flag = 3
	BAD             Flag = 4
)

// Attribute values of the flag variables
var (
	FLAG_VALUES   = []int8{int8(GOOD), int8(PROBABLY_GOOD), int8(POTENTIALLY_BAD), int8(BAD)}
	FLAG_MEANINGS = "good_data probably_good_data potentially_bad_data bad_data"
)

// Ordered as FLAG_VALUES
var ALL = []Flag{GOOD, PROBABLY_GOOD, POTENTIALLY_BAD, BAD}

func (f Flag) Meaning() string {
	switch f {
	case GOOD:
		return "good_data"
	case PROBABLY_GOOD:
		return "probably_good_data"
	case POTENTIALLY_BAD:
		return "potentially_bad_data"
	case BAD:
		return "bad_data"
	}
	return "unknown"
}

func (f Flag) Valid() bool {
	return f >= GOOD && f <= BAD
}

// Array of GOOD flags of length `n`
func Ones(n int) []Flag {
	out := make([]Flag, n)
	for i := range out {
		out[i] = GOOD
	}
	return out
}

// Element-wise maximum of the input arrays ("worst flag wins").
// Arrays shorter than the longest one are treated as GOOD past their end.
func Combine(arrays ...[]Flag) []Flag {
	n := 0
	for _, a := range arrays {
		n = max(n, len(a))
	}

	out := Ones(n)
	for _, a := range arrays {
		for i, f := range a {
			out[i] = max(out[i], f)
		}
	}
	return out
}

// Number of occurrences of every flag value present in `flags`
func Counts(flags []Flag) map[Flag]int {
	counts := make(map[Flag]int)
	for _, f := range flags {
		counts[f]++
	}
	return counts
}

func ToInt8s(flags []Flag) []int8 {
	out := make([]int8, len(flags))
	for i, f := range flags {
		out[i] = int8(f)
	}
	return out
}

// Converts values read back from a dataset. Values outside the int8 range map to 0.
func FromFloat64s(values []float64) []Flag {
	out := make([]Flag, len(values))
	for i, v := range values {
		if v >= math.MinInt8 && v <= math.MaxInt8 {
			out[i] = Flag(v)
		}
	}
	return out
}
