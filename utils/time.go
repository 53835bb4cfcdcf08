package utils

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rickb777/period"
)

// Seconds since the Unix epoch are the time unit of every file we write
const EPOCH_UNITS = "seconds since 1970-01-01T00:00:00Z"

var UNIT_SECONDS = map[string]float64{
	"second":  1,
	"seconds": 1,
	"sec":     1,
	"secs":    1,
	"s":       1,
	"minute":  60,
	"minutes": 60,
	"min":     60,
	"mins":    60,
	"hour":    3600,
	"hours":   3600,
	"hr":      3600,
	"hrs":     3600,
	"h":       3600,
	"day":     86400,
	"days":    86400,
	"d":       86400,
}

var REFERENCE_LAYOUTS = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Parses CF time units of the form "<unit> since <reference>".
// Returns the length of one unit in seconds and the reference time in UTC.
// A reference without a zone is taken as UTC.
func ParseTimeUnits(units string) (float64, time.Time, error) {
	unit, reference, ok := strings.Cut(strings.TrimSpace(units), " since ")
	if !ok {
		return 0, time.Time{}, fmt.Errorf("time units '%s' do not have the form '<unit> since <reference>'", units)
	}

	scale, ok := UNIT_SECONDS[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return 0, time.Time{}, fmt.Errorf("unsupported time unit '%s'", unit)
	}

	reference = strings.TrimSpace(reference)
	// "1970-01-01 00:00:00 UTC" is common in older files
	reference = strings.TrimSuffix(reference, " UTC")
	for _, layout := range REFERENCE_LAYOUTS {
		if ref, err := time.Parse(layout, reference); err == nil {
			return scale, ref.UTC(), nil
		}
	}
	return 0, time.Time{}, fmt.Errorf("could not parse reference time '%s'", reference)
}

// Converts values in CF time `units` to seconds since epoch. NaN stays NaN.
func ToEpochSecondsFrom(values []float64, units string) ([]float64, error) {
	scale, ref, err := ParseTimeUnits(units)
	if err != nil {
		return nil, err
	}

	offset := ToEpochSeconds(ref)
	out := make([]float64, len(values))
	for i, x := range values {
		out[i] = x*scale + offset
	}
	return out, nil
}

// Converts (fractional) seconds since epoch to UTC time
func FromEpochSeconds(s float64) time.Time {
	sec, frac := math.Modf(s)
	return time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC()
}

func ToEpochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

type TimeSpan struct {
	From *time.Time
	To   *time.Time
}

// Returns the span between the earliest and the latest finite value of `seconds`.
// Both ends are nil if no value is finite.
func SpanFromEpochSeconds(seconds []float64) TimeSpan {
	var span TimeSpan
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range seconds {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			continue
		}
		lo = min(lo, s)
		hi = max(hi, s)
	}

	if lo <= hi {
		from := FromEpochSeconds(lo)
		to := FromEpochSeconds(hi)
		span.From = &from
		span.To = &to
	}
	return span
}

// Returns:
// - "",                      if either end is nil
// - ISO 8601 duration string, otherwise (e.g. "PT36H")
func (t *TimeSpan) ISODuration() string {
	if t.From == nil || t.To == nil {
		return ""
	}

	p := period.NewOf(t.To.Sub(*t.From))
	return p.String()
}

// RFC 3339 formatted UTC timestamp, or "" for nil
func FormatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
