package cf

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/uferreira/cnv2netcdf/cnv"
	"github.com/uferreira/cnv2netcdf/utils"
)

const JULIAN_DAY_COLUMN = "timeJ"

const TRAJECTORY_ID = "trajectory_001"

// Fixed global metadata of the converted files
var GLOBAL_ATTRIBUTES = Attributes{
	{"title", "EAF-Nansen Programme CTD Data"},
	{"summary", "CTD profile data converted from CNV to CF-compliant NetCDF trajectory format."},
	{"Conventions", "CF-1.12"},
	{"institution", "Institute of Marine Research (IMR)"},
	{"source", "Sea-Bird CTD"},
}

// Maps a parsed CNV table to a single-trajectory dataset
func Encode(table *cnv.Table) (*Dataset, error) {
	n := table.Len()
	ds := NewTrajectory(n)

	start := Now()
	if table.Header.Start != nil {
		start = table.Header.Start.UTC()
	} else {
		slog.Warn("No start_time in header, using current time " + start.Format(time.RFC3339))
	}

	times := observationTimes(table, start)
	ds.Put(&Variable{
		Name:     "time",
		Dims:     []string{TRAJECTORY_DIM, OBS_DIM},
		Float64s: times,
		Attrs: Attributes{
			{"_FillValue", math.NaN()},
			{"standard_name", "time"},
			{"units", utils.EPOCH_UNITS},
			{"calendar", "gregorian"},
			{"axis", "T"},
		},
	})

	ds.Put(coordinate(table, "lat", "latitude", "degrees_north", "Y"))
	ds.Put(coordinate(table, "lon", "longitude", "degrees_east", "X"))

	for _, column := range table.Header.Columns {
		ds.Put(physicalVariable(table, column))
	}

	ds.SetDim(STRLEN_DIM, len(TRAJECTORY_ID))
	ds.Put(&Variable{
		Name:  TRAJECTORY_DIM,
		Dims:  []string{TRAJECTORY_DIM, STRLEN_DIM},
		Chars: []byte(TRAJECTORY_ID),
		Attrs: Attributes{{"cf_role", "trajectory_id"}},
	})

	setGlobalAttributes(ds, table.Header.StartTime, times)
	return ds, nil
}

// Seconds since epoch per observation. With a Julian day column each value is
// an offset in days from January 1st of the start year, otherwise the start
// time is used for every observation.
func observationTimes(table *cnv.Table, start time.Time) []float64 {
	times := make([]float64, table.Len())

	julian, ok := table.Column(JULIAN_DAY_COLUMN)
	if !ok {
		slog.Info(fmt.Sprintf("No '%s' column, broadcasting start time to all observations", JULIAN_DAY_COLUMN))
		for i := range times {
			times[i] = utils.ToEpochSeconds(start)
		}
		return times
	}

	base := utils.ToEpochSeconds(time.Date(start.Year(), 1, 1, 0, 0, 0, 0, time.UTC))
	for i, jd := range julian {
		times[i] = base + jd*86400
	}
	return times
}

func coordinate(table *cnv.Table, name, standardName, units, axis string) *Variable {
	values := make([]float64, table.Len())

	found := false
	for _, column := range table.Header.Columns {
		if strings.Contains(strings.ToLower(column.Name), name) {
			copy(values, table.Values(column.Index))
			found = true
			break
		}
	}

	if !found {
		slog.Warn(fmt.Sprintf("No %s column found, filling '%s' with missing values", standardName, name))
		for i := range values {
			values[i] = math.NaN()
		}
	}

	return &Variable{
		Name:     name,
		Dims:     []string{TRAJECTORY_DIM, OBS_DIM},
		Float64s: values,
		Attrs: Attributes{
			{"_FillValue", math.NaN()},
			{"standard_name", standardName},
			{"units", units},
			{"axis", axis},
		},
	}
}

func physicalVariable(table *cnv.Table, column cnv.Column) *Variable {
	v := &Variable{
		Name:     VarName(column.Name),
		Dims:     []string{TRAJECTORY_DIM, OBS_DIM},
		Float64s: table.Values(column.Index),
		Attrs: Attributes{
			{"_FillValue", math.NaN()},
			{"long_name", column.Name},
			{"units", column.Unit},
		},
	}

	if sn, ok := StandardName(v.Name, column.Description); ok {
		v.Attrs.Set("standard_name", sn)
	}
	return v
}

func setGlobalAttributes(ds *Dataset, startTime string, times []float64) {
	span := utils.SpanFromEpochSeconds(times)

	ds.Attrs = append(Attributes{}, GLOBAL_ATTRIBUTES...)
	ds.Attrs.Set("history", fmt.Sprintf("Converted from CNV using start_time '%s'", startTime))
	ds.Attrs.Set("featureType", "trajectory")
	ds.Attrs.Set("references", "http://metadata.nmdc.no")
	ds.Attrs.Set("time_coverage_start", utils.FormatTime(span.From))
	ds.Attrs.Set("time_coverage_end", utils.FormatTime(span.To))
	ds.Attrs.Set("time_coverage_duration", span.ISODuration())
	ds.Attrs.Set("date_created", Now().Format(time.RFC3339))
	ds.Attrs.Set("id", uuid.NewString())
}
