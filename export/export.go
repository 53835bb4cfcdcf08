// Package export flattens the QC'd variables of a dataset to a long-format
// CSV, one row per variable and observation.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/uferreira/cnv2netcdf/cf"
	"github.com/uferreira/cnv2netcdf/qc/flags"
	"github.com/uferreira/cnv2netcdf/utils"
)

type Record struct {
	Variable    string  `csv:"variable"`
	Obs         int     `csv:"obs"`
	Time        string  `csv:"time"`
	Latitude    float64 `csv:"latitude"`
	Longitude   float64 `csv:"longitude"`
	Value       float64 `csv:"value"`
	Flag        int8    `csv:"flag"`
	FlagMeaning string  `csv:"flag_meaning"`
}

// Variables that have a `<var>_qc` flag variable, in dataset order
func QCVariables(ds *cf.Dataset) []string {
	var out []string
	for _, name := range ds.VarNames() {
		parent, found := strings.CutSuffix(name, "_qc")
		if !found {
			continue
		}
		if _, ok := ds.Var(parent); ok {
			out = append(out, parent)
		}
	}
	return out
}

// Builds the records of `variables`, every variable must have its flags
func Records(ds *cf.Dataset, variables []string) ([]*Record, error) {
	times, err := ds.EpochSeconds("time")
	if err != nil {
		return nil, err
	}
	lat, err := coordinate(ds, "lat", "latitude")
	if err != nil {
		return nil, err
	}
	lon, err := coordinate(ds, "lon", "longitude")
	if err != nil {
		return nil, err
	}

	stamps := make([]string, len(times))
	for i, t := range times {
		if !math.IsNaN(t) {
			stamps[i] = utils.FromEpochSeconds(t).Format("2006-01-02T15:04:05.000Z07:00")
		}
	}

	records := make([]*Record, 0, len(variables)*ds.Len())
	for _, variable := range variables {
		values, err := ds.Series(variable)
		if err != nil {
			return nil, err
		}
		qc, err := ds.Series(variable + "_qc")
		if err != nil {
			return nil, fmt.Errorf("'%s' has no QC flags: %w", variable, err)
		}

		for i, flag := range flags.FromFloat64s(qc) {
			records = append(records, &Record{
				Variable:    variable,
				Obs:         i,
				Time:        stamps[i],
				Latitude:    lat[i],
				Longitude:   lon[i],
				Value:       values[i],
				Flag:        int8(flag),
				FlagMeaning: flag.Meaning(),
			})
		}
	}
	return records, nil
}

func coordinate(ds *cf.Dataset, names ...string) ([]float64, error) {
	v, ok := ds.FirstVar(names...)
	if !ok {
		return nil, fmt.Errorf("none of %v found in dataset", names)
	}
	return ds.Series(v.Name)
}
