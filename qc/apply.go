package qc

import (
	"fmt"
	"strings"
	"time"

	"github.com/uferreira/cnv2netcdf/cf"
	"github.com/uferreira/cnv2netcdf/qc/flags"
	"github.com/uferreira/cnv2netcdf/qc/profiles"
	"github.com/uferreira/cnv2netcdf/utils"
)

const QC_SUFFIX = "_qc"

// Name of the flag variable of `variable`
func FlagVarName(variable string) string {
	return variable + QC_SUFFIX
}

// Adds (or replaces) the `<var>_qc` flag variable and links it to its parent
func Apply(ds *cf.Dataset, result Result) error {
	parent, ok := ds.Var(result.Variable)
	if !ok {
		return fmt.Errorf("variable '%s' not found", result.Variable)
	}
	if len(result.Flags) != ds.Len() {
		return fmt.Errorf("got %d flags for '%s', expected %d", len(result.Flags), result.Variable, ds.Len())
	}

	name := FlagVarName(result.Variable)
	ds.Put(&cf.Variable{
		Name:  name,
		Dims:  []string{cf.TRAJECTORY_DIM, cf.OBS_DIM},
		Int8s: flags.ToInt8s(result.Flags),
		Attrs: cf.Attributes{
			{Name: "long_name", Value: result.Variable + " quality control flags"},
			{Name: "standard_name", Value: "aggregate_quality_flag"},
			{Name: "flag_values", Value: flags.FLAG_VALUES},
			{Name: "flag_meanings", Value: flags.FLAG_MEANINGS},
		},
	})
	parent.Attrs.Set("ancillary_variables", name)

	var notes []string
	for _, test := range utils.Map(result.Failed, profiles.Test.String) {
		notes = append(notes, test+" failed")
	}
	for _, test := range utils.Map(result.Skipped, profiles.Test.String) {
		notes = append(notes, test+" skipped")
	}

	line := fmt.Sprintf("%s: QARTOD QC flags added to '%s' with profile '%s'",
		cf.Now().Format(time.RFC3339), result.Variable, result.Profile)
	if len(notes) > 0 {
		line += " (" + strings.Join(notes, ", ") + ")"
	}
	ds.AppendHistory(line)

	return nil
}
