package cf

import "strings"

type standardName struct {
	key  string
	name string
}

// Matched in order against the lower-cased variable name
var STANDARD_NAMES = []standardName{
	{"temperature", "sea_water_temperature"},
	{"salinity", "sea_water_practical_salinity"},
	{"pressure", "sea_water_pressure"},
	{"depth", "depth"},
	{"fluorescence", "volume_scattering_function"},
}

// Returns the CF standard name for the first candidate that contains a known key.
// Sea-Bird short names (e.g. "t090c") rarely match, so the column description is
// usually passed as a second candidate.
func StandardName(candidates ...string) (string, bool) {
	for _, candidate := range candidates {
		candidate = strings.ToLower(candidate)
		for _, sn := range STANDARD_NAMES {
			if strings.Contains(candidate, sn.key) {
				return sn.name, true
			}
		}
	}
	return "", false
}

// NetCDF variable name for a CNV column
func VarName(column string) string {
	return strings.ReplaceAll(strings.ToLower(column), " ", "_")
}
