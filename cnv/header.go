// Package cnv reads Sea-Bird CTD `.cnv` exports.
//
// A CNV file is a text header followed by whitespace separated numeric rows:
//
//	* Sea-Bird SBE 9 Data File:
//	* NMEA Latitude = 60 23.95 N
//	# nquan = 4
//	# name 0 = t090C: Temperature [ITS-90, deg C]
//	# name 1 = sal00: Salinity, Practical [PSU]
//	# name 2 = timeJ: Julian Days
//	# name 3 = latitude: Latitude [deg]
//	# start_time = Jan 01 2021 00:00:00 [Instrument's time stamp, header]
//	*END*
//	    10.1234    35.0012   1.500000   60.3991
//
// Only the `# name` declarations, the `# start_time` line and the `*END*`
// sentinel are interpreted, everything else in the header is kept verbatim.
package cnv

import (
	"regexp"
	"strings"
	"time"
)

const END_OF_HEADER string = "*END*"

// Layout of the `# start_time` header value
const START_TIME_LAYOUT string = "Jan 02 2006 15:04:05"

var (
	startTimeRegex = regexp.MustCompile(`# start_time\s*=\s*(.*)\s+\[`)
	nameRegex      = regexp.MustCompile(`^# name \d+ = (.+?):(.*)$`)
	unitRegex      = regexp.MustCompile(`\[([^\]]+)\]`)
)

// A single column declared in the header
type Column struct {
	Index       int
	Name        string // Short Sea-Bird name, e.g. "t090C"
	Description string // Text after the colon, without the unit, e.g. "Temperature"
	Unit        string // Content of the first bracket group, e.g. "ITS-90, deg C"
}

type Header struct {
	Columns   []Column
	StartTime string     // Raw start time value, empty if the header has none
	Start     *time.Time // Parsed StartTime in UTC, nil if the header has none
	Lines     []string   // Header lines preceding the sentinel
}

// Names of the declared columns, in file order
func (h *Header) Names() []string {
	names := make([]string, len(h.Columns))
	for i, c := range h.Columns {
		names[i] = c.Name
	}
	return names
}

// Returns the first column with the given name (case-insensitive)
func (h *Header) Column(name string) (Column, bool) {
	for _, c := range h.Columns {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Column{}, false
}

func parseStartTime(line string) (string, bool) {
	if !strings.Contains(strings.ToLower(line), "start_time") {
		return "", false
	}

	match := startTimeRegex.FindStringSubmatch(line)
	if match == nil {
		return "", false
	}
	return strings.TrimSpace(match[1]), true
}

func parseColumn(line string, index int) (Column, bool) {
	match := nameRegex.FindStringSubmatch(line)
	if match == nil {
		return Column{}, false
	}

	column := Column{Index: index, Name: strings.TrimSpace(match[1])}

	description := match[2]
	if i := strings.Index(description, "["); i >= 0 {
		description = description[:i]
	}
	column.Description = strings.TrimSpace(description)

	if unit := unitRegex.FindStringSubmatch(line); unit != nil {
		column.Unit = unit[1]
	}
	return column, true
}
