package list

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/uferreira/cnv2netcdf/qc/profiles"
	"github.com/uferreira/cnv2netcdf/utils"
)

type Config struct{}

func (Config) Description() string {
	return "List the built-in QC profiles and their thresholds."
}

func (config *Config) Execute() error {
	return Print(os.Stdout)
}

func Print(w io.Writer) error {
	fmt.Fprintln(w, "Available QC profiles:")

	for _, name := range profiles.Names() {
		profile, err := profiles.Lookup(name)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "    - %s: %s\n", profile.Name, profile.Description)
		fmt.Fprintf(w, "        tests: %s (time axis: %s)\n", strings.Join(utils.Map(profile.Tests, profiles.Test.String), ", "), profile.TimeAxis)
		for _, rule := range profile.Rules {
			fmt.Fprintf(w, "        '%s': %s\n", rule.Match, formatThresholds(rule.Thresholds, profile))
		}
		fmt.Fprintf(w, "        default: %s\n", formatThresholds(profile.Default, profile))
	}
	return nil
}

func formatThresholds(t profiles.Thresholds, profile *profiles.Profile) string {
	parts := []string{
		fmt.Sprintf("suspect %v fail %v", t.SuspectSpan, t.FailSpan),
		fmt.Sprintf("spike %v/%v", t.SpikeSuspect, t.SpikeFail),
	}
	if profile.Runs(profiles.FLAT_LINE) {
		parts = append(parts, fmt.Sprintf("flat %v/%v tol %v", t.FlatSuspect, t.FlatFail, t.FlatTolerance))
	}
	if profile.Runs(profiles.RATE_OF_CHANGE) {
		parts = append(parts, fmt.Sprintf("roc %v", t.RocThreshold))
	}
	return strings.Join(parts, ", ")
}
