package qc

import (
	"errors"
	"fmt"
	"log/slog"
	"cmp"
	"os"
	"strings"

	"github.com/uferreira/cnv2netcdf/cf"
	"github.com/uferreira/cnv2netcdf/observability"
	"github.com/uferreira/cnv2netcdf/plot"
	"github.com/uferreira/cnv2netcdf/qc/flags"
	"github.com/uferreira/cnv2netcdf/qc/profiles"
	"github.com/uferreira/cnv2netcdf/utils"
)

// Primary temperature, salinity and fluorescence sensors
var DEFAULT_VARIABLES = []string{"t090c", "sal00", "wetstar"}

var ErrNoVariables = errors.New("none of the requested variables are present in the dataset")

type Config struct {
	Input       string   `arg:"-i,--input,required" help:"Input NetCDF trajectory file"`
	Output      string   `arg:"-o,--output,required" help:"Output NetCDF file with QC flags"`
	Profile     string   `arg:"--profile,env:CNV2NC_PROFILE" help:"QC profile, see the 'profiles' command [default: standard]"`
	Variables   []string `arg:"--vars" help:"Space or comma separated list of variables to QC [default: t090c sal00 wetstar]"`
	Thresholds  string   `arg:"--thresholds,env:CNV2NC_THRESHOLDS" help:"CSV file with threshold overrides"`
	PlotDir     string   `arg:"--plot-dir,env:CNV2NC_PLOT_DIR" default:"." help:"Directory the flag charts are written to"`
	NoPlots     bool     `arg:"--no-plots" help:"Do not render flag charts"`
	MetricsFile string   `arg:"--metrics-file" help:"Write QC metrics to this file in Prometheus textfile format"`
}

func (Config) Description() string {
	return `Apply IOOS QARTOD QC tests to a NetCDF trajectory file.
Each variable gets a '<var>_qc' flag variable with the worst flag of all tests.`
}

// Requested variables, with comma separated values split
func (config *Config) variables() []string {
	if names := utils.SplitNames(config.Variables); names != nil {
		return names
	}
	return DEFAULT_VARIABLES
}

func (config *Config) profile() (*profiles.Profile, error) {
	profile, err := profiles.Lookup(cmp.Or(config.Profile, profiles.DEFAULT_PROFILE))
	if err != nil {
		return nil, err
	}

	if config.Thresholds != "" {
		rows, err := profiles.LoadOverrides(config.Thresholds)
		if err != nil {
			return nil, err
		}
		if err := profile.ApplyOverrides(rows); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

func (config *Config) Execute() error {
	profile, err := config.profile()
	if err != nil {
		return err
	}

	ds, err := cf.Read(config.Input)
	if err != nil {
		return err
	}

	variables := utils.FilterSlice(config.variables(), Candidates(ds), "Variable '%s' not found in dataset or not a data variable, skipping")
	if len(variables) == 0 {
		return ErrNoVariables
	}
	fmt.Println("QC target variables:", variables)

	results, err := Process(ds, variables, profile)
	if err != nil {
		return err
	}

	if err := cf.Write(ds, config.Output); err != nil {
		return err
	}

	if !config.NoPlots {
		if err := renderCharts(results, profile, config.PlotDir); err != nil {
			return err
		}
	}

	if config.MetricsFile != "" {
		if err := writeMetrics(results, ds.Len(), config.MetricsFile); err != nil {
			return err
		}
	}

	for _, result := range results {
		fmt.Printf("QC flags for %s: %s\n", result.Variable, FormatCounts(result.Flags))
	}
	fmt.Printf("QC-enhanced NetCDF saved as: %s\n", config.Output)
	return nil
}

// Runs the profile on every variable and adds the flag variables to the dataset
func Process(ds *cf.Dataset, variables []string, profile *profiles.Profile) ([]Result, error) {
	slog.Info(fmt.Sprintf("Running QC profile '%s' on %d variables", profile.Name, len(variables)))

	results := make([]Result, 0, len(variables))
	bar := utils.NewBar(len(variables), "QC")
	for _, variable := range variables {
		series, err := NewSeries(ds, variable, profile.TimeAxis)
		if err != nil {
			return nil, err
		}

		result := Run(series, profile, profile.Select(variable))
		if err := Apply(ds, result); err != nil {
			return nil, err
		}

		results = append(results, result)
		bar.Add(1)
	}
	return results, nil
}

func renderCharts(results []Result, profile *profiles.Profile, dir string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	for _, result := range results {
		path := plot.ChartPath(dir, result.Variable, profile.PlotSuffix)
		if err := plot.FlagChart(result.Variable, result.Flags, profile.ChartTitle(result.Variable), path); err != nil {
			return err
		}
		slog.Info("Chart saved to " + path)
	}
	return nil
}

func writeMetrics(results []Result, observations int, path string) error {
	metrics := observability.NewMetrics()
	metrics.Observations.Set(float64(observations))

	for _, result := range results {
		metrics.RecordFlags(result.Variable, result.Flags)
		metrics.RecordSkipped(result.Variable, utils.Map(result.Skipped, profiles.Test.String)...)
		metrics.RecordFailed(result.Variable, utils.Map(result.Failed, profiles.Test.String)...)
	}

	if err := metrics.WriteTextfile(path); err != nil {
		return fmt.Errorf("could not write metrics: %w", err)
	}
	return nil
}

// Flag counts in flag order, e.g. "1: 120, 3: 2"
func FormatCounts(values []flags.Flag) string {
	counts := flags.Counts(values)

	var parts []string
	for _, f := range flags.ALL {
		if n, ok := counts[f]; ok {
			parts = append(parts, fmt.Sprintf("%d: %d", f, n))
		}
	}
	return strings.Join(parts, ", ")
}
