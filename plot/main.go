package plot

import (
	"fmt"
	"os"
	"strings"

	"github.com/uferreira/cnv2netcdf/cf"
	"github.com/uferreira/cnv2netcdf/qc/flags"
	"github.com/uferreira/cnv2netcdf/utils"
)

type ChartConfig struct {
	Input   string `arg:"-i,--input,required" help:"QC'd NetCDF file"`
	PlotDir string `arg:"--plot-dir,env:CNV2NC_PLOT_DIR" default:"." help:"Directory the charts are written to"`
	Suffix  string `arg:"--suffix" help:"Appended to the chart file names, e.g. '_basic'"`
}

func (ChartConfig) Description() string {
	return "Render a PNG chart for every '*_qc' variable of a NetCDF file."
}

func (config *ChartConfig) Execute() error {
	ds, err := cf.Read(config.Input)
	if err != nil {
		return err
	}

	var variables []string
	for _, name := range ds.VarNames() {
		if strings.HasSuffix(name, "_qc") {
			variables = append(variables, strings.TrimSuffix(name, "_qc"))
		}
	}
	if len(variables) == 0 {
		return fmt.Errorf("no QC flag variables in '%s'", config.Input)
	}

	if err := os.MkdirAll(config.PlotDir, os.ModePerm); err != nil {
		return err
	}

	bar := utils.NewBar(len(variables), "Charts")
	for _, variable := range variables {
		values, err := ds.Series(variable + "_qc")
		if err != nil {
			return err
		}

		path := ChartPath(config.PlotDir, variable, config.Suffix)
		title := fmt.Sprintf("IOOS QC Flags for %s", variable)
		if err := FlagChart(variable, flags.FromFloat64s(values), title, path); err != nil {
			return err
		}
		bar.Add(1)
	}

	fmt.Printf("Charts saved to: %s\n", config.PlotDir)
	return nil
}

type MapConfig struct {
	Input    string `arg:"-i,--input,required" help:"QC'd NetCDF file"`
	Output   string `arg:"-o,--output,required" help:"Output HTML file"`
	Variable string `arg:"--var" default:"t090c" help:"Variable whose flags colour the markers"`
}

func (MapConfig) Description() string {
	return "Render an HTML map of the trajectory coloured by QC flag."
}

func (config *MapConfig) Execute() error {
	ds, err := cf.Read(config.Input)
	if err != nil {
		return err
	}

	points, err := Points(ds, config.Variable)
	if err != nil {
		return err
	}

	if err := WriteMap(points, DefaultMapOptions(config.Variable), config.Output); err != nil {
		return err
	}

	fmt.Printf("Map saved to: %s\n", config.Output)
	return nil
}
