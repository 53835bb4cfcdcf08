package export

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/uferreira/cnv2netcdf/cf"
	"github.com/uferreira/cnv2netcdf/utils"
)

type Config struct {
	Input     string   `arg:"-i,--input,required" help:"QC'd NetCDF file"`
	Output    string   `arg:"-o,--output,required" help:"Output CSV file"`
	Variables []string `arg:"--vars" help:"Optional space or comma separated list of variables, defaults to every variable with QC flags"`
}

func (Config) Description() string {
	return "Export values and QC flags to a long-format CSV file."
}

func (config *Config) Execute() error {
	ds, err := cf.Read(config.Input)
	if err != nil {
		return err
	}

	available := QCVariables(ds)
	if len(available) == 0 {
		return fmt.Errorf("no QC flag variables in '%s'", config.Input)
	}

	variables := utils.FilterSlice(utils.SplitNames(config.Variables), available, "Variable '%s' has no QC flags, skipping")
	if len(variables) == 0 {
		return fmt.Errorf("none of %v have QC flags in '%s'", config.Variables, config.Input)
	}

	records, err := Records(ds, variables)
	if err != nil {
		return err
	}

	return WriteCSV(config.Output, records)
}

func WriteCSV(path string, records []*Record) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Printf("Writing QC flags to %s...\n", path)
	if err := gocsv.MarshalFile(&records, file); err != nil {
		return fmt.Errorf("could not write '%s': %w", path, err)
	}
	fmt.Printf("Exported %d rows!\n", len(records))
	return file.Close()
}
