package convert

import (
	"fmt"

	"github.com/uferreira/cnv2netcdf/cf"
	"github.com/uferreira/cnv2netcdf/cnv"
)

type Config struct {
	Input  string `arg:"-i,--input,required" help:"Input Sea-Bird .cnv file"`
	Output string `arg:"-o,--output,required" help:"Output NetCDF file"`
}

func (Config) Description() string {
	return "Convert a Sea-Bird CNV file to a CF-1.12 NetCDF trajectory file."
}

func (config *Config) Execute() error {
	table, err := cnv.Parse(config.Input)
	if err != nil {
		return err
	}

	ds, err := cf.Encode(table)
	if err != nil {
		return err
	}

	if err := cf.Write(ds, config.Output); err != nil {
		return err
	}

	fmt.Printf("NetCDF saved as: %s\n", config.Output)
	return nil
}
