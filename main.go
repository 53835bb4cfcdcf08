package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"

	"github.com/uferreira/cnv2netcdf/convert"
	"github.com/uferreira/cnv2netcdf/export"
	"github.com/uferreira/cnv2netcdf/list"
	"github.com/uferreira/cnv2netcdf/plot"
	"github.com/uferreira/cnv2netcdf/qc"
	"github.com/uferreira/cnv2netcdf/utils"
)

const (
	EXIT_ERROR = 1
	EXIT_USAGE = 2
)

type CmdArgs struct {
	LogFile  string            `arg:"--log-file,env:CNV2NC_LOG_FILE" help:"Redirect log output to this file"`
	Verbose  bool              `arg:"-v,--verbose" help:"Enable debug logging"`
	Convert  *convert.Config   `arg:"subcommand:convert" help:"Convert a Sea-Bird CNV file to CF NetCDF"`
	QC       *qc.Config        `arg:"subcommand:qc" help:"Apply QARTOD QC tests to a NetCDF file"`
	Plot     *plot.ChartConfig `arg:"subcommand:plot" help:"Render QC flag charts of a NetCDF file"`
	Map      *plot.MapConfig   `arg:"subcommand:map" help:"Render an HTML map of QC flags"`
	Export   *export.Config    `arg:"subcommand:export" help:"Export QC flags to CSV"`
	Profiles *list.Config      `arg:"subcommand:profiles" help:"List the built-in QC profiles"`
}

func (CmdArgs) Description() string {
	return "Convert Sea-Bird CTD files to CF NetCDF and quality control them with IOOS QARTOD tests."
}

func (args *CmdArgs) Execute(parser *arg.Parser) error {
	switch {
	case args.Convert != nil:
		return args.Convert.Execute()
	case args.QC != nil:
		return args.QC.Execute()
	case args.Plot != nil:
		return args.Plot.Execute()
	case args.Map != nil:
		return args.Map.Execute()
	case args.Export != nil:
		return args.Export.Execute()
	case args.Profiles != nil:
		return args.Profiles.Execute()
	default:
		fmt.Println("Error: passing a subcommand is required.")
		fmt.Println()
		parser.WriteHelp(os.Stdout)
		os.Exit(EXIT_USAGE)
	}
	return nil
}

// Prints the error once on stdout. The log only gets a copy when it is
// redirected to a file, since it shares stdout otherwise.
func reportError(err error, logToFile bool) {
	if logToFile {
		slog.Error(err.Error())
	}
	fmt.Println("Error:", err)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stdout)

	// The following env variables can be used instead of the flags:
	//   - "CNV2NC_PROFILE", "CNV2NC_THRESHOLDS", "CNV2NC_PLOT_DIR" and "CNV2NC_LOG_FILE"
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Println(err)
		os.Exit(EXIT_ERROR)
	}

	var args CmdArgs
	parser, err := arg.NewParser(arg.Config{
		Program: "cnv2netcdf",
		Exit: func(code int) {
			if code != 0 {
				code = EXIT_USAGE
			}
			os.Exit(code)
		},
	}, &args)
	if err != nil {
		fmt.Println(err)
		os.Exit(EXIT_ERROR)
	}
	parser.MustParse(os.Args[1:])

	if args.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	closeLog := func() {}
	if args.LogFile != "" {
		closeLog, err = utils.SetLogFile(args.LogFile)
		if err != nil {
			fmt.Println(err)
			os.Exit(EXIT_ERROR)
		}
	}

	code := 0
	if err := args.Execute(parser); err != nil {
		reportError(err, args.LogFile != "")
		code = EXIT_ERROR
	}

	closeLog()
	os.Exit(code)
}
