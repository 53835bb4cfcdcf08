package plot

import (
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/uferreira/cnv2netcdf/cf"
	"github.com/uferreira/cnv2netcdf/qc/flags"
)

//go:embed map.html
var mapHTML string

var mapTemplate = template.Must(template.New("map").Parse(mapHTML))

var ErrNoPoints = errors.New("no valid points to plot")

// Marker colours by flag
var FLAG_COLORS = map[flags.Flag]string{
	flags.GOOD:            "green",
	flags.PROBABLY_GOOD:   "lightblue",
	flags.POTENTIALLY_BAD: "orange",
	flags.BAD:             "red",
}

var titleCaser = cases.Title(language.English)

type Point struct {
	Latitude  float64
	Longitude float64
	Value     float64
	Flag      flags.Flag
}

type MapOptions struct {
	Variable string
	Zoom     int
	Height   int // pixels
}

func DefaultMapOptions(variable string) MapOptions {
	return MapOptions{Variable: variable, Zoom: 6, Height: 600}
}

// Short title-cased label of a flag, e.g. "Probably Good"
func FlagLabel(f flags.Flag) string {
	meaning := strings.TrimSuffix(f.Meaning(), "_data")
	return titleCaser.String(strings.ReplaceAll(meaning, "_", " "))
}

// Collects the observations of `variable` and its flags. Coordinates are read
// from "latitude"/"longitude", falling back to "lat"/"lon". Observations with a
// missing value or an unknown flag are dropped.
func Points(ds *cf.Dataset, variable string) ([]Point, error) {
	latVar, ok := ds.FirstVar("latitude", "lat")
	if !ok {
		return nil, errors.New("no latitude variable in dataset")
	}
	lonVar, ok := ds.FirstVar("longitude", "lon")
	if !ok {
		return nil, errors.New("no longitude variable in dataset")
	}

	lat, err := ds.Series(latVar.Name)
	if err != nil {
		return nil, err
	}
	lon, err := ds.Series(lonVar.Name)
	if err != nil {
		return nil, err
	}
	values, err := ds.Series(variable)
	if err != nil {
		return nil, err
	}
	qc, err := ds.Series(variable + "_qc")
	if err != nil {
		return nil, fmt.Errorf("'%s' has no QC flags: %w", variable, err)
	}

	var points []Point
	for i, flag := range flags.FromFloat64s(qc) {
		if math.IsNaN(lat[i]) || math.IsNaN(lon[i]) || math.IsNaN(values[i]) || !flag.Valid() {
			continue
		}
		points = append(points, Point{lat[i], lon[i], values[i], flag})
	}
	return points, nil
}

type marker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Value float64 `json:"value"`
	Flag  int8    `json:"flag"`
	Label string  `json:"label"`
	Color string  `json:"color"`
}

type legendEntry struct {
	Flag  int8
	Label string
	Color string
}

type mapPage struct {
	Title      string
	ValueLabel string
	Height     int
	Zoom       int
	CenterLat  float64
	CenterLon  float64
	Points     []marker
	Legend     []legendEntry
}

// Renders a standalone Leaflet page with one marker per point, coloured by flag
func Map(points []Point, opts MapOptions, w io.Writer) error {
	if len(points) == 0 {
		return ErrNoPoints
	}

	page := mapPage{
		Title:      titleCaser.String(opts.Variable) + " QC Map",
		ValueLabel: titleCaser.String(opts.Variable),
		Height:     opts.Height,
		Zoom:       opts.Zoom,
		Points:     make([]marker, len(points)),
	}

	for i, p := range points {
		page.CenterLat += p.Latitude / float64(len(points))
		page.CenterLon += p.Longitude / float64(len(points))
		page.Points[i] = marker{
			Lat:   p.Latitude,
			Lon:   p.Longitude,
			Value: p.Value,
			Flag:  int8(p.Flag),
			Label: fmt.Sprintf("%d - %s", p.Flag, FlagLabel(p.Flag)),
			Color: FLAG_COLORS[p.Flag],
		}
	}

	for _, f := range flags.ALL {
		page.Legend = append(page.Legend, legendEntry{int8(f), FlagLabel(f), FLAG_COLORS[f]})
	}

	return mapTemplate.Execute(w, page)
}

func WriteMap(points []Point, opts MapOptions, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := Map(points, opts, file); err != nil {
		return fmt.Errorf("could not write '%s': %w", path, err)
	}
	return file.Close()
}
