package export

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uferreira/cnv2netcdf/cf"
)

func testDataset() *cf.Dataset {
	dims := []string{cf.TRAJECTORY_DIM, cf.OBS_DIM}

	ds := cf.NewTrajectory(3)
	ds.Put(&cf.Variable{Name: "time", Dims: dims, Float64s: []float64{1609588800, 1609588801.5, math.NaN()}})
	ds.Put(&cf.Variable{Name: "lat", Dims: dims, Float64s: []float64{60.1, 60.2, 60.3}})
	ds.Put(&cf.Variable{Name: "lon", Dims: dims, Float64s: []float64{5.1, 5.2, 5.3}})
	ds.Put(&cf.Variable{Name: "t090c", Dims: dims, Float64s: []float64{10, 11, 12}})
	ds.Put(&cf.Variable{Name: "sal00", Dims: dims, Float64s: []float64{35, 35.1, 35.2}})
	ds.Put(&cf.Variable{Name: "t090c_qc", Dims: dims, Int8s: []int8{1, 3, 4}})
	ds.Put(&cf.Variable{Name: "sal00_qc", Dims: dims, Int8s: []int8{1, 1, 2}})
	ds.Put(&cf.Variable{Name: "orphan_qc", Dims: dims, Int8s: []int8{1, 1, 1}})
	return ds
}

func TestQCVariables(t *testing.T) {
	assert.Equal(t, []string{"t090c", "sal00"}, QCVariables(testDataset()))
}

func TestRecords(t *testing.T) {
	ds := testDataset()

	records, err := Records(ds, QCVariables(ds))
	require.NoError(t, err)
	require.Len(t, records, 2*ds.Len())

	assert.Equal(t, &Record{
		Variable:    "t090c",
		Obs:         1,
		Time:        "2021-01-02T12:00:01.500Z",
		Latitude:    60.2,
		Longitude:   5.2,
		Value:       11,
		Flag:        3,
		FlagMeaning: "potentially_bad_data",
	}, records[1])

	assert.Equal(t, "", records[2].Time)
	assert.Equal(t, "sal00", records[3].Variable)
	assert.Equal(t, "probably_good_data", records[5].FlagMeaning)

	_, err = Records(ds, []string{"lat"})
	assert.ErrorContains(t, err, "has no QC flags")
}

func TestWriteCSV(t *testing.T) {
	ds := testDataset()
	records, err := Records(ds, []string{"t090c"})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "flags.csv")
	require.NoError(t, WriteCSV(path, records))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	header := strings.SplitN(string(content), "\n", 2)[0]
	assert.Equal(t, "variable,obs,time,latitude,longitude,value,flag,flag_meaning", header)

	var back []*Record
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, gocsv.UnmarshalFile(file, &back))
	assert.Equal(t, records, back)
}

func TestExecute(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "qc.nc")
	require.NoError(t, cf.Write(testDataset(), input))

	config := Config{Input: input, Output: filepath.Join(dir, "flags.csv"), Variables: []string{"sal00", "wetstar"}}
	require.NoError(t, config.Execute())

	content, err := os.ReadFile(config.Output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	assert.Len(t, lines, 1+3)
	assert.True(t, strings.HasPrefix(lines[1], "sal00,0,"))
}

func TestExecuteCommaSeparated(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "qc.nc")
	require.NoError(t, cf.Write(testDataset(), input))

	config := Config{Input: input, Output: filepath.Join(dir, "flags.csv"), Variables: []string{"t090c,sal00", " t090c"}}
	require.NoError(t, config.Execute())

	content, err := os.ReadFile(config.Output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	assert.Len(t, lines, 1+6)
	assert.True(t, strings.HasPrefix(lines[1], "t090c,0,"))
	assert.True(t, strings.HasPrefix(lines[4], "sal00,0,"))
}

func TestExecuteWithoutFlags(t *testing.T) {
	dir := t.TempDir()
	ds := cf.NewTrajectory(1)
	ds.Put(&cf.Variable{Name: "t090c", Dims: []string{cf.TRAJECTORY_DIM, cf.OBS_DIM}, Float64s: []float64{1}})

	input := filepath.Join(dir, "plain.nc")
	require.NoError(t, cf.Write(ds, input))

	config := Config{Input: input, Output: filepath.Join(dir, "flags.csv")}
	assert.ErrorContains(t, config.Execute(), "no QC flag variables")
}
