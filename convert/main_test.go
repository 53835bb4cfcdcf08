package convert

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uferreira/cnv2netcdf/cf"
	"github.com/uferreira/cnv2netcdf/cnv"
)

func TestExecute(t *testing.T) {
	config := Config{
		Input:  "../cnv/testdata/sample.cnv",
		Output: filepath.Join(t.TempDir(), "sample.nc"),
	}
	require.NoError(t, config.Execute())

	ds, err := cf.Read(config.Output)
	require.NoError(t, err)
	assert.Equal(t, 5, ds.Len())
	assert.Equal(t, "CF-1.12", ds.Attrs.String("Conventions"))

	for _, name := range []string{"time", "lat", "lon", "t090c", "sal00", "wetstar", "timej", "latitude", "longitude", "trajectory"} {
		_, ok := ds.Var(name)
		assert.True(t, ok, name)
	}
}

func TestExecuteMalformedInput(t *testing.T) {
	config := Config{
		Input:  "testdata/no_end.cnv",
		Output: filepath.Join(t.TempDir(), "out.nc"),
	}
	assert.ErrorIs(t, config.Execute(), cnv.ErrNoEndOfHeader)
}
