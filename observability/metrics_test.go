package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uferreira/cnv2netcdf/qc/flags"
)

func TestRecordFlags(t *testing.T) {
	m := NewMetrics()
	m.RecordFlags("t090c", []flags.Flag{1, 1, 3, 4, 1})
	m.RecordFlags("sal00", []flags.Flag{2})

	assert.Equal(t, 3.0, testutil.ToFloat64(m.Flags.WithLabelValues("t090c", "1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Flags.WithLabelValues("t090c", "3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Flags.WithLabelValues("t090c", "4")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Flags.WithLabelValues("sal00", "2")))
}

func TestNewMetricsIsolated(t *testing.T) {
	first := NewMetrics()
	first.RecordSkipped("t090c", "flat_line", "rate_of_change")

	second := NewMetrics()
	assert.Equal(t, 0, testutil.CollectAndCount(second.TestsSkipped))
	assert.Equal(t, 2, testutil.CollectAndCount(first.TestsSkipped))
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.Observations.Set(5)
	m.RecordFlags("t090c", []flags.Flag{1, 4})
	m.RecordFailed("sal00", "spike")

	path := filepath.Join(t.TempDir(), "qc.prom")
	require.NoError(t, m.WriteTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, "cnv2netcdf_qc_observations 5")
	assert.Contains(t, text, `cnv2netcdf_qc_flags_total{flag="4",variable="t090c"} 1`)
	assert.Contains(t, text, `cnv2netcdf_qc_tests_failed_total{test="spike",variable="sal00"} 1`)
}
