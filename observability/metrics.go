// Package observability collects QC run metrics and writes them in the
// node-exporter textfile format, so batch runs can be scraped after the fact.
package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/uferreira/cnv2netcdf/qc/flags"
)

const NAMESPACE = "cnv2netcdf"

// Metrics holds the counters and gauges of a single QC run.
type Metrics struct {
	registry *prometheus.Registry

	Flags        *prometheus.CounterVec // labels: variable, flag={1,2,3,4}
	TestsSkipped *prometheus.CounterVec // labels: variable, test
	TestsFailed  *prometheus.CounterVec // labels: variable, test
	Observations prometheus.Gauge
}

// NewMetrics creates the QC metrics on a private registry, every run starts from zero.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Flags: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "qc_flags_total",
			Help:      "Combined QC flags by variable and flag value.",
		}, []string{"variable", "flag"}),
		TestsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "qc_tests_skipped_total",
			Help:      "Time-based tests skipped because of a degenerate time axis.",
		}, []string{"variable", "test"}),
		TestsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "qc_tests_failed_total",
			Help:      "Tests that returned an error and were replaced by good flags.",
		}, []string{"variable", "test"}),
		Observations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Name:      "qc_observations",
			Help:      "Number of observations in the QC'd dataset.",
		}),
	}

	m.registry.MustRegister(
		m.Flags,
		m.TestsSkipped,
		m.TestsFailed,
		m.Observations,
	)

	return m
}

func (m *Metrics) RecordFlags(variable string, values []flags.Flag) {
	for flag, count := range flags.Counts(values) {
		m.Flags.WithLabelValues(variable, strconv.Itoa(int(flag))).Add(float64(count))
	}
}

func (m *Metrics) RecordSkipped(variable string, tests ...string) {
	for _, test := range tests {
		m.TestsSkipped.WithLabelValues(variable, test).Inc()
	}
}

func (m *Metrics) RecordFailed(variable string, tests ...string) {
	for _, test := range tests {
		m.TestsFailed.WithLabelValues(variable, test).Inc()
	}
}

// Writes the registry to `path` (atomically, via a temporary file)
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
