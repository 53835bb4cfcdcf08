package qartod

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uferreira/cnv2netcdf/qc/flags"
)

var nan = math.NaN()

func TestGrossRange(t *testing.T) {
	type testCase struct {
		input    []float64
		expected []flags.Flag
	}

	suspect := [2]float64{-2, 35}
	fail := [2]float64{-5, 45}

	cases := []testCase{
		{[]float64{10, 20, 100}, []flags.Flag{1, 1, 4}},
		{[]float64{-3, 36, 45, -5}, []flags.Flag{3, 3, 3, 3}},
		{[]float64{-5.1, 45.1}, []flags.Flag{4, 4}},
		{[]float64{nan, 10}, []flags.Flag{2, 1}},
		{[]float64{}, []flags.Flag{}},
	}

	for _, c := range cases {
		result, err := GrossRange(c.input, suspect, fail)
		require.NoError(t, err)
		assert.Equal(t, c.expected, result, c.input)
	}
}

func TestGrossRangeInvalidSpans(t *testing.T) {
	type testCase struct {
		suspect [2]float64
		fail    [2]float64
	}

	cases := []testCase{
		{[2]float64{35, -2}, [2]float64{-5, 45}},
		{[2]float64{-2, 35}, [2]float64{45, -5}},
		{[2]float64{-10, 35}, [2]float64{-5, 45}},
	}

	for _, c := range cases {
		_, err := GrossRange([]float64{1}, c.suspect, c.fail)
		assert.Error(t, err, c)
	}
}

func TestSpike(t *testing.T) {
	type testCase struct {
		input    []float64
		expected []flags.Flag
	}

	cases := []testCase{
		{[]float64{1, 1, 10, 1, 1}, []flags.Flag{2, 1, 3, 1, 2}},
		{[]float64{1, 1, 30, 1, 1}, []flags.Flag{2, 4, 4, 4, 2}},
		{[]float64{1, nan, 1, 1, 1}, []flags.Flag{2, 2, 2, 1, 2}},
		{[]float64{1}, []flags.Flag{2}},
	}

	for _, c := range cases {
		result, err := Spike(c.input, 5, 10)
		require.NoError(t, err)
		assert.Equal(t, c.expected, result, c.input)
	}

	_, err := Spike([]float64{1, 2, 3}, 10, 5)
	assert.Error(t, err)
}

func TestFlatLine(t *testing.T) {
	type testCase struct {
		values   []float64
		times    []float64
		expected []flags.Flag
	}

	cases := []testCase{
		{
			[]float64{1, 1, 1, 1, 1, 2},
			[]float64{0, 1, 2, 3, 4, 5},
			[]flags.Flag{1, 1, 3, 3, 4, 1},
		},
		{
			// Two second sampling halves the window length in observations
			[]float64{1, 1, 1, 1},
			[]float64{0, 2, 4, 6},
			[]flags.Flag{1, 3, 4, 4},
		},
		{
			[]float64{1, 1, nan, 1, 1, 1},
			[]float64{0, 1, 2, 3, 4, 5},
			[]flags.Flag{1, 1, 2, 1, 1, 3},
		},
		{
			[]float64{1, 2, 3, 4, 5},
			[]float64{0, 1, 2, 3, 4},
			[]flags.Flag{1, 1, 1, 1, 1},
		},
	}

	for _, c := range cases {
		result, err := FlatLine(c.values, c.times, 2*time.Second, 4*time.Second, 0.001)
		require.NoError(t, err)
		assert.Equal(t, c.expected, result, c.values)
	}
}

func TestFlatLineFractionalWindow(t *testing.T) {
	values := make([]float64, 20)
	times := make([]float64, 20)
	for i := range times {
		values[i] = 7
		times[i] = 1.5 * float64(i)
	}

	// 20s / 1.5s truncates to 13 previous observations, 45s / 1.5s to 30
	result, err := FlatLine(values, times, 20*time.Second, 45*time.Second, 0.001)
	require.NoError(t, err)

	expected := make([]flags.Flag, 20)
	for i := range expected {
		expected[i] = flags.GOOD
		if i >= 13 {
			expected[i] = flags.POTENTIALLY_BAD
		}
	}
	assert.Equal(t, expected, result)

	// Thresholds shorter than the interval check a single value
	result, err = FlatLine([]float64{1, nan, 2}, []float64{0, 1, 2}, 0, 500*time.Millisecond, 0.001)
	require.NoError(t, err)
	assert.Equal(t, []flags.Flag{4, 2, 4}, result)

	result, err = FlatLine([]float64{1, 1, 1}, []float64{0, 1, 2}, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []flags.Flag{1, 1, 1}, result)
}

func TestFlatLineErrors(t *testing.T) {
	type testCase struct {
		values []float64
		times  []float64
	}

	cases := []testCase{
		{[]float64{1, 1, 1}, []float64{5, 5, 5}},
		{[]float64{1}, []float64{0}},
		{[]float64{1, 2}, []float64{0}},
	}

	for _, c := range cases {
		_, err := FlatLine(c.values, c.times, 2*time.Second, 4*time.Second, 0.001)
		assert.Error(t, err, c)
	}

	_, err := FlatLine([]float64{1, 2}, []float64{0, 1}, 10*time.Second, 5*time.Second, 0.001)
	assert.Error(t, err)
}

func TestRateOfChange(t *testing.T) {
	type testCase struct {
		values   []float64
		times    []float64
		expected []flags.Flag
	}

	cases := []testCase{
		{[]float64{0, 1, 5, 5.5}, []float64{0, 1, 2, 3}, []flags.Flag{1, 1, 3, 1}},
		{[]float64{0, 4, 8}, []float64{0, 4, 8}, []flags.Flag{1, 1, 1}},
		{[]float64{0, nan, 10}, []float64{0, 1, 2}, []flags.Flag{1, 2, 1}},
		{[]float64{0, 10}, []float64{3, 3}, []flags.Flag{1, 1}},
	}

	for _, c := range cases {
		result, err := RateOfChange(c.values, c.times, 2)
		require.NoError(t, err)
		assert.Equal(t, c.expected, result, c.values)
	}

	_, err := RateOfChange([]float64{1, 2}, []float64{0}, 2)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestDistinctTimes(t *testing.T) {
	assert.Equal(t, 0, DistinctTimes([]float64{nan, nan}))
	assert.Equal(t, 1, DistinctTimes([]float64{5, 5, nan}))
	assert.Equal(t, 3, DistinctTimes([]float64{1, 2, 3, 3}))
}
