package flags

import (
	"slices"
	"strings"
	"testing"
)

func TestCombine(t *testing.T) {
	type testCase struct {
		input    [][]Flag
		expected []Flag
	}

	cases := []testCase{
		{[][]Flag{{1, 1, 1}, {1, 3, 1}, {1, 1, 4}}, []Flag{1, 3, 4}},
		{[][]Flag{{2, 1}, {1, 1}}, []Flag{2, 1}},
		{[][]Flag{{4, 3}, {3, 4}}, []Flag{4, 4}},
		{[][]Flag{{1, 2, 3}, {1}}, []Flag{1, 2, 3}},
		{[][]Flag{{1}}, []Flag{1}},
		{[][]Flag{}, []Flag{}},
	}

	for _, c := range cases {
		t.Log("Combining:", c.input)

		if result := Combine(c.input...); !slices.Equal(result, c.expected) {
			t.Errorf("Got %v, wanted %v", result, c.expected)
		}
	}
}

func TestCombineDoesNotDecrease(t *testing.T) {
	a := []Flag{1, 2, 3, 4}
	b := []Flag{4, 3, 2, 1}

	result := Combine(a, b)
	for i := range result {
		if result[i] < a[i] || result[i] < b[i] {
			t.Errorf("Combined flag %v at %d is lower than its inputs", result[i], i)
		}
	}
}

func TestCounts(t *testing.T) {
	counts := Counts([]Flag{1, 1, 3, 4, 1})
	if counts[GOOD] != 3 || counts[POTENTIALLY_BAD] != 1 || counts[BAD] != 1 || counts[PROBABLY_GOOD] != 0 {
		t.Errorf("Unexpected counts %v", counts)
	}
}

func TestMeanings(t *testing.T) {
	meanings := make([]string, len(ALL))
	for i, f := range ALL {
		if FLAG_VALUES[i] != int8(f) {
			t.Errorf("Flag value %v out of order", FLAG_VALUES[i])
		}
		meanings[i] = f.Meaning()
	}

	if joined := strings.Join(meanings, " "); joined != FLAG_MEANINGS {
		t.Errorf("Got %q, wanted %q", joined, FLAG_MEANINGS)
	}

	if Flag(9).Valid() {
		t.Error("Flag 9 should not be valid")
	}
}
