package list

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	expected := []string{
		"    - basic: Gross range and spike tests only",
		"        tests: gross_range, spike (time axis: observed)",
		"        't090c': suspect [-2 35] fail [-5 45], spike 0.5/1",
		"        'sal00': suspect [1 40] fail [0 42], spike 1/2, flat 30s/1m0s tol 0.01, roc 5",
		"    - dummy-time: All tests, observation index as time axis",
		"        default: suspect [0.1 42] fail [0 50], spike 5/10, flat 20s/45s tol 0.01, roc 30",
	}

	for _, line := range expected {
		if !strings.Contains(out, line+"\n") {
			t.Errorf("Missing line %q in:\n%s", line, out)
		}
	}

	if strings.Index(out, "- basic") > strings.Index(out, "- standard") {
		t.Error("Profiles should be sorted by name")
	}
}
