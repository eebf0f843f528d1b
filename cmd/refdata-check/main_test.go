package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

const validCSV = `measurement,sex,source,x_axis,x,l,m,s,domain_min,domain_max
weight,M,who_growth_0_2,age_days,0,0.3487,3.3464,0.14602,0,730
weight,M,who_growth_0_2,age_days,30,0.2297,4.4709,0.13395,0,730
weight,M,who_growth_0_2,age_days,61,0.1970,5.5675,0.12385,0,730
`

func TestCheckValidDataset(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := cli([]string{"-dataset", writeDataset(t, validCSV)}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "Dataset validation passed.") {
		t.Fatalf("missing pass line: %s", out)
	}
	if !strings.Contains(out, "who_growth_0_2/weight/M") || !strings.Contains(out, "3 rows") {
		t.Fatalf("missing table summary: %s", out)
	}
}

func TestCheckRejectsNonPositiveS(t *testing.T) {
	bad := `measurement,sex,source,x_axis,x,l,m,s,domain_min,domain_max
weight,M,who_growth_0_2,age_days,0,0.3487,3.3464,0,0,730
`
	var stdout, stderr bytes.Buffer
	code := cli([]string{"-dataset", writeDataset(t, bad)}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "Dataset validation failed") {
		t.Fatalf("unexpected stderr: %s", stderr.String())
	}
}

func TestCheckFlagsDecreasingMedian(t *testing.T) {
	bad := `measurement,sex,source,x_axis,x,l,m,s,domain_min,domain_max
weight,M,who_growth_0_2,age_days,0,0.3487,4.4709,0.14602,0,730
weight,M,who_growth_0_2,age_days,30,0.2297,3.3464,0.13395,0,730
`
	var stdout, stderr bytes.Buffer
	code := cli([]string{"-dataset", writeDataset(t, bad)}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stdout.String(), "verify:") {
		t.Fatalf("expected verify diagnostics, got: %s", stdout.String())
	}
}

func TestCheckRequiresDataset(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cli(nil, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
}

func TestCheckUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.xlsx")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	var stdout, stderr bytes.Buffer
	if code := cli([]string{"-dataset", path}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
}
