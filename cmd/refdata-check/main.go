// Command refdata-check validates a compiled reference dataset: it loads the
// records, re-runs percentile derivation for rows missing LMS, rebuilds the
// table store with full invariant checks, and reports per-table row counts.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"growthstandards/internal/dataset"
	"growthstandards/internal/refdata"
)

var exitFunc = os.Exit

func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("refdata-check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var datasetPath string
	fs.StringVar(&datasetPath, "dataset", "", "dataset reference: local .csv/.sqlite path, artifact key, or postgres:// DSN")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if datasetPath == "" {
		fmt.Fprintln(stderr, "refdata-check: -dataset required")
		return 2
	}
	if err := run(context.Background(), stdout, datasetPath); err != nil {
		fmt.Fprintf(stderr, "Dataset validation failed: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, "Dataset validation passed.")
	return 0
}

func run(ctx context.Context, stdout io.Writer, ref string) error {
	records, err := dataset.Records(ctx, ref)
	if err != nil {
		return err
	}

	derivable := 0
	for _, rec := range records {
		if !rec.HasLMS() {
			derivable++
		}
	}
	compiled, err := refdata.Compile(records)
	if err != nil {
		return fmt.Errorf("derivation: %w", err)
	}

	store, err := refdata.BuildStore(compiled)
	if err != nil {
		return fmt.Errorf("build store: %w", err)
	}

	if errs := refdata.Verify(store); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(stdout, "verify: %v\n", e)
		}
		return fmt.Errorf("%d verification failures", len(errs))
	}

	fmt.Fprintf(stdout, "%d records (%d derived from percentiles), %d tables\n",
		len(records), derivable, store.Len())
	for _, table := range store.Tables() {
		label := fmt.Sprintf("%s/%s/%s", table.Source, table.Measurement, table.Sex)
		if table.IntervalDays > 0 {
			label = fmt.Sprintf("%s/%dd", label, table.IntervalDays)
		}
		fmt.Fprintf(stdout, "  %-60s %4d rows  domain [%g, %g]\n",
			label, table.Len(), table.DomainMin, table.DomainMax)
	}
	return nil
}
