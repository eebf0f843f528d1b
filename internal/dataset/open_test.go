package dataset

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"growthstandards/internal/core"
	"growthstandards/internal/refblob"
	"growthstandards/internal/refdata"
)

const fixtureCSV = `measurement,sex,source,x_axis,x,l,m,s,domain_min,domain_max
weight,M,who_growth_0_2,age_days,244,-0.1411,9.274,0.11163,0,730
weight,M,who_growth_0_2,age_days,274,-0.1600954,9.476500305,0.11218624,0,730
weight,M,who_growth_0_2,age_days,305,-0.1779,9.671,0.11277,0,730
`

func assertNineMonthRow(t *testing.T, store *core.Store) {
	t.Helper()
	calc := core.NewCalculator(store)
	z, err := calc.ZScore(core.Request{Measurement: "weight", Sex: "M", AgeDays: 274}, 9.7)
	if err != nil {
		t.Fatalf("zscore: %v", err)
	}
	if math.Abs(z-0.207) > 0.001 {
		t.Fatalf("z = %.4f, want ~0.207", z)
	}
}

func TestOpenLocalCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.csv")
	if err := os.WriteFile(path, []byte(fixtureCSV), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}

	store, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	assertNineMonthRow(t, store)
}

func TestOpenFetchesArtifact(t *testing.T) {
	root := t.TempDir()
	blob, err := refblob.NewFilesystem(root)
	if err != nil {
		t.Fatalf("filesystem store: %v", err)
	}
	if _, err := blob.Put(context.Background(), "v1/who.csv",
		bytes.NewReader([]byte(fixtureCSV)), refblob.PutOptions{ContentType: "text/csv"}); err != nil {
		t.Fatalf("publish artifact: %v", err)
	}

	t.Setenv("GROWTHSTANDARDS_DATASET_DRIVER", "fs")
	t.Setenv("GROWTHSTANDARDS_DATASET_FS_ROOT", root)
	t.Setenv("GROWTHSTANDARDS_DATASET_CACHE", t.TempDir())

	store, err := Open(context.Background(), "v1/who.csv")
	if err != nil {
		t.Fatalf("open artifact reference: %v", err)
	}
	assertNineMonthRow(t, store)
}

func TestOpenMissingArtifact(t *testing.T) {
	t.Setenv("GROWTHSTANDARDS_DATASET_DRIVER", "memory")
	t.Setenv("GROWTHSTANDARDS_DATASET_CACHE", t.TempDir())

	if _, err := Open(context.Background(), "v1/absent.csv"); !errors.Is(err, refblob.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenPostgresDriver(t *testing.T) {
	t.Setenv("GROWTHSTANDARDS_DATASET_DRIVER", DriverPostgres)
	t.Setenv("GROWTHSTANDARDS_DATASET_POSTGRES_DSN", "postgres://db.internal/growthstandards")

	var gotDSN string
	orig := loadPostgres
	loadPostgres = func(ctx context.Context, dsn string) ([]refdata.Record, error) {
		gotDSN = dsn
		return fixtureRecords(), nil
	}
	defer func() { loadPostgres = orig }()

	store, err := Open(context.Background(), "ignored")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if gotDSN != "postgres://db.internal/growthstandards" {
		t.Fatalf("dsn = %q, want env DSN", gotDSN)
	}
	assertNineMonthRow(t, store)
}

func TestOpenPostgresReference(t *testing.T) {
	var gotDSN string
	orig := loadPostgres
	loadPostgres = func(ctx context.Context, dsn string) ([]refdata.Record, error) {
		gotDSN = dsn
		return fixtureRecords(), nil
	}
	defer func() { loadPostgres = orig }()

	// A postgres:// reference selects the central dataset without env vars.
	if _, err := Open(context.Background(), "postgres://replica/growthstandards"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if gotDSN != "postgres://replica/growthstandards" {
		t.Fatalf("dsn = %q, want the reference itself", gotDSN)
	}
}

func TestRecordsUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.parquet")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := Records(context.Background(), path); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestRecordsRequiresReference(t *testing.T) {
	if _, err := Records(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty reference")
	}
}

func fixtureRecords() []refdata.Record {
	return []refdata.Record{
		{Measurement: "weight", Sex: "M", Source: "who_growth_0_2", XAxis: "age_days",
			X: 244, L: -0.1411, M: 9.274, S: 0.11163, DomainMax: 730},
		{Measurement: "weight", Sex: "M", Source: "who_growth_0_2", XAxis: "age_days",
			X: 274, L: -0.1600954, M: 9.476500305, S: 0.11218624, DomainMax: 730},
		{Measurement: "weight", Sex: "M", Source: "who_growth_0_2", XAxis: "age_days",
			X: 305, L: -0.1779, M: 9.671, S: 0.11277, DomainMax: 730},
	}
}
