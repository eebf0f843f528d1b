// Package dataset resolves a dataset reference to loaded reference records.
// A reference is a local .csv/.sqlite path, an artifact key served by the
// environment-selected artifact store, or the central Postgres instance when
// GROWTHSTANDARDS_DATASET_DRIVER=postgres (or the reference is a postgres://
// DSN). Commands depend on this package instead of picking loaders directly.
package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"growthstandards/internal/core"
	"growthstandards/internal/infra/refdata/csvfile"
	"growthstandards/internal/infra/refdata/postgres"
	"growthstandards/internal/infra/refdata/sqlite"
	"growthstandards/internal/refblob"
	"growthstandards/internal/refdata"
)

// DriverPostgres selects the central Postgres dataset. The file and artifact
// drivers are those of the artifact store (fs, s3, memory).
const DriverPostgres = "postgres"

// Seams for tests; the artifact store and Postgres pool are external.
var (
	openArtifacts = refblob.Open
	loadPostgres  = func(ctx context.Context, dsn string) ([]refdata.Record, error) {
		loader, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		defer func() { _ = loader.Close() }()
		return loader.Load(ctx)
	}
)

// Records resolves ref and reads the raw dataset records.
//
// Resolution order:
//  1. Postgres, when selected by driver env or a postgres:// reference. The
//     DSN comes from the reference itself or GROWTHSTANDARDS_DATASET_POSTGRES_DSN.
//  2. An existing local file, opened with the loader for its extension.
//  3. Otherwise the reference is an artifact key: the store selected by the
//     environment serves it, and the fetched copy is opened as a file.
func Records(ctx context.Context, ref string) ([]refdata.Record, error) {
	if ref == "" {
		return nil, fmt.Errorf("dataset reference required")
	}
	if isPostgres(ref) {
		dsn := os.Getenv("GROWTHSTANDARDS_DATASET_POSTGRES_DSN")
		if strings.HasPrefix(ref, "postgres://") {
			dsn = ref
		}
		return loadPostgres(ctx, dsn)
	}
	if _, err := os.Stat(ref); err == nil {
		return loadFile(ctx, ref)
	}
	store, err := openArtifacts(ctx)
	if err != nil {
		return nil, err
	}
	path, err := refblob.Fetch(ctx, store, ref, cacheDir())
	if err != nil {
		return nil, err
	}
	return loadFile(ctx, path)
}

// Open resolves ref, compiles any percentile-only rows, and builds the
// immutable reference store. This is the one-stop entry point for commands.
func Open(ctx context.Context, ref string) (*core.Store, error) {
	records, err := Records(ctx, ref)
	if err != nil {
		return nil, err
	}
	compiled, err := refdata.Compile(records)
	if err != nil {
		return nil, err
	}
	return refdata.BuildStore(compiled)
}

func isPostgres(ref string) bool {
	if strings.HasPrefix(ref, "postgres://") {
		return true
	}
	return os.Getenv("GROWTHSTANDARDS_DATASET_DRIVER") == DriverPostgres
}

func loadFile(ctx context.Context, path string) ([]refdata.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sqlite", ".db":
		loader, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = loader.Close() }()
		return loader.Load(ctx)
	case ".csv":
		return csvfile.New(path).Load(ctx)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q (want .csv or .sqlite)", filepath.Ext(path))
	}
}

// cacheDir is where fetched artifacts are materialized. Artifacts are
// immutable, so a cached copy is always current.
func cacheDir() string {
	if dir := os.Getenv("GROWTHSTANDARDS_DATASET_CACHE"); dir != "" {
		return dir
	}
	return filepath.Join(os.TempDir(), "growthstandards")
}
