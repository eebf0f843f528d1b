// Package refblob re-exports the dataset artifact storage abstractions and
// selects a backend from the environment. Compiled reference datasets are
// published once and fetched read-mostly, so the surface stays small.
package refblob

import (
	"growthstandards/internal/refblob/core"
)

type (
	// Driver identifies an artifact backend driver.
	Driver = core.Driver
	// PutOptions configures an artifact write.
	PutOptions = core.PutOptions
	// Info describes stored artifact metadata.
	Info = core.Info
	// Store is the interface for artifact storage backends.
	Store = core.Store
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
)

// ErrNotFound indicates the requested artifact does not exist.
var ErrNotFound = core.ErrNotFound
