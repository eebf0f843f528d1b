package refblob

import (
	"context"
	"fmt"
	"os"
)

// Open selects a refblob.Store implementation using environment variables.
//
//	GROWTHSTANDARDS_DATASET_DRIVER: fs|s3|memory (default fs)
//	GROWTHSTANDARDS_DATASET_FS_ROOT: directory root when driver=fs (default ./refdata)
//	(S3 specific variables documented in s3.go)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("GROWTHSTANDARDS_DATASET_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		root := os.Getenv("GROWTHSTANDARDS_DATASET_FS_ROOT")
		return NewFilesystem(root)
	case DriverS3:
		return OpenS3FromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown dataset driver %s", driver)
	}
}
