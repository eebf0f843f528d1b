package refblob

import (
	"context"

	infraS3 "growthstandards/internal/infra/refblob/s3"
)

// S3Config re-exports the infra S3 configuration type so call sites inside
// the internal tree need not import the adapter package.
type S3Config = infraS3.Config

// NewS3 constructs an S3-backed refblob.Store from the provided configuration.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) {
	return infraS3.New(ctx, cfg)
}

// OpenS3FromEnv constructs an S3 store using environment variables.
func OpenS3FromEnv(ctx context.Context) (Store, error) {
	return infraS3.OpenFromEnv(ctx)
}
