package s3

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatal("expected bucket error")
	}
}

func TestOpenFromEnvRequiresBucket(t *testing.T) {
	t.Setenv("GROWTHSTANDARDS_DATASET_S3_BUCKET", "")
	if _, err := OpenFromEnv(context.Background()); err == nil {
		t.Fatal("expected bucket error")
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(&types.NoSuchKey{}) {
		t.Error("NoSuchKey not recognized")
	}
	if !isNotFound(&types.NotFound{}) {
		t.Error("NotFound not recognized")
	}
	if isNotFound(errors.New("throttled")) {
		t.Error("unrelated error misclassified as not found")
	}
}

func TestFromHeadDefaultsAndTrimsETag(t *testing.T) {
	s := &Store{bucket: "datasets"}
	etag := `"abc123"`
	contentType := "text/csv"
	size := int64(42)
	modified := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	info := s.fromHead("who.csv", &size, &contentType, &etag, map[string]string{"release": "2025-01"}, &modified)
	if info.ETag != "abc123" {
		t.Errorf("etag = %q, want quotes trimmed", info.ETag)
	}
	if info.Size != 42 || info.ContentType != "text/csv" || !info.LastModified.Equal(modified) {
		t.Errorf("unexpected info %+v", info)
	}

	// All-nil head fields still produce a usable Info.
	info = s.fromHead("who.csv", nil, nil, nil, nil, nil)
	if info.Key != "who.csv" || info.Size != 0 || info.LastModified.IsZero() {
		t.Errorf("unexpected zero-field info %+v", info)
	}
}
