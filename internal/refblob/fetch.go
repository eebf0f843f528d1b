package refblob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Fetch materializes the artifact at key into dir so file-based loaders can
// open it. The artifact is streamed to a temp file and renamed into place;
// an existing file with the same name is left untouched and its path
// returned, since published artifacts are immutable.
func Fetch(ctx context.Context, store Store, key, dir string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("artifact key required")
	}
	if dir == "" {
		dir = os.TempDir()
	}
	dest := filepath.Join(dir, filepath.Base(key))
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}

	_, body, err := store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("fetch artifact %s: %w", key, err)
	}
	defer func() { _ = body.Close() }()

	tmp, err := os.CreateTemp(dir, ".fetch-*")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write artifact %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", err
	}
	return dest, nil
}
