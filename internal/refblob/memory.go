package refblob

import (
	memorystore "growthstandards/internal/infra/refblob/memory"
)

// NewMemory returns an in-memory refblob.Store suitable for tests.
func NewMemory() Store { return memorystore.New() }
