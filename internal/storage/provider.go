// Package storage enumerates note files in a vault on the local file system.
package storage

import (
	"context"

	"github.com/starford/ansuz/internal/models"
)

// Walker is the interface for enumerating vault notes.
type Walker interface {
	// Root returns the absolute vault root.
	Root() string
	// Walk returns the absolute paths of all note files that pass ex.
	Walk(ctx context.Context, ex models.ExclusionConfig) ([]string, error)
}

// Verify *FS satisfies Walker at compile time.
var _ Walker = (*FS)(nil)
