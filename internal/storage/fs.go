package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

// FS implements Walker backed by the local file system.
type FS struct {
	root string // absolute path to vault directory
}

// NewFS creates a new FS rooted at the given vault directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w: %w", apperr.ErrVaultUnreadable, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w: %w", apperr.ErrVaultUnreadable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: %w: root is not a directory: %s", apperr.ErrVaultUnreadable, abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute vault root.
func (f *FS) Root() string {
	return f.root
}

// Walk returns the absolute path of every note file under the vault root,
// depth-first in directory listing order. Any I/O error aborts the walk.
func (f *FS) Walk(ctx context.Context, ex models.ExclusionConfig) ([]string, error) {
	w := &walk{
		ctx:     ctx,
		ex:      ex,
		visited: make(map[string]struct{}),
	}
	if err := w.dir(f.root); err != nil {
		return nil, err
	}
	return w.files, nil
}

type walk struct {
	ctx     context.Context
	ex      models.ExclusionConfig
	visited map[string]struct{} // resolved real paths, guards symlink cycles
	files   []string
}

func (w *walk) dir(dir string) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}

	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return fmt.Errorf("storage: resolve %s: %w: %w", dir, apperr.ErrVaultUnreadable, err)
	}
	if _, seen := w.visited[real]; seen {
		return nil
	}
	w.visited[real] = struct{}{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("storage: read dir %s: %w: %w", dir, apperr.ErrVaultUnreadable, err)
	}

	included := IsIncludedFolder(dir, w.ex.ExcludedFolders)
	for _, e := range entries {
		name := e.Name()
		p := filepath.Join(dir, name)

		// Stat follows symlinks so linked folders are walked like real ones.
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("storage: stat %s: %w: %w", p, apperr.ErrVaultUnreadable, err)
		}

		if info.IsDir() {
			if IsTraversableDirectory(name) && IsIncludedFolder(p, w.ex.ExcludedFolders) {
				if err := w.dir(p); err != nil {
					return err
				}
			}
			continue
		}

		if included && HasAllowedExtension(name, w.ex.Extensions) && IsIncludedFile(name, w.ex.ExcludedFiles) {
			w.files = append(w.files, p)
		}
	}
	return nil
}
