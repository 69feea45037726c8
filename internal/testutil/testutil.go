// Package testutil provides shared test helpers for building vault trees.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// TestVault creates a temporary vault directory containing the given files
// (slash-separated paths relative to the root). Each file holds its own path.
func TestVault(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		WriteFile(t, root, f, f)
	}
	return root
}

// WriteFile writes content to rel under root, creating parent directories.
func WriteFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// EnablePlugin marks a vault as having the given community plugin installed.
func EnablePlugin(t *testing.T, root, plugin string) {
	t.Helper()
	WriteFile(t, root, ".obsidian/community-plugins.json", `["`+plugin+`"]`)
}

// Recorder is a dispatcher that keeps every URI it is given.
// It is safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	uris []string
}

func (r *Recorder) Dispatch(_ context.Context, uri string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uris = append(r.uris, uri)
	return nil
}

// URIs returns a copy of the recorded URIs in dispatch order.
func (r *Recorder) URIs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.uris...)
}
