// Package resolver finds existing notes by title in a walked vault and derives
// their vault-relative folder.
package resolver

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrOutsideVault   = errors.New("resolver: path is not inside the vault root")
	ErrTitleNotInPath = errors.New("resolver: path does not end in the title")
)

// Resolve returns the first path in files whose file name is exactly
// title+ext. Directory names never match, including those above the vault
// root. files must be in walk order; when several notes share a title the
// one walked first wins.
func Resolve(files []string, title, ext string) (string, bool) {
	name := title + ext
	for _, p := range files {
		if isNote(p, name) {
			return p, true
		}
	}
	return "", false
}

// ResolveAll returns every path in files named title+ext, in walk order.
func ResolveAll(files []string, title, ext string) []string {
	name := title + ext
	var out []string
	for _, p := range files {
		if isNote(p, name) {
			out = append(out, p)
		}
	}
	return out
}

// ExtractFolder returns the folder of matched relative to root, with forward
// slashes and no leading or trailing separator. matched must end in the
// title+ext segment; the folder is everything before it, and a note at the
// vault root yields "".
func ExtractFolder(matched, root, title, ext string) (string, error) {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(matched))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrOutsideVault, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s", ErrOutsideVault, matched)
	}

	segs := strings.Split(rel, string(filepath.Separator))
	last := len(segs) - 1
	if segs[last] != title+ext {
		return "", fmt.Errorf("%w: %s", ErrTitleNotInPath, matched)
	}
	return strings.Join(segs[:last], "/"), nil
}

func isNote(p, name string) bool {
	return filepath.Base(p) == name
}
