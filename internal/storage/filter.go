package storage

import (
	"os"
	"strings"
)

// systemFolderMarkers are folder name fragments that are never walked,
// whatever the caller's exclusion config says.
var systemFolderMarkers = []string{".git", ".obsidian", ".trash", ".excalidraw", ".mobile"}

// IsTraversableDirectory reports whether a directory named name may be entered.
func IsTraversableDirectory(name string) bool {
	for _, m := range systemFolderMarkers {
		if strings.Contains(name, m) {
			return false
		}
	}
	return true
}

// HasAllowedExtension reports whether name ends with one of exts.
// A file named exactly like an extension (e.g. ".md") has no stem and is rejected.
func HasAllowedExtension(name string, exts []string) bool {
	for _, ext := range exts {
		if ext == "" || name == ext {
			continue
		}
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// IsIncludedFolder reports whether path contains none of the excluded folder patterns.
// One trailing separator is stripped from each pattern before the substring test.
func IsIncludedFolder(path string, excluded []string) bool {
	for _, pattern := range excluded {
		pattern = normalizePattern(pattern)
		if pattern == "" {
			continue
		}
		if strings.Contains(path, pattern) {
			return false
		}
	}
	return true
}

// IsIncludedFile reports whether the file name contains none of the excluded substrings.
func IsIncludedFile(name string, excluded []string) bool {
	for _, s := range excluded {
		if s != "" && strings.Contains(name, s) {
			return false
		}
	}
	return true
}

func normalizePattern(p string) string {
	if strings.HasSuffix(p, "/") {
		return p[:len(p)-1]
	}
	if os.PathSeparator != '/' && strings.HasSuffix(p, string(os.PathSeparator)) {
		return p[:len(p)-1]
	}
	return p
}
