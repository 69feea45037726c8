package storage

import "testing"

func TestIsTraversableDirectory(t *testing.T) {
	cases := map[string]bool{
		"inbox":          true,
		"projects":       true,
		".git":           false,
		".obsidian":      false,
		".trash":         false,
		"old.excalidraw": false,
		".mobile":        false,
		"my.gitstuff":    false, // substring match on the marker
	}
	for name, want := range cases {
		if got := IsTraversableDirectory(name); got != want {
			t.Errorf("IsTraversableDirectory(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestHasAllowedExtension(t *testing.T) {
	exts := []string{".md"}
	cases := map[string]bool{
		"note.md":   true,
		"a.b.md":    true,
		"note.txt":  false,
		"notemd":    false,
		".md":       false,
		"":          false,
		"README.MD": false,
	}
	for name, want := range cases {
		if got := HasAllowedExtension(name, exts); got != want {
			t.Errorf("HasAllowedExtension(%q) = %v, want %v", name, got, want)
		}
	}
	if HasAllowedExtension("note.md", nil) {
		t.Error("no extensions should allow nothing")
	}
}

func TestIsIncludedFolder(t *testing.T) {
	tests := []struct {
		path     string
		excluded []string
		want     bool
	}{
		{"/vault/inbox", nil, true},
		{"/vault/archive", []string{"archive"}, false},
		{"/vault/archive/2023", []string{"archive/"}, false},
		{"/vault/Archive", []string{"archive"}, true},
		{"/vault/templates-old", []string{"templates"}, false},
		{"/vault/inbox", []string{"", "/"}, true},
	}
	for _, tt := range tests {
		if got := IsIncludedFolder(tt.path, tt.excluded); got != tt.want {
			t.Errorf("IsIncludedFolder(%q, %q) = %v, want %v", tt.path, tt.excluded, got, tt.want)
		}
	}
}

func TestIsIncludedFile(t *testing.T) {
	if IsIncludedFile("sketch.excalidraw.md", []string{".excalidraw"}) {
		t.Error("excalidraw drawing should be excluded")
	}
	if !IsIncludedFile("note.md", []string{".excalidraw"}) {
		t.Error("plain note should be included")
	}
	if !IsIncludedFile("note.md", []string{""}) {
		t.Error("empty pattern should not exclude")
	}
}
