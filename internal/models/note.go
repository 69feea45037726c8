// Package models defines the domain types for Ansuz.
package models

// Command modes understood by the Advanced URI plugin.
const (
	ModeCreate = "create"
	ModeAppend = "append"
)

// Vault is one Obsidian vault as reported by discovery.
type Vault struct {
	Name          string `json:"name"`
	Path          string `json:"path"`
	HasCapability bool   `json:"has_capability"`
}

// ExclusionConfig controls which folders and files a vault walk visits.
type ExclusionConfig struct {
	ExcludedFolders []string `json:"excluded_folders,omitempty"`
	ExcludedFiles   []string `json:"excluded_files,omitempty"`
	Extensions      []string `json:"extensions"`
}

// DefaultExclusions skips Excalidraw drawings and restricts the walk to Markdown notes.
func DefaultExclusions() ExclusionConfig {
	return ExclusionConfig{
		ExcludedFiles: []string{".excalidraw"},
		Extensions:    []string{".md"},
	}
}

// CaptureRequest is the user input for a single capture.
type CaptureRequest struct {
	Title     string `json:"title"`
	Body      string `json:"body,omitempty"`
	LinkURL   string `json:"link_url,omitempty"`
	LinkLabel string `json:"link_label,omitempty"`
	Highlight string `json:"highlight,omitempty"`
	Vault     string `json:"vault,omitempty"`
	Folder    string `json:"folder,omitempty"`
}

// ResolvedTarget is where a captured note will be written.
// Folder is relative to the vault root and uses forward slashes.
type ResolvedTarget struct {
	Folder string `json:"folder"`
	Exists bool   `json:"exists"`
}

// Command is a deep-link command for the Advanced URI plugin.
type Command struct {
	Scheme   string `json:"scheme"`
	Vault    string `json:"vault"`
	FilePath string `json:"filepath"`
	Data     string `json:"data"`
	Mode     string `json:"mode"`
}
