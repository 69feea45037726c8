// Package uri builds Advanced URI deep links for Obsidian.
package uri

import (
	"strings"

	"github.com/starford/ansuz/internal/models"
)

// Scheme is the deep-link prefix handled by the obsidian-advanced-uri plugin.
const Scheme = "obsidian://advanced-uri"

// FilePath joins a vault-relative folder and a note title with "/".
// An empty folder yields the bare title.
func FilePath(folder, title string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return title
	}
	return folder + "/" + title
}

// NewCommand returns the command that writes data to title inside target.Folder,
// appending when the note already exists.
func NewCommand(vault string, target models.ResolvedTarget, title, data string) models.Command {
	mode := models.ModeCreate
	if target.Exists {
		mode = models.ModeAppend
	}
	return models.Command{
		Scheme:   Scheme,
		Vault:    vault,
		FilePath: FilePath(target.Folder, title),
		Data:     data,
		Mode:     mode,
	}
}

// Build renders cmd as a URI. Every query value is escaped on its own,
// filepath after its segments are joined; mode is only sent for appends.
func Build(cmd models.Command) string {
	scheme := cmd.Scheme
	if scheme == "" {
		scheme = Scheme
	}
	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("?vault=")
	b.WriteString(EncodeComponent(cmd.Vault))
	b.WriteString("&filepath=")
	b.WriteString(EncodeComponent(cmd.FilePath))
	b.WriteString("&data=")
	b.WriteString(EncodeComponent(cmd.Data))
	if cmd.Mode == models.ModeAppend {
		b.WriteString("&mode=append")
	}
	return b.String()
}

// EncodeComponent percent-encodes s like JavaScript's encodeURIComponent,
// which is what the plugin decodes with: everything except A-Z a-z 0-9 and
// -_.!~*'() is escaped as UTF-8 bytes with upper-case hex.
func EncodeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
