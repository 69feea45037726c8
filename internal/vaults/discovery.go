// Package vaults discovers Obsidian vaults on this machine and checks which of
// them can receive Advanced URI commands.
package vaults

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/starford/ansuz/internal/models"
)

// DefaultPlugin is the community plugin id that handles advanced-uri links.
const DefaultPlugin = "obsidian-advanced-uri"

// obsidianConfig mirrors the parts of obsidian.json we read.
type obsidianConfig struct {
	Vaults map[string]struct {
		Path string `json:"path"`
	} `json:"vaults"`
}

// DefaultConfigPath returns the location of Obsidian's global obsidian.json.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "obsidian", "obsidian.json")
}

// Discover reads obsidian.json at configPath and returns its vaults sorted by
// name. A missing file yields no vaults and no error.
func Discover(configPath, plugin string) ([]models.Vault, error) {
	if configPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("vaults: read %s: %w", configPath, err)
	}

	var cfg obsidianConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("vaults: parse %s: %w", configPath, err)
	}

	out := make([]models.Vault, 0, len(cfg.Vaults))
	for _, v := range cfg.Vaults {
		if v.Path == "" {
			continue
		}
		out = append(out, models.Vault{
			Name:          filepath.Base(v.Path),
			Path:          v.Path,
			HasCapability: HasPlugin(v.Path, plugin),
		})
	}
	sortVaults(out)
	return out, nil
}

// HasPlugin reports whether the vault at root lists plugin among its enabled
// community plugins. Unreadable or malformed plugin lists count as absent.
func HasPlugin(root, plugin string) bool {
	data, err := os.ReadFile(filepath.Join(root, ".obsidian", "community-plugins.json"))
	if err != nil {
		return false
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return false
	}
	return slices.Contains(ids, plugin)
}

// Eligible filters vaults down to those with the capability flag set.
func Eligible(all []models.Vault) []models.Vault {
	var out []models.Vault
	for _, v := range all {
		if v.HasCapability {
			out = append(out, v)
		}
	}
	return out
}

// merge overlays static vaults onto discovered ones; static entries win on name.
func merge(discovered, static []models.Vault) []models.Vault {
	byName := make(map[string]int, len(discovered)+len(static))
	out := make([]models.Vault, 0, len(discovered)+len(static))
	for _, list := range [][]models.Vault{discovered, static} {
		for _, v := range list {
			if i, ok := byName[v.Name]; ok {
				out[i] = v
				continue
			}
			byName[v.Name] = len(out)
			out = append(out, v)
		}
	}
	sortVaults(out)
	return out
}

func sortVaults(vs []models.Vault) {
	slices.SortFunc(vs, func(a, b models.Vault) int {
		return strings.Compare(a.Name, b.Name)
	})
}
