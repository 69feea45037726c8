package vaults

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

// Registry holds the current vault list. It is safe for concurrent use.
type Registry struct {
	configPath string
	plugin     string
	static     []models.Vault
	logger     *slog.Logger

	mu     sync.RWMutex
	vaults []models.Vault
}

// NewRegistry creates a registry reading obsidian.json at configPath and
// merging in static vaults from the application config. Call Refresh to load it.
func NewRegistry(configPath, plugin string, static []models.Vault, logger *slog.Logger) *Registry {
	if plugin == "" {
		plugin = DefaultPlugin
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		configPath: configPath,
		plugin:     plugin,
		static:     static,
		logger:     logger,
	}
}

// ConfigPath returns the obsidian.json path the registry reads.
func (r *Registry) ConfigPath() string {
	return r.configPath
}

// Refresh re-reads obsidian.json and replaces the vault list.
func (r *Registry) Refresh() error {
	discovered, err := Discover(r.configPath, r.plugin)
	if err != nil {
		return err
	}
	// Static vaults may omit the flag; check the plugin list on disk for them too.
	static := make([]models.Vault, len(r.static))
	for i, v := range r.static {
		if !v.HasCapability {
			v.HasCapability = HasPlugin(v.Path, r.plugin)
		}
		static[i] = v
	}
	all := merge(discovered, static)

	r.mu.Lock()
	r.vaults = all
	r.mu.Unlock()

	r.logger.Debug("vaults: refreshed",
		slog.Int("total", len(all)),
		slog.Int("eligible", len(Eligible(all))))
	return nil
}

// All returns every known vault.
func (r *Registry) All() []models.Vault {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Vault, len(r.vaults))
	copy(out, r.vaults)
	return out
}

// Eligible returns the vaults that can receive Advanced URI commands.
func (r *Registry) Eligible() []models.Vault {
	return Eligible(r.All())
}

// Lookup returns the eligible vault called name.
func (r *Registry) Lookup(name string) (models.Vault, error) {
	eligible := r.Eligible()
	if len(eligible) == 0 {
		return models.Vault{}, apperr.ErrNoEligibleVault
	}
	for _, v := range eligible {
		if v.Name == name {
			return v, nil
		}
	}
	return models.Vault{}, fmt.Errorf("%w: %q", apperr.ErrVaultNotFound, name)
}
