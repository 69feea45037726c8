package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/capture"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/vaults"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Obsidian ObsidianConfig    `yaml:"obsidian"`
	Capture  CaptureConfig     `yaml:"capture"`
	State    StateConfig       `yaml:"state"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Obsidian.Validate(); err != nil {
		return err
	}
	if err := c.Capture.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// VaultEntry declares a vault by hand, in addition to those Obsidian knows about.
type VaultEntry struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
	// Capable skips the plugin check and marks the vault as able to receive commands.
	Capable bool `yaml:"capable"`
}

// Validate validates a vault entry.
func (e VaultEntry) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required),
		validation.Field(&e.Path, validation.Required),
	)
}

// ObsidianConfig controls vault discovery.
type ObsidianConfig struct {
	// ConfigPath is Obsidian's obsidian.json; empty disables discovery.
	ConfigPath string       `yaml:"config_path"`
	Plugin     string       `yaml:"plugin"`
	Vaults     []VaultEntry `yaml:"vaults"`
}

// Validate validates the Obsidian configuration.
func (c *ObsidianConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Plugin, validation.Required),
		validation.Field(&c.Vaults),
	)
}

// StaticVaults converts the configured entries to vaults.
func (c *ObsidianConfig) StaticVaults() []models.Vault {
	out := make([]models.Vault, 0, len(c.Vaults))
	for _, e := range c.Vaults {
		out = append(out, models.Vault{
			Name:          e.Name,
			Path:          expandHome(e.Path),
			HasCapability: e.Capable,
		})
	}
	return out
}

// CaptureConfig holds note resolution and delivery settings.
type CaptureConfig struct {
	DefaultFolder   string   `yaml:"default_folder"`
	Extension       string   `yaml:"extension"`
	ExcludedFolders []string `yaml:"excluded_folders"`
	ExcludedFiles   []string `yaml:"excluded_files"`
	// Open hands generated links to the OS URL handler.
	Open bool `yaml:"open"`
	// Copy puts generated links on the clipboard.
	Copy bool `yaml:"copy"`
}

// Validate validates the capture configuration.
func (c *CaptureConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DefaultFolder, validation.Required),
		validation.Field(&c.Extension, validation.Required, validation.By(func(any) error {
			if !strings.HasPrefix(c.Extension, ".") || len(c.Extension) < 2 {
				return fmt.Errorf("must start with a dot, e.g. .md")
			}
			return nil
		})),
	)
}

// Service returns the capture service settings.
func (c *CaptureConfig) Service() capture.Config {
	return capture.Config{
		Exclusions: models.ExclusionConfig{
			ExcludedFolders: c.ExcludedFolders,
			ExcludedFiles:   c.ExcludedFiles,
			Extensions:      []string{c.Extension},
		},
		DefaultFolder: c.DefaultFolder,
	}
}

// StateConfig holds the settings database location. Empty keeps state in memory.
type StateConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	defaults := models.DefaultExclusions()
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Host: "127.0.0.1",
				Port: 8787,
			},
		},
		Obsidian: ObsidianConfig{
			ConfigPath: vaults.DefaultConfigPath(),
			Plugin:     vaults.DefaultPlugin,
		},
		Capture: CaptureConfig{
			DefaultFolder: capture.DefaultFolder,
			Extension:     defaults.Extensions[0],
			ExcludedFiles: defaults.ExcludedFiles,
			Open:          true,
		},
		State: StateConfig{
			Path: defaultStatePath(),
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ansuz", "state.db")
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
