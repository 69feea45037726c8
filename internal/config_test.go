package internal

import (
	"strings"
	"testing"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token"}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Capture.DefaultFolder != "inbox" || cfg.Capture.Extension != ".md" {
		t.Errorf("capture defaults = %+v", cfg.Capture)
	}
}

func TestCaptureConfig_Extension(t *testing.T) {
	for _, ext := range []string{"md", ".", ""} {
		cfg := NewDefaultConfig()
		cfg.Capture.Extension = ext
		if err := cfg.Validate(); err == nil {
			t.Errorf("extension %q should fail validation", ext)
		}
	}
}

func TestObsidianConfig_VaultEntries(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Obsidian.Vaults = []VaultEntry{{Name: "Notes"}}
	if err := cfg.Validate(); err == nil {
		t.Error("vault entry without path should fail")
	}

	cfg.Obsidian.Vaults = []VaultEntry{{Name: "Notes", Path: "~/notes", Capable: true}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid vault entry: %v", err)
	}
	vs := cfg.Obsidian.StaticVaults()
	if len(vs) != 1 || strings.HasPrefix(vs[0].Path, "~") || !vs[0].HasCapability {
		t.Errorf("static vaults = %+v", vs)
	}
}

func TestCaptureConfig_Service(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Capture.ExcludedFolders = []string{"archive/"}
	sc := cfg.Capture.Service()
	if len(sc.Exclusions.Extensions) != 1 || sc.Exclusions.Extensions[0] != ".md" {
		t.Errorf("extensions = %v", sc.Exclusions.Extensions)
	}
	if sc.Exclusions.ExcludedFolders[0] != "archive/" || sc.DefaultFolder != "inbox" {
		t.Errorf("service config = %+v", sc)
	}
}
