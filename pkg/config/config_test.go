package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

var errInvalid = errors.New("port must be positive")

func (c *testConfig) Validate() error {
	if c.Port <= 0 {
		return errInvalid
	}
	return nil
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("ANSUZ_TEST_NAME", "from-env")
	p := filepath.Join(t.TempDir(), "config.yaml")
	_ = os.WriteFile(p, []byte("name: ${ANSUZ_TEST_NAME}\nport: 9000\n"), 0o644)

	cfg := &testConfig{}
	if err := Load(p, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "from-env" || cfg.Port != 9000 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_KeepsDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	_ = os.WriteFile(p, []byte("name: x\n"), 0o644)

	cfg := &testConfig{Port: 80}
	if err := Load(p, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 80 {
		t.Errorf("port = %d, want default 80", cfg.Port)
	}
}

func TestLoad_Validates(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	_ = os.WriteFile(p, []byte("port: 0\n"), 0o644)
	if err := Load(p, &testConfig{}); !errors.Is(err, errInvalid) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestLoadOptional_MissingFile(t *testing.T) {
	cfg := &testConfig{Port: 1}
	if err := LoadOptional(filepath.Join(t.TempDir(), "none.yaml"), cfg); err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if err := LoadOptional(filepath.Join(t.TempDir(), "none.yaml"), &testConfig{}); !errors.Is(err, errInvalid) {
		t.Errorf("defaults should still be validated, got %v", err)
	}
}
