package internal

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/testutil"
	"github.com/starford/ansuz/internal/vaults"
)

// testConfig writes an obsidian.json listing one vault with the plugin
// enabled and returns a config pointing at it with a file-backed state store.
func testConfig(t *testing.T, files ...string) (*Config, string) {
	t.Helper()
	root := testutil.TestVault(t, files...)
	testutil.EnablePlugin(t, root, vaults.DefaultPlugin)

	obsidian := map[string]any{
		"vaults": map[string]any{
			"abc123": map[string]string{"path": root},
		},
	}
	data, err := json.Marshal(obsidian)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	configPath := testutil.WriteFile(t, dir, "obsidian/obsidian.json", string(data))

	cfg := NewDefaultConfig()
	cfg.Obsidian.ConfigPath = configPath
	cfg.State.Path = filepath.Join(dir, "ansuz", "state.db")
	return cfg, root
}

func TestCaptureRemembersFolder(t *testing.T) {
	cfg, root := testConfig(t, "notes/Existing.md")
	rec := &testutil.Recorder{}
	opts := []Option{WithConfig(cfg), WithLogOutput(io.Discard), WithDispatcher(rec)}
	ctx := context.Background()

	res, err := Capture(ctx, models.CaptureRequest{Title: "Idea", Body: "x", Folder: "journal"}, opts...)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if res.Command.Vault != filepath.Base(root) || res.Command.FilePath != "journal/Idea.md" {
		t.Errorf("command = %+v", res.Command)
	}
	if len(rec.URIs()) != 1 {
		t.Errorf("dispatched = %v", rec.URIs())
	}

	// A fresh process reads the saved vault and folder back from disk.
	r, err := Resolve(ctx, "", "Fresh", "", opts...)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Vault.Name != filepath.Base(root) || r.Target.Folder != "journal" || r.Target.Exists {
		t.Errorf("resolution = %+v", r)
	}

	r, err = Resolve(ctx, "", "Existing", "", opts...)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !r.Target.Exists || r.Target.Folder != "notes" {
		t.Errorf("target = %+v", r.Target)
	}
}

func TestCaptureDryRun(t *testing.T) {
	cfg, _ := testConfig(t)
	cfg.State.Path = ""

	res, err := Capture(context.Background(), models.CaptureRequest{Title: "Idea"},
		WithConfig(cfg), WithLogOutput(io.Discard), WithDispatcher(nil))
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if res.Dispatched {
		t.Error("nil dispatcher should not dispatch")
	}
	if res.URI == "" {
		t.Error("uri should still be built")
	}
}

func TestVaultsListsAll(t *testing.T) {
	cfg, _ := testConfig(t)
	plain := testutil.TestVault(t)
	cfg.Obsidian.Vaults = []VaultEntry{{Name: "Plain", Path: plain}}

	vs, err := Vaults(context.Background(), WithConfig(cfg), WithLogOutput(io.Discard))
	if err != nil {
		t.Fatalf("Vaults: %v", err)
	}
	if len(vs) != 2 {
		t.Fatalf("vaults = %+v", vs)
	}
	eligible := vaults.Eligible(vs)
	if len(eligible) != 1 || eligible[0].Name == "Plain" {
		t.Errorf("eligible = %+v", eligible)
	}
}

func TestConfigRequired(t *testing.T) {
	if _, err := Vaults(context.Background()); err == nil {
		t.Error("missing config should fail")
	}
}
