package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/ansuz/internal/capture"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/state"
	"github.com/starford/ansuz/internal/testutil"
	"github.com/starford/ansuz/internal/vaults"
)

func testServer(t *testing.T, files ...string) (*Server, *testutil.Recorder) {
	t.Helper()

	root := testutil.TestVault(t, files...)
	plain := testutil.TestVault(t)
	reg := vaults.NewRegistry("", "", []models.Vault{
		{Name: "Notes", Path: root, HasCapability: true},
		{Name: "Plain", Path: plain},
	}, nil)
	if err := reg.Refresh(); err != nil {
		t.Fatal(err)
	}

	rec := &testutil.Recorder{}
	svc := capture.NewService(capture.Config{}, reg, state.NewMemory(), capture.WithDispatcher(rec))
	return New(svc, reg), rec
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so handlers are called directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "capture_note":
		result, err = srv.captureNote(ctx, req)
	case "resolve_note":
		result, err = srv.resolveNote(ctx, req)
	case "list_vaults":
		result, err = srv.listVaults(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCaptureNote(t *testing.T) {
	srv, rec := testServer(t)

	r := callTool(t, srv, "capture_note", map[string]interface{}{
		"title":    "Idea",
		"body":     "Hello",
		"link_url": "https://x.com",
	})
	if r.IsError {
		t.Fatalf("capture failed: %s", resultText(r))
	}
	var res capture.Result
	if err := json.Unmarshal([]byte(resultText(r)), &res); err != nil {
		t.Fatal(err)
	}
	if res.Command.FilePath != "inbox/Idea.md" || res.Command.Mode != models.ModeCreate {
		t.Errorf("command = %+v", res.Command)
	}
	if res.Payload != "Hello\n\n[https://x.com](https://x.com)" {
		t.Errorf("payload = %q", res.Payload)
	}
	if len(rec.URIs()) != 1 {
		t.Errorf("dispatched = %v", rec.URIs())
	}
}

func TestCaptureNoteAppends(t *testing.T) {
	srv, _ := testServer(t, "journal/Daily.md")

	r := callTool(t, srv, "capture_note", map[string]interface{}{"title": "Daily", "body": "x"})
	var res capture.Result
	_ = json.Unmarshal([]byte(resultText(r)), &res)
	if res.Command.Mode != models.ModeAppend || res.Command.FilePath != "journal/Daily.md" {
		t.Errorf("command = %+v", res.Command)
	}
}

func TestCaptureNoteErrors(t *testing.T) {
	srv, rec := testServer(t)

	r := callTool(t, srv, "capture_note", map[string]interface{}{})
	if !r.IsError {
		t.Error("missing title should fail")
	}
	r = callTool(t, srv, "capture_note", map[string]interface{}{"title": "Idea", "vault": "Plain"})
	if !r.IsError {
		t.Error("vault without plugin should fail")
	}
	if len(rec.URIs()) != 0 {
		t.Errorf("nothing should be dispatched, got %v", rec.URIs())
	}
}

func TestResolveNote(t *testing.T) {
	srv, rec := testServer(t, "a/b/Topic.md")

	r := callTool(t, srv, "resolve_note", map[string]interface{}{"title": "Topic"})
	if r.IsError {
		t.Fatalf("resolve failed: %s", resultText(r))
	}
	var res capture.Resolution
	_ = json.Unmarshal([]byte(resultText(r)), &res)
	if !res.Target.Exists || res.Target.Folder != "a/b" {
		t.Errorf("target = %+v", res.Target)
	}
	if len(rec.URIs()) != 0 {
		t.Error("resolve should not dispatch")
	}
}

func TestListVaults(t *testing.T) {
	srv, _ := testServer(t)

	text := resultText(callTool(t, srv, "list_vaults", map[string]interface{}{}))
	var vs []models.Vault
	if err := json.Unmarshal([]byte(text), &vs); err != nil {
		t.Fatalf("list result %q: %v", text, err)
	}
	if len(vs) != 2 {
		t.Fatalf("vaults = %+v", vs)
	}
	for _, v := range vs {
		if v.HasCapability != (v.Name == "Notes") {
			t.Errorf("vault %s capability = %v", v.Name, v.HasCapability)
		}
	}
}

func TestCaptureFormatResource(t *testing.T) {
	srv, _ := testServer(t)

	contents, err := srv.readCaptureFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != CaptureFormatURI {
		t.Fatalf("contents = %+v", contents)
	}
	if !strings.Contains(tc.Text, "#### New Thought") {
		t.Error("format should mention the append heading")
	}
}

func TestResolveNoteRejectsInvalidTitle(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "resolve_note", map[string]interface{}{"title": "a/b"})
	if !r.IsError {
		t.Errorf("title with a slash should fail, got %s", resultText(r))
	}
}
