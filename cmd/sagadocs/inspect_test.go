package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDoc = "# __East Blue Saga__\n\n## Romance Dawn\n\n### __Romance Dawn Arc__\n\nLuffy sets sail.\n"

func runInspect(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "NewWorld.md")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"inspect", path}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestInspect_Text(t *testing.T) {
	out, err := runInspect(t)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Main Saga: East Blue Saga\n  Sub-Saga: Romance Dawn\n    Arc: Romance Dawn Arc\n\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestInspect_YAML(t *testing.T) {
	out, err := runInspect(t, "--format", "yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"title: East Blue Saga", "category: new_world", "summary: Luffy sets sail."} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestInspect_JSON(t *testing.T) {
	out, err := runInspect(t, "--format", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"title": "Romance Dawn Arc"`) {
		t.Errorf("unexpected json:\n%s", out)
	}
}

func TestInspect_UnknownFormat(t *testing.T) {
	if _, err := runInspect(t, "--format", "toml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
