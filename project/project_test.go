// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: project/project_test.go
// Summary: Detection, default scripts and override handling.

package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestMarkerFileWinsOverContents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/x\n")
	writeFile(t, dir, "script.py", "print('hi')\n")

	c := Load(dir)
	if c.Type() != TypeGo {
		t.Fatalf("type = %s, want go", c.Type())
	}
	if cmd, ok := c.Command("test"); !ok || cmd != "go test ./..." {
		t.Errorf("test command = %q (%v), want go test ./...", cmd, ok)
	}
}

func TestLanguageStatisticsFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "import os\nprint(os.getcwd())\n")
	writeFile(t, dir, "b.py", "def f():\n    return 1\n")
	writeFile(t, dir, "notes.txt", "just text\n")

	c := Load(dir)
	if c.Type() != TypePython {
		t.Fatalf("type = %s, want python", c.Type())
	}
}

func TestUnknownProjectStillHasVCSCommands(t *testing.T) {
	dir := t.TempDir()
	c := Load(dir)
	if c.Type() != TypeUnknown {
		t.Fatalf("type = %s, want unknown", c.Type())
	}
	if cmd, ok := c.Command("push"); !ok || cmd != "git push" {
		t.Errorf("push command = %q (%v), want git push", cmd, ok)
	}
	if _, ok := c.Command("run"); ok {
		t.Error("unknown project offered a run command")
	}
}

func TestOverridesReplaceDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/x\n")
	writeFile(t, dir, "worktop.json", `{"scripts":{"run":"make dev","deploy":"make deploy"}}`)

	c := Load(dir)
	if cmd, _ := c.Command("run"); cmd != "make dev" {
		t.Errorf("run command = %q, want override", cmd)
	}
	// Overrides can introduce scripts defaults never had.
	if cmd, _ := c.Command("deploy"); cmd != "make deploy" {
		t.Errorf("deploy command = %q, want make deploy", cmd)
	}
	// Untouched defaults survive.
	if cmd, _ := c.Command("build"); cmd != "go build ./..." {
		t.Errorf("build command = %q, want default", cmd)
	}
}

func TestEmptyOverrideDisablesCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/x\n")
	writeFile(t, dir, "worktop.json", `{"scripts":{"run":""}}`)

	c := Load(dir)
	if _, ok := c.Command("run"); ok {
		t.Error("empty override still reported a run command")
	}
}

func TestCorruptOverridesBackedUp(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/x\n")
	writeFile(t, dir, "worktop.json", `{broken`)

	c := Load(dir)
	// Defaults survive a corrupt override file.
	if cmd, _ := c.Command("build"); cmd != "go build ./..." {
		t.Errorf("build command = %q, want default after corrupt overrides", cmd)
	}
	if _, err := os.Stat(filepath.Join(dir, "worktop.json.bad")); err != nil {
		t.Errorf("expected corrupt file backup: %v", err)
	}
}

func TestWriteDefaultsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Cargo.toml", "[package]\nname = \"x\"\n")

	c := Load(dir)
	if err := c.WriteDefaults(); err != nil {
		t.Fatalf("WriteDefaults: %v", err)
	}
	again := Load(dir)
	if cmd, _ := again.Command("lint"); cmd != "cargo clippy" {
		t.Errorf("lint command after round trip = %q, want cargo clippy", cmd)
	}
}
