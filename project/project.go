// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: project/project.go
// Summary: Project type detection and per-action shell commands.
// Usage: Load once at startup; Command answers action effect lookups.
// Notes: Detection tries marker files first, then language statistics over
// the tree. A worktop.json in the root overrides individual scripts.

package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/go-enry/go-enry/v2"
)

// Type classifies the project for default script selection.
type Type string

const (
	TypeGo      Type = "go"
	TypeRust    Type = "rust"
	TypeNode    Type = "node"
	TypePython  Type = "python"
	TypeUnknown Type = "unknown"
)

// overrideFile carries user script overrides in the project root.
const overrideFile = "worktop.json"

// sampleLimit bounds how many files the language scan reads.
const sampleLimit = 200

// sampleBytes bounds how much of each file the scan reads.
const sampleBytes = 8 * 1024

// Commands resolves action IDs to shell command lines for one project.
type Commands struct {
	dir     string
	typ     Type
	scripts map[string]string
}

type overrides struct {
	Scripts map[string]string `json:"scripts"`
}

// Load builds the command table for the project at dir. It never fails hard:
// detection falls back to TypeUnknown and a corrupt override file is backed
// up and ignored.
func Load(dir string) *Commands {
	c := &Commands{
		dir: dir,
		typ: detect(dir),
	}
	c.scripts = defaultScripts(c.typ)
	c.applyOverrides()
	return c
}

// Type returns the detected project type.
func (c *Commands) Type() Type { return c.typ }

// Dir returns the project root.
func (c *Commands) Dir() string { return c.dir }

// Command returns the shell command for an action ID, if any.
func (c *Commands) Command(actionID string) (string, bool) {
	cmd, ok := c.scripts[actionID]
	return cmd, ok && cmd != ""
}

// Scripts returns a copy of the resolved script table.
func (c *Commands) Scripts() map[string]string {
	out := make(map[string]string, len(c.scripts))
	for k, v := range c.scripts {
		out[k] = v
	}
	return out
}

// WriteDefaults writes the current script table as a worktop.json, giving
// the user a file to edit.
func (c *Commands) WriteDefaults() error {
	data, err := json.MarshalIndent(overrides{Scripts: c.scripts}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", overrideFile, err)
	}
	data = append(data, '\n')
	path := filepath.Join(c.dir, overrideFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", overrideFile, err)
	}
	return nil
}

func (c *Commands) applyOverrides() {
	path := filepath.Join(c.dir, overrideFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		log.Printf("Project: could not read %s: %v", overrideFile, err)
		return
	}
	var ov overrides
	if err := json.Unmarshal(data, &ov); err != nil {
		backup := path + ".bad"
		if renameErr := os.Rename(path, backup); renameErr == nil {
			log.Printf("Project: corrupt %s backed up to %s", overrideFile, backup)
		} else {
			log.Printf("Project: corrupt %s: %v", overrideFile, err)
		}
		return
	}
	for id, cmd := range ov.Scripts {
		c.scripts[id] = cmd
	}
}

// detect classifies the project. Marker files are authoritative; without
// one, language statistics over a bounded sample of the tree decide.
func detect(dir string) Type {
	markers := []struct {
		file string
		typ  Type
	}{
		{"go.mod", TypeGo},
		{"Cargo.toml", TypeRust},
		{"package.json", TypeNode},
		{"pyproject.toml", TypePython},
		{"setup.py", TypePython},
	}
	for _, m := range markers {
		if _, err := os.Stat(filepath.Join(dir, m.file)); err == nil {
			return m.typ
		}
	}
	return detectByLanguage(dir)
}

func detectByLanguage(dir string) Type {
	counts := make(map[string]int)
	sampled := 0
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			switch d.Name() {
			case ".git", "node_modules", "vendor", "target", "__pycache__":
				return fs.SkipDir
			}
			return nil
		}
		if sampled >= sampleLimit {
			return fs.SkipAll
		}
		content := readSample(path)
		if content == nil {
			return nil
		}
		lang := enry.GetLanguage(d.Name(), content)
		if lang == "" || enry.IsVendor(path) {
			return nil
		}
		counts[lang]++
		sampled++
		return nil
	})

	best, bestCount := "", 0
	for lang, n := range counts {
		if n > bestCount {
			best, bestCount = lang, n
		}
	}
	switch best {
	case "Go":
		return TypeGo
	case "Rust":
		return TypeRust
	case "JavaScript", "TypeScript":
		return TypeNode
	case "Python":
		return TypePython
	}
	return TypeUnknown
}

func readSample(path string) []byte {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	buf := make([]byte, sampleBytes)
	n, err := f.Read(buf)
	if n == 0 && err != nil && err != io.EOF {
		return nil
	}
	return buf[:n]
}

// defaultScripts seeds the per-type command table, keyed by action ID.
// Version-control commands are type-independent.
func defaultScripts(t Type) map[string]string {
	scripts := map[string]string{
		"push":   "git push",
		"commit": "git commit -a",
	}
	for id, cmd := range typeScripts(t) {
		scripts[id] = cmd
	}
	return scripts
}

func typeScripts(t Type) map[string]string {
	switch t {
	case TypeGo:
		return map[string]string{
			"run":     "go run .",
			"build":   "go build ./...",
			"lint":    "go vet ./...",
			"test":    "go test ./...",
			"clean":   "go clean",
			"install": "go mod tidy",
		}
	case TypeRust:
		return map[string]string{
			"run":     "cargo run",
			"build":   "cargo build",
			"lint":    "cargo clippy",
			"test":    "cargo test",
			"clean":   "cargo clean",
			"install": "cargo fetch",
		}
	case TypeNode:
		return map[string]string{
			"run":     "npm start",
			"build":   "npm run build",
			"lint":    "npm run lint",
			"test":    "npm test",
			"install": "npm install",
		}
	case TypePython:
		return map[string]string{
			"run":     "python3 .",
			"lint":    "ruff check .",
			"test":    "pytest",
			"install": "pip install -r requirements.txt",
		}
	}
	return map[string]string{}
}
