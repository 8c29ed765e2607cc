// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/worktop/main.go
// Summary: Entrypoint: flags, logging, wiring, the run loop.

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	xterm "golang.org/x/term"

	"github.com/framegrace/worktop/config"
	"github.com/framegrace/worktop/history"
	"github.com/framegrace/worktop/project"
	"github.com/framegrace/worktop/workspace"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "worktop:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("worktop", flag.ContinueOnError)
	shellFlag := fs.String("shell", "", "shell to host (default $SHELL, then /bin/sh)")
	dirFlag := fs.String("dir", ".", "project directory")
	logFlag := fs.String("log", "", "log file (default ~/.worktop/worktop.log)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !xterm.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal")
	}

	if err := setupLogging(*logFlag); err != nil {
		return err
	}

	dir, err := filepath.Abs(*dirFlag)
	if err != nil {
		return fmt.Errorf("resolve project directory: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("enter project directory: %w", err)
	}

	shell := *shellFlag
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}

	cmds := project.Load(dir)
	log.Printf("Main: project %s detected as %s", dir, cmds.Type())

	store, err := config.OpenDefaultBindingStore()
	if err != nil {
		log.Printf("Main: no binding store: %v", err)
		store = nil
	}

	histPath, err := config.HistoryPath()
	if err != nil {
		histPath = "" // memory-only
	}
	hist := history.Open(histPath, history.DefaultLimit)
	defer hist.Close()

	screen, err := workspace.InitScreen()
	if err != nil {
		return err
	}
	driver := workspace.NewTcellDriver(screen)
	defer driver.Fini()

	ctrl, err := newController(driver, cmds, store, hist, shell)
	if err != nil {
		return err
	}
	return ctrl.Run()
}

// newController keeps the nil-interface wiring in one place: a nil
// *BindingStore must become a nil interface, not a typed nil.
func newController(driver workspace.Driver, cmds *project.Commands, store *config.BindingStore, hist *history.Store, shell string) (*workspace.Controller, error) {
	var bindings workspace.BindingStore
	if store != nil {
		bindings = store
	}
	return workspace.NewController(driver, cmds, bindings, hist, []string{shell})
}

func setupLogging(path string) error {
	if path == "" {
		var err error
		path, err = config.LogPath()
		if err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return nil
}
