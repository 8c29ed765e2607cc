// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: workspace/controller.go
// Summary: The single-goroutine control loop tying everything together.
// Usage: NewController, then Run until quit.
// Notes: Terminal grid, registry and all mode state are touched only on
// the Run goroutine. Session output and input events are both serviced
// every pass so neither can starve the other.

package workspace

import (
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/worktop/action"
	"github.com/framegrace/worktop/session"
	"github.com/framegrace/worktop/term"
)

// Mode is the top-level input mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePalette
	ModeHelp
)

// BindingStore persists keybinding overrides between runs.
type BindingStore interface {
	Load() (map[string]string, error)
	Save(map[string]string) error
}

// History records dispatched command lines.
type History interface {
	Append(command string)
	Recent(n int) []string
}

// frameInterval paces redraws; drawing happens only when state changed.
const frameInterval = 16 * time.Millisecond

// outputBurst bounds how many session chunks one loop pass consumes, so a
// chatty child cannot starve input handling.
const outputBurst = 32

// Controller owns the workspace: one hosted session rendered through the
// terminal emulator, with the action system layered on top.
type Controller struct {
	driver Driver
	reg    *action.Registry
	cmds   Commands
	store  BindingStore
	hist   History

	shell []string

	sess  *session.Session
	out   <-chan []byte
	done  <-chan session.Status
	alive bool

	vt     *term.VTerm
	parser *term.Parser
	filter markerFilter

	mode      Mode
	pal       *palette
	help      helpState
	scroll    int
	status    string
	runningID string

	pasting  bool
	pasteBuf []rune

	dirty bool
	quit  bool
}

// NewController wires the workspace. The shell argv must be non-empty;
// persisted keybindings are seeded over the compiled-in defaults here.
func NewController(driver Driver, cmds Commands, store BindingStore, hist History, shell []string) (*Controller, error) {
	if len(shell) == 0 {
		return nil, fmt.Errorf("no shell configured")
	}
	c := &Controller{
		driver: driver,
		cmds:   cmds,
		store:  store,
		hist:   hist,
		shell:  shell,
	}
	reg, err := BuildRegistry(cmds, func() bool { return c.alive })
	if err != nil {
		return nil, err
	}
	c.reg = reg
	if store != nil {
		persisted, err := store.Load()
		if err != nil {
			log.Printf("Workspace: keybindings unreadable, using defaults: %v", err)
		}
		reg.Seed(persisted)
	}
	c.filter.onExit = c.onCommandExit
	return c, nil
}

// Registry exposes the action registry, mainly for tests.
func (c *Controller) Registry() *action.Registry { return c.reg }

// Run drives the workspace until quit. The driver must be initialized.
func (c *Controller) Run() error {
	w, h := c.driver.Size()
	if h < 2 {
		return fmt.Errorf("screen too small: %dx%d", w, h)
	}
	// The bottom row belongs to the action bar.
	c.vt = term.NewVTerm(w, h-1, term.WithPtyWriter(c.writeBack))
	c.parser = term.NewParser(c.vt)

	if err := c.startSession(); err != nil {
		// Reported, not fatal: the workspace still runs so the failure
		// is visible and restart can be tried.
		c.status = err.Error()
		log.Printf("Workspace: %v", err)
	}

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := c.driver.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	c.dirty = true
	for !c.quit {
		select {
		case ev := <-events:
			c.handleEvent(ev)
			c.dirty = true
		case chunk, ok := <-c.out:
			if !ok {
				c.out = nil
				continue
			}
			c.feed(chunk)
			c.drainBurst()
			c.scroll = 0
			c.dirty = true
		case st := <-c.done:
			c.onSessionEnd(st)
			c.dirty = true
		case <-ticker.C:
			if c.dirty {
				c.driver.Render(c.buildFrame())
				c.dirty = false
			}
		}
	}

	c.persistBindings()
	if c.sess != nil {
		c.sess.Terminate()
	}
	return nil
}

// writeBack lets the emulator answer device status queries.
func (c *Controller) writeBack(data []byte) {
	if c.alive {
		c.sess.Write(data)
	}
}

func (c *Controller) startSession() error {
	s := session.New(c.shell[0], c.shell[1:]...)
	if err := s.Start(c.vt.Width(), c.vt.Height()); err != nil {
		c.alive = false
		return err
	}
	c.sess = s
	c.out = s.Output()
	c.done = s.Done()
	c.alive = true
	return nil
}

func (c *Controller) restartSession() {
	if c.alive {
		c.sess.Terminate()
		// Let the dying session's remaining output run out without
		// blocking its reader.
		go func(old <-chan []byte) {
			for range old {
			}
		}(c.out)
	}
	if err := c.startSession(); err != nil {
		c.status = err.Error()
		log.Printf("Workspace: restart: %v", err)
		return
	}
	c.status = "session restarted"
	c.runningID = ""
	c.scroll = 0
}

func (c *Controller) onSessionEnd(st session.Status) {
	c.done = nil
	c.alive = false
	c.runningID = ""
	if tail := c.filter.Flush(); len(tail) > 0 {
		c.parser.Parse(tail)
	}
	restart := "restart"
	if a := c.reg.Get("restart"); a != nil && !a.Binding.IsZero() {
		restart = a.Binding.String()
	}
	c.status = fmt.Sprintf("%s  (%s restarts)", st, restart)
	log.Printf("Workspace: %s", st)
}

func (c *Controller) feed(chunk []byte) {
	if filtered := c.filter.Filter(chunk); len(filtered) > 0 {
		c.parser.Parse(filtered)
	}
}

func (c *Controller) drainBurst() {
	for i := 0; i < outputBurst; i++ {
		select {
		case chunk, ok := <-c.out:
			if !ok {
				c.out = nil
				return
			}
			c.feed(chunk)
		default:
			return
		}
	}
}

func (c *Controller) onCommandExit(code int) {
	id := c.runningID
	c.runningID = ""
	if code == 0 {
		c.status = fmt.Sprintf("%s: ok", id)
	} else {
		c.status = fmt.Sprintf("%s: exit %d", id, code)
	}
}

func (c *Controller) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := ev.Size()
		if h < 2 {
			return
		}
		c.vt.Resize(w, h-1)
		if c.alive {
			if err := c.sess.Resize(w, h-1); err != nil {
				log.Printf("Workspace: resize: %v", err)
			}
		}
	case *tcell.EventPaste:
		if ev.Start() {
			c.pasting = true
			c.pasteBuf = c.pasteBuf[:0]
			return
		}
		c.pasting = false
		if c.mode == ModeNormal && c.alive && len(c.pasteBuf) > 0 {
			c.scroll = 0
			c.sess.WritePaste([]byte(string(c.pasteBuf)), c.vt.BracketedPaste())
		}
	case *tcell.EventKey:
		if c.pasting {
			c.bufferPasteKey(ev)
			return
		}
		switch c.mode {
		case ModeNormal:
			c.handleNormalKey(ev)
		case ModePalette:
			c.handlePaletteKey(ev)
		case ModeHelp:
			c.handleHelpKey(ev)
		}
	}
}

func (c *Controller) bufferPasteKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		c.pasteBuf = append(c.pasteBuf, ev.Rune())
	case tcell.KeyEnter:
		c.pasteBuf = append(c.pasteBuf, '\n')
	case tcell.KeyTab:
		c.pasteBuf = append(c.pasteBuf, '\t')
	}
}

func (c *Controller) handleNormalKey(ev *tcell.EventKey) {
	if a := c.reg.Match(KeybindFromEvent(ev)); a != nil {
		c.invoke(a)
		return
	}
	data := encodeKey(ev, c.vt.AppCursorKeys())
	if data == nil || !c.alive {
		return
	}
	// Typing snaps the view back to live output.
	c.scroll = 0
	if err := c.sess.Write(data); err != nil {
		log.Printf("Workspace: forward key: %v", err)
	}
}

func (c *Controller) invoke(a *action.Action) {
	switch eff := a.Effect.(type) {
	case action.RunShell:
		if cmd, ok := resolveCommand(c.cmds, a.ID, eff); ok {
			c.dispatchShell(a.ID, cmd)
		}
	case action.Internal:
		c.runInternal(eff.Op)
	case action.OpenMenu:
		switch eff.Menu {
		case action.MenuPalette:
			c.openPalette()
		case action.MenuHelp:
			c.mode = ModeHelp
			c.help = helpState{}
		}
	}
}

func (c *Controller) runInternal(op action.Op) {
	switch op {
	case action.OpQuit:
		c.quit = true
	case action.OpClear:
		// Wipe screen and scrollback, then repaint the prompt.
		c.parser.Parse([]byte("\x1b[2J\x1b[3J\x1b[H"))
		c.scroll = 0
		if c.alive {
			c.sess.Write([]byte{'\f'})
		}
	case action.OpRestart:
		c.restartSession()
	case action.OpScrollUp:
		step := c.vt.Height() / 2
		if step < 1 {
			step = 1
		}
		c.scroll += step
		if max := c.vt.History().Len(); c.scroll > max {
			c.scroll = max
		}
	case action.OpScrollDown:
		step := c.vt.Height() / 2
		if step < 1 {
			step = 1
		}
		c.scroll -= step
		if c.scroll < 0 {
			c.scroll = 0
		}
	}
}

// dispatchShell sends a command line through the session with a completion
// marker so the exit code comes back in the output stream.
func (c *Controller) dispatchShell(id, cmd string) {
	if !c.alive {
		c.status = "no running session"
		return
	}
	if c.hist != nil {
		c.hist.Append(cmd)
	}
	c.runningID = id
	c.status = "running: " + cmd
	c.scroll = 0
	line := fmt.Sprintf("%s; echo %s$?\r", cmd, markerPrefix)
	if err := c.sess.Write([]byte(line)); err != nil {
		c.status = fmt.Sprintf("dispatch failed: %v", err)
		c.runningID = ""
	}
}

func (c *Controller) openPalette() {
	var recent []string
	if c.hist != nil {
		recent = c.hist.Recent(50)
	}
	c.pal = newPalette(recent)
	c.pal.refresh(c.reg)
	c.mode = ModePalette
}

func (c *Controller) handlePaletteKey(ev *tcell.EventKey) {
	res, a, line := c.pal.handleKey(ev, c.reg)
	switch res {
	case paletteCancel:
		c.mode = ModeNormal
	case paletteRunAction:
		c.mode = ModeNormal
		c.invoke(a)
	case paletteRunLine:
		c.mode = ModeNormal
		c.dispatchShell("shell", line)
	}
}

func (c *Controller) handleHelpKey(ev *tcell.EventKey) {
	out := c.help.handleKey(ev, c.reg)
	if out.commit != nil {
		c.commitBindings(out.commit)
	}
	if out.close {
		c.mode = ModeNormal
	}
}

func (c *Controller) commitBindings(changes []action.Change) {
	if err := c.reg.Commit(changes); err != nil {
		c.status = fmt.Sprintf("rebind failed: %v", err)
		return
	}
	c.persistBindings()
}

// persistBindings saves overrides; failure is a warning, the in-memory
// bindings stay authoritative.
func (c *Controller) persistBindings() {
	if c.store == nil {
		return
	}
	if err := c.store.Save(c.reg.Bindings()); err != nil {
		c.status = fmt.Sprintf("warning: keybindings not saved: %v", err)
		log.Printf("Workspace: save keybindings: %v", err)
	}
}

func (c *Controller) buildFrame() *Frame {
	f := &Frame{
		Rows:   c.vt.Viewport(c.scroll),
		Status: c.status,
	}
	x, y := c.vt.Cursor()
	f.Cursor = CursorState{
		X:       x,
		Y:       y,
		Visible: c.vt.CursorVisible() && c.scroll == 0 && c.mode == ModeNormal,
	}
	for _, a := range c.reg.Actions() {
		if !a.IsEnabled() {
			continue
		}
		f.Bar = append(f.Bar, BarEntry{
			ID:     a.ID,
			Label:  a.Label,
			Key:    a.Binding.String(),
			Active: a.ID == c.runningID,
		})
	}
	if c.scroll > 0 {
		f.Status = fmt.Sprintf("[scrollback +%d]  %s", c.scroll, c.status)
	}
	switch c.mode {
	case ModePalette:
		f.Overlay = c.pal.overlay(c.cmds)
	case ModeHelp:
		f.Overlay = c.help.overlay(c.reg, c.cmds)
	}
	return f
}
