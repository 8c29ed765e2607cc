// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: session/session.go
// Summary: Hosts a child shell on a pty and exposes its I/O to the controller.
// Usage: New → Start → consume Output/Done; Terminate at any time.
// Notes: All channel sends happen on the reader goroutine; Terminate is safe
// from any goroutine and idempotent.

package session

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// outputBuffer bounds the number of undelivered read chunks. A slow consumer
// backpressures the pty rather than growing memory.
const outputBuffer = 64

// Status is the final state of an ended session, delivered exactly once.
type Status struct {
	// ExitCode is the child's exit code, or -1 when it was killed or the
	// exit status could not be determined.
	ExitCode int
	// Err carries the wait or pty failure, nil on a clean exit.
	Err error
}

func (s Status) String() string {
	if s.Err != nil {
		return fmt.Sprintf("session ended: %v", s.Err)
	}
	return fmt.Sprintf("session ended with exit code %d", s.ExitCode)
}

// Session owns one pty and one child process.
type Session struct {
	command string
	args    []string
	env     []string

	mu      sync.Mutex
	cmd     *exec.Cmd
	ptmx    *os.File
	started bool

	output chan []byte
	done   chan Status

	terminateOnce sync.Once
}

// New prepares a session for the given command. Nothing is spawned until
// Start.
func New(command string, args ...string) *Session {
	return &Session{
		command: command,
		args:    args,
		env:     append(os.Environ(), "TERM=xterm-256color"),
		output:  make(chan []byte, outputBuffer),
		done:    make(chan Status, 1),
	}
}

// Start spawns the child at the given size. A failure leaves the session
// unstarted; the returned error wraps the spawn cause.
func (s *Session) Start(cols, rows int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("session already started")
	}

	cmd := exec.Command(s.command, s.args...)
	cmd.Env = s.env

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Cols: uint16(cols),
		Rows: uint16(rows),
	})
	if err != nil {
		return fmt.Errorf("spawn %s: %w", s.command, err)
	}

	s.cmd = cmd
	s.ptmx = ptmx
	s.started = true
	go s.readLoop(cmd, ptmx)
	return nil
}

// readLoop pumps pty output to the channel until the child ends, then
// closes the channel and publishes the final status.
func (s *Session) readLoop(cmd *exec.Cmd, ptmx *os.File) {
	buf := make([]byte, 4096)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.output <- chunk
		}
		if err != nil {
			// EIO is the normal Linux way to report a closed slave side.
			break
		}
	}
	close(s.output)

	status := Status{ExitCode: 0}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			status.ExitCode = exitErr.ExitCode()
		} else {
			status.ExitCode = -1
			status.Err = err
		}
	}
	ptmx.Close()
	s.done <- status
}

// Output delivers raw pty chunks. The channel closes after the child ends
// and all buffered output has been drained; receives never hang.
func (s *Session) Output() <-chan []byte { return s.output }

// Done delivers the final status exactly once.
func (s *Session) Done() <-chan Status { return s.done }

// Write forwards raw bytes to the child unconditionally.
func (s *Session) Write(p []byte) error {
	s.mu.Lock()
	ptmx := s.ptmx
	s.mu.Unlock()
	if ptmx == nil {
		return errors.New("session not started")
	}
	_, err := ptmx.Write(p)
	if err != nil {
		return fmt.Errorf("write to pty: %w", err)
	}
	return nil
}

// WritePaste forwards pasted text, framed with bracketed-paste markers when
// the child has the mode enabled.
func (s *Session) WritePaste(p []byte, bracketed bool) error {
	if !bracketed {
		return s.Write(p)
	}
	framed := make([]byte, 0, len(p)+12)
	framed = append(framed, "\x1b[200~"...)
	framed = append(framed, p...)
	framed = append(framed, "\x1b[201~"...)
	return s.Write(framed)
}

// Resize propagates a new terminal size to the pty.
func (s *Session) Resize(cols, rows int) error {
	s.mu.Lock()
	ptmx := s.ptmx
	s.mu.Unlock()
	if ptmx == nil {
		return errors.New("session not started")
	}
	if err := pty.Setsize(ptmx, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)}); err != nil {
		return fmt.Errorf("resize pty: %w", err)
	}
	return nil
}

// Terminate kills the child. Calling it again, or after the child already
// exited, is a no-op.
func (s *Session) Terminate() {
	s.terminateOnce.Do(func() {
		s.mu.Lock()
		cmd, ptmx := s.cmd, s.ptmx
		s.mu.Unlock()
		if cmd != nil && cmd.Process != nil {
			cmd.Process.Kill()
		}
		if ptmx != nil {
			ptmx.Close()
		}
	})
}
