// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: session/session_test.go
// Summary: Session lifecycle: spawn failure, EOF semantics, idempotent kill.

package session

import (
	"strings"
	"testing"
	"time"
)

// drain collects all output until the channel closes or the deadline hits.
func drain(t *testing.T, s *Session) string {
	t.Helper()
	var sb strings.Builder
	timeout := time.After(5 * time.Second)
	for {
		select {
		case chunk, ok := <-s.Output():
			if !ok {
				return sb.String()
			}
			sb.Write(chunk)
		case <-timeout:
			t.Fatal("timed out draining session output")
		}
	}
}

func waitDone(t *testing.T, s *Session) Status {
	t.Helper()
	select {
	case st := <-s.Done():
		return st
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for session end")
	}
	return Status{}
}

func TestSpawnFailureLeavesSessionUnstarted(t *testing.T) {
	s := New("/nonexistent/worktop-no-such-binary")
	if err := s.Start(80, 24); err == nil {
		t.Fatal("Start succeeded for a nonexistent binary")
	}
	// The failed spawn leaves no pty behind.
	if err := s.Write([]byte("x")); err == nil {
		t.Error("Write succeeded on an unstarted session")
	}
}

func TestOutputThenCleanExit(t *testing.T) {
	s := New("sh", "-c", "echo hello-from-child")
	if err := s.Start(80, 24); err != nil {
		t.Fatalf("Start: %v", err)
	}
	out := drain(t, s)
	if !strings.Contains(out, "hello-from-child") {
		t.Errorf("output = %q, want it to contain the echo", out)
	}
	st := waitDone(t, s)
	if st.ExitCode != 0 || st.Err != nil {
		t.Errorf("status = %+v, want clean exit", st)
	}
}

func TestExitCodePropagated(t *testing.T) {
	s := New("sh", "-c", "exit 3")
	if err := s.Start(80, 24); err != nil {
		t.Fatalf("Start: %v", err)
	}
	drain(t, s)
	st := waitDone(t, s)
	if st.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", st.ExitCode)
	}
}

func TestTerminateIsIdempotent(t *testing.T) {
	s := New("cat") // blocks on stdin until killed
	if err := s.Start(80, 24); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Terminate()
	s.Terminate() // second call must be a no-op, not a panic or error
	drain(t, s)
	waitDone(t, s)
	s.Terminate() // and after the child is gone
}

func TestOutputClosedAfterEnd(t *testing.T) {
	s := New("sh", "-c", "true")
	if err := s.Start(80, 24); err != nil {
		t.Fatalf("Start: %v", err)
	}
	drain(t, s)
	waitDone(t, s)
	// Polling a finished session yields EOF immediately, never a hang.
	select {
	case _, ok := <-s.Output():
		if ok {
			t.Error("output channel produced data after close")
		}
	case <-time.After(time.Second):
		t.Error("read from ended session blocked")
	}
}

func TestWriteReachesChild(t *testing.T) {
	s := New("cat")
	if err := s.Start(80, 24); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Terminate()
	if err := s.Write([]byte("ping\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	deadline := time.After(5 * time.Second)
	var got strings.Builder
	for !strings.Contains(got.String(), "ping") {
		select {
		case chunk, ok := <-s.Output():
			if !ok {
				t.Fatalf("session ended early, read %q", got.String())
			}
			got.Write(chunk)
		case <-deadline:
			t.Fatalf("echo never arrived, read %q", got.String())
		}
	}
}

func TestWritePasteFraming(t *testing.T) {
	s := New("cat")
	if err := s.Start(80, 24); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Terminate()
	if err := s.WritePaste([]byte("pasted"), true); err != nil {
		t.Fatalf("WritePaste: %v", err)
	}
	// The tty echoes ESC in caret notation, so match on the marker bodies
	// rather than the raw escape bytes.
	deadline := time.After(5 * time.Second)
	var got strings.Builder
	for !strings.Contains(got.String(), "201~") {
		select {
		case chunk, ok := <-s.Output():
			if !ok {
				t.Fatalf("session ended early, read %q", got.String())
			}
			got.Write(chunk)
		case <-deadline:
			t.Fatalf("framed paste never echoed, read %q", got.String())
		}
	}
	out := got.String()
	if !strings.Contains(out, "200~pasted") {
		t.Errorf("echo = %q, want the payload inside bracketed framing", out)
	}
}

func TestResizeRunningSession(t *testing.T) {
	s := New("cat")
	if err := s.Start(80, 24); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Terminate()
	if err := s.Resize(120, 40); err != nil {
		t.Fatalf("Resize: %v", err)
	}
}
