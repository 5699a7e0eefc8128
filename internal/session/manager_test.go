package session

import (
	"testing"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	m, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestManagerStopIdempotent(t *testing.T) {
	m := newTestManager(t)
	m.Stop()
	// The quit action stops the manager and the deferred shutdown stops
	// it again; the second call must be a no-op.
	m.Stop()
}

func TestManagerFileStateRoundTrip(t *testing.T) {
	m := newTestManager(t)
	defer m.Stop()

	state := FileState{
		CursorLine:     3,
		CursorCol:      7,
		ScrollY:        1,
		Mode:           "insert",
		CollapsedLines: []int{2, 9},
	}
	m.SetFileState("/tmp/a.go", state)

	got, ok := m.GetFileState("/tmp/a.go")
	if !ok {
		t.Fatalf("GetFileState missing")
	}
	if got.CursorLine != 3 || got.CursorCol != 7 || got.Mode != "insert" {
		t.Fatalf("state = %+v, want %+v", got, state)
	}
	if len(got.CollapsedLines) != 2 || got.CollapsedLines[0] != 2 {
		t.Fatalf("collapsed = %v, want [2 9]", got.CollapsedLines)
	}
	if m.GetActiveFile() != "/tmp/a.go" {
		t.Fatalf("active file = %q, want %q", m.GetActiveFile(), "/tmp/a.go")
	}
}

func TestManagerPersistsAcrossReload(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	m, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	m.SetFileState("/tmp/b.go", FileState{CursorLine: 5})
	m.Stop()

	m2, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager reload: %v", err)
	}
	defer m2.Stop()
	got, ok := m2.GetFileState("/tmp/b.go")
	if !ok || got.CursorLine != 5 {
		t.Fatalf("reloaded state = %+v ok=%v, want CursorLine 5", got, ok)
	}
}
