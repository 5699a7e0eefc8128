package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileState is the persisted per-file state: where the cursor was and
// which fold regions were collapsed.
type FileState struct {
	CursorLine     int    `json:"cursor_line"`
	CursorCol      int    `json:"cursor_col"`
	ScrollY        int    `json:"scroll_y"`
	Mode           string `json:"mode"` // "normal", "insert"
	CollapsedLines []int  `json:"collapsed_lines,omitempty"`
}

// Snapshot is the complete persisted session state.
type Snapshot struct {
	Files      map[string]FileState `json:"files"`
	ActiveFile string               `json:"active_file,omitempty"`
	LastSaved  time.Time            `json:"last_saved"`
}

// Manager handles session persistence.
type Manager struct {
	mu       sync.RWMutex
	snapshot Snapshot
	path     string
	dirty    bool
	stopChan chan struct{}
}

// NewManager loads any existing session file and starts the autosave
// loop.
func NewManager() (*Manager, error) {
	path, err := statePath()
	if err != nil {
		return nil, err
	}

	m := &Manager{
		snapshot: Snapshot{
			Files: make(map[string]FileState),
		},
		path:     path,
		stopChan: make(chan struct{}),
	}

	m.load()
	go m.autosaveLoop()

	return m, nil
}

func statePath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	dir := filepath.Join(stateDir, "vedit")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

func (m *Manager) load() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return // No existing session, start fresh
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return
	}
	if snap.Files == nil {
		snap.Files = make(map[string]FileState)
	}
	m.snapshot = snap
}

// Save persists the session to disk if anything changed.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty {
		return nil
	}

	m.snapshot.LastSaved = time.Now()
	data, err := json.MarshalIndent(m.snapshot, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return err
	}

	m.dirty = false
	return nil
}

// ForceSave saves even if not dirty.
func (m *Manager) ForceSave() error {
	m.mu.Lock()
	m.dirty = true
	m.mu.Unlock()
	return m.Save()
}

// GetFileState returns the saved state for a file.
func (m *Manager) GetFileState(absPath string) (FileState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.snapshot.Files[absPath]
	return state, ok
}

// SetFileState updates the state for a file.
func (m *Manager) SetFileState(absPath string, state FileState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot.Files[absPath] = state
	m.snapshot.ActiveFile = absPath
	m.dirty = true
}

// GetActiveFile returns the last active file.
func (m *Manager) GetActiveFile() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot.ActiveFile
}

func (m *Manager) autosaveLoop() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = m.Save()
		case <-m.stopChan:
			return
		}
	}
}

// Stop stops the autosave loop and saves final state. Safe to call
// more than once.
func (m *Manager) Stop() {
	select {
	case <-m.stopChan:
		return
	default:
		close(m.stopChan)
	}
	_ = m.ForceSave()
}
