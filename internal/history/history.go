// Package history keeps a bounded undo/redo log of whole-scene snapshots.
package history

import "github.com/inamate/whiteboard/internal/shape"

// DefaultLimit is the number of snapshots kept before the oldest is dropped.
const DefaultLimit = 50

// Manager is a linear snapshot log with a cursor. Every entry is a deep
// copy owned by the manager; callers never see the stored slices.
type Manager struct {
	entries  [][]shape.Shape
	step     int
	limit    int
	onChange func(canUndo, canRedo bool)
}

// New returns an empty manager. onChange may be nil.
func New(limit int, onChange func(canUndo, canRedo bool)) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{step: -1, limit: limit, onChange: onChange}
}

// Reset replaces the log with a single entry holding scene.
func (m *Manager) Reset(scene []shape.Shape) {
	m.entries = [][]shape.Shape{shape.CloneScene(scene)}
	m.step = 0
	m.notify()
}

// Commit drops any redo tail and appends a snapshot of scene.
func (m *Manager) Commit(scene []shape.Shape) {
	m.entries = append(m.entries[:m.step+1], shape.CloneScene(scene))
	m.step++

	if len(m.entries) > m.limit {
		m.entries[0] = nil
		m.entries = m.entries[1:]
		m.step--
	}
	m.notify()
}

// Undo steps back and returns a copy of the earlier scene.
func (m *Manager) Undo() ([]shape.Shape, bool) {
	if !m.CanUndo() {
		return nil, false
	}
	m.step--
	m.notify()
	return shape.CloneScene(m.entries[m.step]), true
}

// Redo steps forward and returns a copy of the later scene.
func (m *Manager) Redo() ([]shape.Shape, bool) {
	if !m.CanRedo() {
		return nil, false
	}
	m.step++
	m.notify()
	return shape.CloneScene(m.entries[m.step]), true
}

func (m *Manager) CanUndo() bool { return m.step > 0 }
func (m *Manager) CanRedo() bool { return m.step < len(m.entries)-1 }

// Len returns the number of stored snapshots.
func (m *Manager) Len() int { return len(m.entries) }

// Step returns the cursor position.
func (m *Manager) Step() int { return m.step }

func (m *Manager) notify() {
	if m.onChange != nil {
		m.onChange(m.CanUndo(), m.CanRedo())
	}
}
