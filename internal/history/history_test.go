package history

import (
	"reflect"
	"testing"

	"github.com/inamate/whiteboard/internal/shape"
)

type notes struct {
	calls            int
	canUndo, canRedo bool
}

func (n *notes) record(u, r bool) {
	n.calls++
	n.canUndo, n.canRedo = u, r
}

func TestUndoRedoRestoreExactScenes(t *testing.T) {
	var n notes
	m := New(DefaultLimit, n.record)
	m.Reset(nil)

	st := shape.DefaultStyle()
	var scene []shape.Shape
	var snaps [][]shape.Shape
	for i := 0; i < 5; i++ {
		scene = append(scene, st.NewRectangle(float64(i), 0, 10, 10))
		m.Commit(scene)
		snaps = append(snaps, shape.CloneScene(scene))
	}

	got, ok := m.Undo()
	if !ok || !reflect.DeepEqual(got, snaps[3]) {
		t.Fatalf("undo = %v, %v; want snapshot 3", got, ok)
	}
	if !n.canUndo || !n.canRedo {
		t.Fatalf("after undo canUndo=%v canRedo=%v", n.canUndo, n.canRedo)
	}

	got, ok = m.Redo()
	if !ok || !reflect.DeepEqual(got, snaps[4]) {
		t.Fatalf("redo = %v, %v; want snapshot 4", got, ok)
	}
	if n.canRedo {
		t.Fatal("canRedo after redo to the end")
	}
}

func TestSnapshotsAreIndependent(t *testing.T) {
	m := New(DefaultLimit, nil)
	st := shape.DefaultStyle()
	r := st.NewRectangle(0, 0, 10, 10)
	scene := []shape.Shape{r}
	m.Reset(scene)
	m.Commit(scene)

	r.X = 500
	got, _ := m.Undo()
	if got[0].(*shape.Rectangle).X != 0 {
		t.Fatal("mutating the live scene changed a stored snapshot")
	}
	got[0].(*shape.Rectangle).X = 42
	again, _ := m.Redo()
	if again[0].(*shape.Rectangle).X != 0 {
		t.Fatal("mutating a returned scene changed a stored snapshot")
	}
}

func TestBoundaryNoOps(t *testing.T) {
	var n notes
	m := New(DefaultLimit, n.record)
	m.Reset(nil)
	calls := n.calls

	if _, ok := m.Undo(); ok {
		t.Fatal("undo at start succeeded")
	}
	if _, ok := m.Redo(); ok {
		t.Fatal("redo at end succeeded")
	}
	if n.calls != calls || n.canUndo || n.canRedo {
		t.Fatalf("boundary no-ops notified: calls %d -> %d", calls, n.calls)
	}
}

func TestLimitEvictsOldest(t *testing.T) {
	m := New(DefaultLimit, nil)
	st := shape.DefaultStyle()
	var scene []shape.Shape
	for i := 0; i < 60; i++ {
		scene = append(scene, st.NewLine(0, 0, float64(i), 0))
		m.Commit(scene)
	}
	if m.Len() != DefaultLimit {
		t.Fatalf("len = %d, want %d", m.Len(), DefaultLimit)
	}

	undos := 0
	var last []shape.Shape
	for {
		s, ok := m.Undo()
		if !ok {
			break
		}
		last = s
		undos++
	}
	if undos != DefaultLimit-1 {
		t.Fatalf("undos = %d, want %d", undos, DefaultLimit-1)
	}
	// The oldest retrievable state is the one from commit 11.
	if len(last) != 11 {
		t.Fatalf("oldest state has %d shapes, want 11", len(last))
	}
}

func TestCommitDropsRedoTail(t *testing.T) {
	m := New(DefaultLimit, nil)
	st := shape.DefaultStyle()
	m.Reset(nil)
	m.Commit([]shape.Shape{st.NewRectangle(0, 0, 1, 1)})
	m.Commit([]shape.Shape{st.NewRectangle(0, 0, 2, 2)})
	m.Undo()
	m.Commit([]shape.Shape{st.NewEllipse(0, 0, 1, 1)})

	if m.CanRedo() {
		t.Fatal("redo available after a new commit")
	}
	if m.Len() != 3 {
		t.Fatalf("len = %d, want 3", m.Len())
	}
}

func TestResetMakesHistoryIrreversible(t *testing.T) {
	var n notes
	m := New(DefaultLimit, n.record)
	st := shape.DefaultStyle()
	m.Reset(nil)
	m.Commit([]shape.Shape{st.NewRectangle(0, 0, 1, 1)})

	m.Reset(nil)
	if n.canUndo || n.canRedo {
		t.Fatalf("after reset canUndo=%v canRedo=%v", n.canUndo, n.canRedo)
	}
	if _, ok := m.Undo(); ok {
		t.Fatal("undo crossed a reset")
	}
}
