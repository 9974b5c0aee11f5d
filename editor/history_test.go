package editor

import (
	"fmt"
	"testing"

	"mural/diagram"
)

func addTestElement(t *testing.T, doc *diagram.Document, id, label string) {
	t.Helper()
	_, err := doc.AddElement(diagram.Element{
		ID:       id,
		Type:     diagram.ElementRectangle,
		Position: diagram.Point{X: 10, Y: 10},
		Size:     diagram.Size{Width: 100, Height: 50},
		Label:    label,
	})
	if err != nil {
		t.Fatalf("add element: %v", err)
	}
}

func TestUndoRestoresPreActionState(t *testing.T) {
	doc := diagram.NewDocument()
	h := NewHistory(50)

	addTestElement(t, doc, "a", "A")
	before := doc.Clone()

	h.RecordBeforeMutation(doc)
	addTestElement(t, doc, "b", "B")
	after := doc.Clone()

	if !h.Undo(doc) {
		t.Fatal("undo reported nothing to undo")
	}
	if !doc.Equal(before) {
		t.Error("undo did not restore the pre-action state")
	}

	if !h.Redo(doc) {
		t.Fatal("redo reported nothing to redo")
	}
	if !doc.Equal(after) {
		t.Error("redo did not restore the post-action state")
	}
}

func TestUndoEmptyStackIsNoOp(t *testing.T) {
	doc := diagram.NewDocument()
	addTestElement(t, doc, "a", "A")
	h := NewHistory(50)

	if h.Undo(doc) {
		t.Error("undo succeeded with empty stack")
	}
	if doc.ElementCount() != 1 {
		t.Error("failed undo mutated the document")
	}
}

func TestStacksNeverExceedLimit(t *testing.T) {
	doc := diagram.NewDocument()
	h := NewHistory(50)

	for i := 0; i < 120; i++ {
		h.RecordBeforeMutation(doc)
		addTestElement(t, doc, fmt.Sprintf("el-%d", i), "X")
	}
	undoDepth, _ := h.Depths()
	if undoDepth != 50 {
		t.Errorf("undo stack depth = %d, want 50", undoDepth)
	}

	for h.CanUndo() {
		h.Undo(doc)
	}
	_, redoDepth := h.Depths()
	if redoDepth > 50 {
		t.Errorf("redo stack depth = %d, want <= 50", redoDepth)
	}
}

func TestNewActionClearsRedo(t *testing.T) {
	doc := diagram.NewDocument()
	h := NewHistory(50)

	h.RecordBeforeMutation(doc)
	addTestElement(t, doc, "a", "A")
	h.Undo(doc)
	if !h.CanRedo() {
		t.Fatal("expected redo available after undo")
	}

	h.RecordBeforeMutation(doc)
	addTestElement(t, doc, "b", "B")
	if h.CanRedo() {
		t.Error("redo stack not cleared by a new action")
	}
}

func TestReplayingGuardSuppressesCapture(t *testing.T) {
	doc := diagram.NewDocument()
	h := NewHistory(50)

	h.RecordBeforeMutation(doc)
	addTestElement(t, doc, "a", "A")

	// A restore must not capture new snapshots even if mutation hooks fire
	// during it.
	h.replaying = true
	h.RecordBeforeMutation(doc)
	h.replaying = false

	undoDepth, _ := h.Depths()
	if undoDepth != 1 {
		t.Errorf("capture during replay leaked a snapshot: depth %d", undoDepth)
	}
}

func TestChangeHandlerReflectsAffordances(t *testing.T) {
	doc := diagram.NewDocument()
	h := NewHistory(50)

	var lastUndo, lastRedo bool
	h.SetChangeHandler(func(canUndo, canRedo bool) {
		lastUndo, lastRedo = canUndo, canRedo
	})

	h.RecordBeforeMutation(doc)
	addTestElement(t, doc, "a", "A")
	if !lastUndo || lastRedo {
		t.Errorf("after record: undo=%v redo=%v, want true/false", lastUndo, lastRedo)
	}

	h.Undo(doc)
	if lastUndo || !lastRedo {
		t.Errorf("after undo: undo=%v redo=%v, want false/true", lastUndo, lastRedo)
	}
}
