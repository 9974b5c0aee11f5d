package editor

import (
	"time"

	"mural/diagram"
)

// Snapshot is a deep copy of the document taken before a mutation.
type Snapshot struct {
	doc       *diagram.Document
	Timestamp time.Time
}

// History manages bounded undo/redo stacks of document snapshots. The
// replaying guard suppresses capture while a snapshot is being restored, so
// restores never record themselves.
type History struct {
	undo      []Snapshot
	redo      []Snapshot
	limit     int
	replaying bool
	onChange  func(canUndo, canRedo bool)
}

// NewHistory creates a history manager. A non-positive limit defaults to 50
// snapshots per stack.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = 50
	}
	return &History{limit: limit}
}

// SetChangeHandler registers a callback fired whenever undo/redo
// availability may have changed, for enabling and disabling affordances.
func (h *History) SetChangeHandler(fn func(canUndo, canRedo bool)) {
	h.onChange = fn
}

// RecordBeforeMutation pushes a deep snapshot of the current document onto
// the undo stack and invalidates all redo history. Must be called as the
// first step of every mutating action. No-op while replaying.
func (h *History) RecordBeforeMutation(doc *diagram.Document) {
	if h.replaying {
		return
	}
	h.undo = pushBounded(h.undo, snapshotOf(doc), h.limit)
	h.redo = nil
	h.fireChange()
}

// CanUndo reports whether an undo is available.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo is available.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Replaying reports whether a snapshot restore is in progress.
func (h *History) Replaying() bool { return h.replaying }

// Depths returns the current undo and redo stack depths.
func (h *History) Depths() (undo, redo int) {
	return len(h.undo), len(h.redo)
}

// Undo restores the most recent snapshot into doc, saving the current state
// for redo. Returns false if there is nothing to undo.
func (h *History) Undo(doc *diagram.Document) bool {
	if len(h.undo) == 0 {
		return false
	}
	h.redo = pushBounded(h.redo, snapshotOf(doc), h.limit)
	snap := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.restore(doc, snap)
	h.fireChange()
	return true
}

// Redo restores the most recently undone state into doc, saving the current
// state for undo. Returns false if there is nothing to redo.
func (h *History) Redo(doc *diagram.Document) bool {
	if len(h.redo) == 0 {
		return false
	}
	h.undo = pushBounded(h.undo, snapshotOf(doc), h.limit)
	snap := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.restore(doc, snap)
	h.fireChange()
	return true
}

// restore replaces doc's contents with the snapshot under the replaying
// guard. The snapshot has already left its stack, so the document may take
// ownership of it.
func (h *History) restore(doc *diagram.Document, snap Snapshot) {
	h.replaying = true
	doc.Restore(snap.doc)
	h.replaying = false
}

func (h *History) fireChange() {
	if h.onChange != nil {
		h.onChange(h.CanUndo(), h.CanRedo())
	}
}

func snapshotOf(doc *diagram.Document) Snapshot {
	return Snapshot{doc: doc.Clone(), Timestamp: time.Now()}
}

func pushBounded(stack []Snapshot, snap Snapshot, limit int) []Snapshot {
	stack = append(stack, snap)
	if len(stack) > limit {
		stack = stack[1:]
	}
	return stack
}
