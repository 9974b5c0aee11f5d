package editor

import (
	"fmt"

	sysclip "github.com/atotto/clipboard"

	"mural/diagram"
)

// Key identifies a keyboard input the editor reacts to.
type Key int

const (
	KeyDelete Key = iota
	KeyBackspace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

// KeyEvent is a keyboard input.
type KeyEvent struct {
	Key Key
	Mod Modifiers
}

// KeyDown dispatches a key press against the current selection.
func (e *Editor) KeyDown(ev KeyEvent) {
	switch ev.Key {
	case KeyDelete, KeyBackspace:
		e.DeleteSelection()
	case KeyLeft:
		e.nudge(-1, 0, ev.Mod)
	case KeyRight:
		e.nudge(1, 0, ev.Mod)
	case KeyUp:
		e.nudge(0, -1, ev.Mod)
	case KeyDown:
		e.nudge(0, 1, ev.Mod)
	}
}

// DeleteSelection removes every selected element; connected edges cascade.
func (e *Editor) DeleteSelection() {
	ids := e.selectedInOrder()
	if len(ids) == 0 {
		return
	}
	for _, id := range ids {
		e.history.RecordBeforeMutation(e.doc)
		e.doc.RemoveElement(id)
	}
	e.setSelection(nil)
	e.refresh()
}

// nudge moves the selection by a small step, or a large one with shift.
// History is captured once per keypress.
func (e *Editor) nudge(dx, dy float64, mod Modifiers) {
	ids := e.selectedInOrder()
	if len(ids) == 0 {
		return
	}
	step := NudgeStep
	if mod.Shift {
		step = NudgeStepLarge
	}
	e.history.RecordBeforeMutation(e.doc)
	for _, id := range ids {
		el, ok := e.doc.Element(id)
		if !ok {
			continue
		}
		pos := diagram.Point{X: el.Position.X + dx*step, Y: el.Position.Y + dy*step}
		e.doc.UpdateElement(id, diagram.ElementUpdate{Position: &pos})
	}
	e.refresh()
	e.broadcastPositions(ids)
}

// Copy places deep copies of the selected elements on the editor clipboard.
func (e *Editor) Copy() {
	ids := e.selectedInOrder()
	e.clipboard = e.clipboard[:0]
	for _, id := range ids {
		if el, ok := e.doc.Element(id); ok {
			e.clipboard = append(e.clipboard, el.Clone())
		}
	}
}

// Cut copies the selection and then deletes it.
func (e *Editor) Cut() {
	e.Copy()
	e.DeleteSelection()
}

// Paste inserts clipboard elements with fresh ids, offset by a fixed delta.
// History is captured once per paste.
func (e *Editor) Paste() {
	if len(e.clipboard) == 0 {
		return
	}
	e.history.RecordBeforeMutation(e.doc)
	pasted := make([]string, 0, len(e.clipboard))
	for _, el := range e.clipboard {
		clone := el.Clone()
		clone.ID = diagram.NewID()
		clone.Position.X += PasteOffset
		clone.Position.Y += PasteOffset
		added, err := e.doc.AddElement(clone)
		if err != nil {
			continue
		}
		pasted = append(pasted, added.ID)
		if e.broadcaster != nil {
			e.broadcaster.ElementUpdated(added.ID, updateFromElement(*added))
		}
	}
	e.setSelection(pasted)
	e.refresh()
}

// CopyCodeToClipboard writes the generated diagram text to the system
// clipboard.
func (e *Editor) CopyCodeToClipboard() {
	if err := sysclip.WriteAll(e.code); err != nil {
		e.notify(NoticeError, fmt.Sprintf("clipboard write failed: %v", err))
		return
	}
	e.notify(NoticeInfo, "code copied to clipboard")
}

func (e *Editor) broadcastPositions(ids []string) {
	if e.broadcaster == nil {
		return
	}
	for _, id := range ids {
		el, ok := e.doc.Element(id)
		if !ok {
			continue
		}
		pos := el.Position
		e.broadcaster.ElementUpdated(id, diagram.ElementUpdate{Position: &pos})
	}
}
