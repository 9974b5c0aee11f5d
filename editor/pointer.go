package editor

import (
	"fmt"

	"mural/diagram"
	"mural/geometry"
)

// PointerButton identifies which button produced a pointer event.
type PointerButton int

const (
	ButtonLeft PointerButton = iota
	ButtonMiddle
	ButtonRight
)

// Modifiers are the keyboard modifiers held during an input event.
type Modifiers struct {
	Shift bool
	Alt   bool
}

// PointerEvent is a pointer input in canvas coordinates.
type PointerEvent struct {
	Position diagram.Point
	Button   PointerButton
	Mod      Modifiers
}

// PointerDown dispatches a press against the active tool.
func (e *Editor) PointerDown(ev PointerEvent) {
	// Middle-button or alt-click pans in any tool.
	if ev.Button == ButtonMiddle || ev.Mod.Alt {
		e.beginPan(ev.Position)
		return
	}

	switch e.tool {
	case ToolPan:
		e.beginPan(ev.Position)
	case ToolSelect:
		e.pointerDownSelect(ev)
	case ToolShape:
		if e.hitTest(ev.Position) == nil {
			e.createElementAt(ev.Position)
		}
	case ToolConnection:
		e.pointerDownConnect(ev)
	}
}

// PointerMove advances whichever gesture is in flight.
func (e *Editor) PointerMove(ev PointerEvent) {
	switch {
	case e.panning:
		e.viewport.PanBy(ev.Position.X-e.panLast.X, ev.Position.Y-e.panLast.Y)
		e.panLast = ev.Position
		e.fireChange()
	case e.dragging:
		e.dragMove(ev.Position)
	case e.marqueeActive:
		e.marqueeEnd = ev.Position
		e.fireChange()
	case e.tool == ToolConnection && e.connectSource != "":
		e.previewAt = ev.Position
		e.fireChange()
	}
}

// PointerUp completes the in-flight gesture.
func (e *Editor) PointerUp(ev PointerEvent) {
	switch {
	case e.panning:
		e.panning = false
	case e.marqueeActive:
		e.finishMarquee(ev.Position)
	case e.dragging:
		e.finishDrag()
	}
}

func (e *Editor) beginPan(at diagram.Point) {
	e.panning = true
	e.panLast = at
}

func (e *Editor) pointerDownSelect(ev PointerEvent) {
	hit := e.hitTest(ev.Position)
	if hit == nil {
		e.setSelection(nil)
		if ev.Mod.Shift {
			e.marqueeActive = true
			e.marqueeStart = ev.Position
			e.marqueeEnd = ev.Position
		}
		return
	}
	// Clicking an already-selected element keeps the selection so a marquee
	// group can be dragged together.
	if !e.IsSelected(hit.ID) {
		e.setSelection([]string{hit.ID})
	}
	e.dragging = true
	e.dragCaptured = false
	e.dragLast = ev.Position
}

// dragMove translates the selection by the pointer delta. History is
// captured once, on the first frame that actually moves.
func (e *Editor) dragMove(to diagram.Point) {
	dx := to.X - e.dragLast.X
	dy := to.Y - e.dragLast.Y
	if dx == 0 && dy == 0 {
		return
	}
	if !e.dragCaptured {
		e.history.RecordBeforeMutation(e.doc)
		e.dragCaptured = true
	}
	for _, id := range e.selectedInOrder() {
		el, ok := e.doc.Element(id)
		if !ok {
			continue // stale drag target
		}
		pos := diagram.Point{X: el.Position.X + dx, Y: el.Position.Y + dy}
		e.doc.UpdateElement(id, diagram.ElementUpdate{Position: &pos})
	}
	e.dragLast = to
	// Anchors track every frame; code regeneration waits for drag end.
	e.refreshAnchors()
	e.fireChange()
}

// finishDrag recomputes anchors for connections touching the moved elements,
// regenerates code, and broadcasts the final positions.
func (e *Editor) finishDrag() {
	e.dragging = false
	if !e.dragCaptured {
		return
	}
	e.dragCaptured = false
	e.refresh()
	for _, id := range e.selectedInOrder() {
		el, ok := e.doc.Element(id)
		if !ok {
			continue
		}
		if e.broadcaster != nil {
			pos := el.Position
			e.broadcaster.ElementUpdated(id, diagram.ElementUpdate{Position: &pos})
		}
	}
}

// finishMarquee selects every element fully contained in the drag rectangle.
func (e *Editor) finishMarquee(at diagram.Point) {
	e.marqueeActive = false
	box := geometry.Normalized(
		geometry.Point{X: e.marqueeStart.X, Y: e.marqueeStart.Y},
		geometry.Point{X: at.X, Y: at.Y},
	)
	var ids []string
	for _, el := range e.doc.Elements() {
		if box.ContainsRect(elementRect(*el)) {
			ids = append(ids, el.ID)
		}
	}
	e.setSelection(ids)
}

func (e *Editor) pointerDownConnect(ev PointerEvent) {
	hit := e.hitTest(ev.Position)
	if hit == nil {
		// Empty-canvas click cancels the pending connection.
		if e.connectSource != "" {
			e.connectSource = ""
			e.fireChange()
		}
		return
	}
	if e.connectSource == "" {
		e.connectSource = hit.ID
		e.previewAt = ev.Position
		e.fireChange()
		return
	}
	if hit.ID == e.connectSource {
		return
	}
	e.completeConnection(hit.ID)
}

func (e *Editor) completeConnection(targetID string) {
	e.history.RecordBeforeMutation(e.doc)
	conn := e.doc.AddConnection(e.connectSource, targetID, "", e.connType)
	e.connectSource = ""
	if conn == nil {
		e.notify(NoticeWarn, "connection already exists")
		e.fireChange()
		return
	}
	e.notify(NoticeInfo, "connection created")
	e.refresh()
	if e.broadcaster != nil {
		e.broadcaster.ConnectionUpdated(conn.ID, updateFromConnection(*conn))
	}
}

// createElementAt places a new element of the active shape type centered
// under the pointer.
func (e *Editor) createElementAt(at diagram.Point) {
	e.history.RecordBeforeMutation(e.doc)
	el := diagram.Element{
		ID:   diagram.NewID(),
		Type: e.shapeType,
		Position: diagram.Point{
			X: at.X - DefaultElementWidth/2,
			Y: at.Y - DefaultElementHeight/2,
		},
		Size:  diagram.Size{Width: DefaultElementWidth, Height: DefaultElementHeight},
		Label: placeholderLabel(e.shapeType),
	}
	added, err := e.doc.AddElement(el)
	if err != nil {
		e.notify(NoticeError, fmt.Sprintf("could not add element: %v", err))
		return
	}
	e.setSelection([]string{added.ID})
	e.refresh()
	if e.broadcaster != nil {
		e.broadcaster.ElementUpdated(added.ID, updateFromElement(*added))
	}
}

// hitTest returns the topmost element under the point, or nil. Later
// insertions are treated as topmost.
func (e *Editor) hitTest(p diagram.Point) *diagram.Element {
	elements := e.doc.Elements()
	for i := len(elements) - 1; i >= 0; i-- {
		if elements[i].Contains(p) {
			return elements[i]
		}
	}
	return nil
}

func placeholderLabel(t diagram.ElementType) string {
	switch t {
	case diagram.ElementCircle:
		return "Circle"
	case diagram.ElementDiamond:
		return "Decision"
	case diagram.ElementHexagon:
		return "Hexagon"
	case diagram.ElementGeneric:
		return "Node"
	default:
		return "Rectangle"
	}
}
