// Package editor implements the interaction state machine for the canvas:
// tool modes, pointer and keyboard gestures, selection, bounded undo/redo,
// and the refresh pipeline that regenerates diagram code after every
// mutation.
package editor

import (
	"fmt"
	"sort"

	"mural/diagram"
	"mural/export"
	"mural/geometry"
)

// Defaults for newly placed elements and keyboard gestures.
const (
	DefaultElementWidth  = 120.0
	DefaultElementHeight = 60.0
	PasteOffset          = 16.0
	NudgeStep            = 4.0
	NudgeStepLarge       = 32.0
)

// NoticeLevel classifies a user-visible notice.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarn
	NoticeError
)

// Notice is a non-fatal message surfaced to the user.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Broadcaster receives local mutations for fan-out to other sessions. A nil
// broadcaster leaves the editor fully functional offline.
type Broadcaster interface {
	ElementUpdated(id string, u diagram.ElementUpdate)
	ConnectionUpdated(id string, u diagram.ConnectionUpdate)
	SelectionChanged(ids []string)
}

// AnchorPair holds the border anchor points of a connection's endpoints.
type AnchorPair struct {
	Source geometry.Point
	Target geometry.Point
}

// Editor owns one document and interprets input events against the active
// tool. All methods run on the caller's single event loop; the editor has no
// internal locking.
type Editor struct {
	doc     *diagram.Document
	history *History
	gen     export.Exporter

	validator   diagram.Validator
	persister   diagram.Persister
	broadcaster Broadcaster
	onNotice    func(Notice)
	onChange    func()

	code      string
	selection map[string]struct{}
	viewport  Viewport
	anchors   map[string]AnchorPair

	tool      Tool
	shapeType diagram.ElementType
	connType  diagram.ConnectionType

	connectSource string // pending first node; "" means awaiting first
	previewAt     diagram.Point

	dragging     bool
	dragCaptured bool
	dragLast     diagram.Point

	panning bool
	panLast diagram.Point

	marqueeActive bool
	marqueeStart  diagram.Point
	marqueeEnd    diagram.Point

	clipboard []diagram.Element
}

// New creates an editor with an empty document and the Mermaid generator.
func New() *Editor {
	return &Editor{
		doc:       diagram.NewDocument(),
		history:   NewHistory(50),
		gen:       export.NewMermaidExporter(),
		selection: make(map[string]struct{}),
		viewport:  NewViewport(),
		anchors:   make(map[string]AnchorPair),
		tool:      ToolSelect,
		shapeType: diagram.ElementRectangle,
		connType:  diagram.ConnectionArrow,
	}
}

// Document returns the editor's document.
func (e *Editor) Document() *diagram.Document { return e.doc }

// History returns the editor's history manager.
func (e *Editor) History() *History { return e.history }

// Code returns the most recently generated diagram text.
func (e *Editor) Code() string { return e.code }

// Viewport returns the current view transform.
func (e *Editor) Viewport() Viewport { return e.viewport }

// ZoomBy adjusts the viewport zoom. Not undoable.
func (e *Editor) ZoomBy(factor float64) {
	e.viewport.ZoomBy(factor)
	e.fireChange()
}

// SetGenerator replaces the code generator and regenerates.
func (e *Editor) SetGenerator(gen export.Exporter) {
	e.gen = gen
	e.refresh()
}

// SetValidator registers the external validation collaborator.
func (e *Editor) SetValidator(v diagram.Validator) { e.validator = v }

// SetPersister registers the external persistence collaborator.
func (e *Editor) SetPersister(p diagram.Persister) { e.persister = p }

// SetBroadcaster registers the outbound mutation sink.
func (e *Editor) SetBroadcaster(b Broadcaster) { e.broadcaster = b }

// SetNoticeHandler registers the user-notice sink.
func (e *Editor) SetNoticeHandler(fn func(Notice)) { e.onNotice = fn }

// SetChangeHandler registers the view-refresh callback, fired after any
// state change a view would need to repaint for.
func (e *Editor) SetChangeHandler(fn func()) { e.onChange = fn }

// Tool returns the active tool.
func (e *Editor) Tool() Tool { return e.tool }

// ConnectPhase returns the connection tool's sub-state.
func (e *Editor) ConnectPhase() ConnectPhase {
	if e.connectSource == "" {
		return AwaitingFirstNode
	}
	return AwaitingSecondNode
}

// SetTool switches to a plain tool, cancelling any in-flight gesture.
func (e *Editor) SetTool(t Tool) {
	e.cancelGestures()
	e.tool = t
	e.fireChange()
}

// SetShapeTool activates shape placement for the given element type.
func (e *Editor) SetShapeTool(t diagram.ElementType) {
	e.cancelGestures()
	e.tool = ToolShape
	e.shapeType = t
	e.fireChange()
}

// SetConnectionTool activates connection creation for the given type.
func (e *Editor) SetConnectionTool(t diagram.ConnectionType) {
	e.cancelGestures()
	e.tool = ToolConnection
	e.connType = t
	e.fireChange()
}

func (e *Editor) cancelGestures() {
	e.connectSource = ""
	e.dragging = false
	e.dragCaptured = false
	e.panning = false
	e.marqueeActive = false
}

// Selection returns the selected element ids, sorted for determinism.
func (e *Editor) Selection() []string {
	ids := make([]string, 0, len(e.selection))
	for id := range e.selection {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsSelected reports whether the element is selected.
func (e *Editor) IsSelected(id string) bool {
	_, ok := e.selection[id]
	return ok
}

func (e *Editor) setSelection(ids []string) {
	e.selection = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		e.selection[id] = struct{}{}
	}
	if e.broadcaster != nil {
		e.broadcaster.SelectionChanged(e.Selection())
	}
	e.fireChange()
}

// selectedInOrder returns the selected ids in document insertion order, so
// multi-element operations behave deterministically.
func (e *Editor) selectedInOrder() []string {
	var ids []string
	for _, el := range e.doc.Elements() {
		if e.IsSelected(el.ID) {
			ids = append(ids, el.ID)
		}
	}
	return ids
}

// pruneSelection drops selected ids that no longer exist in the document.
func (e *Editor) pruneSelection() {
	for id := range e.selection {
		if _, ok := e.doc.Element(id); !ok {
			delete(e.selection, id)
		}
	}
}

// ConnectionAnchors returns the last computed border anchors per connection.
func (e *Editor) ConnectionAnchors() map[string]AnchorPair {
	return e.anchors
}

// Undo restores the document to its state before the last mutation.
func (e *Editor) Undo() {
	if !e.history.Undo(e.doc) {
		e.notify(NoticeInfo, "nothing to undo")
		return
	}
	e.pruneSelection()
	e.refresh()
}

// Redo reverses the last undo.
func (e *Editor) Redo() {
	if !e.history.Redo(e.doc) {
		e.notify(NoticeInfo, "nothing to redo")
		return
	}
	e.pruneSelection()
	e.refresh()
}

// UpdateElement applies a user edit to an element: merged fields, one undo
// step, broadcast to peers. No-op with a notice if the element is gone.
func (e *Editor) UpdateElement(id string, u diagram.ElementUpdate) {
	if _, ok := e.doc.Element(id); !ok {
		e.notify(NoticeWarn, "element no longer exists")
		return
	}
	e.history.RecordBeforeMutation(e.doc)
	e.doc.UpdateElement(id, u)
	e.refresh()
	if e.broadcaster != nil {
		e.broadcaster.ElementUpdated(id, u)
	}
}

// UpdateConnection applies a user edit to a connection's label or type.
func (e *Editor) UpdateConnection(id string, u diagram.ConnectionUpdate) {
	if _, ok := e.doc.Connection(id); !ok {
		e.notify(NoticeWarn, "connection no longer exists")
		return
	}
	e.history.RecordBeforeMutation(e.doc)
	e.doc.UpdateConnection(id, u)
	e.refresh()
	if e.broadcaster != nil {
		e.broadcaster.ConnectionUpdated(id, u)
	}
}

// Persist hands the current document and generated code to the persistence
// collaborator. Fire-and-forget: failures surface as a notice only.
func (e *Editor) Persist() {
	if e.persister == nil {
		return
	}
	if err := e.persister.Persist(e.doc, e.code); err != nil {
		e.notify(NoticeError, fmt.Sprintf("save failed: %v", err))
	}
}

// refresh recomputes connection anchors, regenerates code, runs validation,
// and fires the change callback. Called after every document mutation,
// local or remote.
func (e *Editor) refresh() {
	e.refreshAnchors()

	code, err := e.gen.Export(e.doc)
	if err != nil {
		e.notify(NoticeError, fmt.Sprintf("code generation failed: %v", err))
	} else {
		e.code = code
		if e.validator != nil {
			res := e.validator.Validate(code)
			for _, msg := range res.Errors {
				e.notify(NoticeWarn, msg)
			}
		}
	}
	e.fireChange()
}

// refreshAnchors recomputes border anchors for every connection.
func (e *Editor) refreshAnchors() {
	e.anchors = make(map[string]AnchorPair, e.doc.ConnectionCount())
	for _, conn := range e.doc.Connections() {
		src, ok := e.doc.Element(conn.Source)
		if !ok {
			continue
		}
		dst, ok := e.doc.Element(conn.Target)
		if !ok {
			continue
		}
		a, b := geometry.AnchorPair(elementRect(*src), elementRect(*dst))
		e.anchors[conn.ID] = AnchorPair{Source: a, Target: b}
	}
}

func (e *Editor) fireChange() {
	if e.onChange != nil {
		e.onChange()
	}
}

func (e *Editor) notify(level NoticeLevel, msg string) {
	if e.onNotice != nil {
		e.onNotice(Notice{Level: level, Message: msg})
	}
}

func elementRect(el diagram.Element) geometry.Rect {
	return geometry.Rect{
		X:      el.Position.X,
		Y:      el.Position.Y,
		Width:  el.Size.Width,
		Height: el.Size.Height,
	}
}

// updateFromElement builds a full-field update, used to broadcast newly
// created entities over the per-entity update channel.
func updateFromElement(el diagram.Element) diagram.ElementUpdate {
	t, pos, size, label := el.Type, el.Position, el.Size, el.Label
	return diagram.ElementUpdate{
		Type:       &t,
		Position:   &pos,
		Size:       &size,
		Label:      &label,
		Properties: el.Properties,
	}
}

func updateFromConnection(conn diagram.Connection) diagram.ConnectionUpdate {
	src, dst, label, t := conn.Source, conn.Target, conn.Label, conn.Type
	return diagram.ConnectionUpdate{
		Source: &src,
		Target: &dst,
		Label:  &label,
		Type:   &t,
	}
}
