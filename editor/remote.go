package editor

import "mural/diagram"

// Remote-merge entry points, called by the session client for inbound relay
// messages. These bypass history entirely: the replaying guard is not
// involved because no RecordBeforeMutation call is made.

// ApplyRemoteElementUpdate merges a remote element update. If the element is
// unknown and the update carries a complete field set, it is inserted, so a
// peer's newly created element converges without waiting for a state sync.
// Position and size are skipped for an element currently being dragged
// locally, so the in-flight gesture is not clobbered.
func (e *Editor) ApplyRemoteElementUpdate(id string, u diagram.ElementUpdate) {
	if e.dragging && e.IsSelected(id) {
		u.Position = nil
		u.Size = nil
	}
	if !e.doc.UpdateElement(id, u) {
		if u.Type == nil || u.Position == nil || u.Size == nil {
			return // partial update for an unknown element, drop it
		}
		el := diagram.Element{
			ID:         id,
			Type:       *u.Type,
			Position:   *u.Position,
			Size:       *u.Size,
			Properties: u.Properties,
		}
		if u.Label != nil {
			el.Label = *u.Label
		}
		if _, err := e.doc.AddElement(el); err != nil {
			return
		}
	}
	e.refresh()
}

// ApplyRemoteConnectionUpdate merges a remote connection update, inserting
// the connection when it is unknown and the update is complete.
func (e *Editor) ApplyRemoteConnectionUpdate(id string, u diagram.ConnectionUpdate) {
	if !e.doc.UpdateConnection(id, u) {
		if u.Source == nil || u.Target == nil {
			return
		}
		conn := diagram.Connection{
			ID:     id,
			Source: *u.Source,
			Target: *u.Target,
			Type:   diagram.ConnectionArrow,
		}
		if u.Label != nil {
			conn.Label = *u.Label
		}
		if u.Type != nil {
			conn.Type = *u.Type
		}
		if !e.doc.InsertConnection(conn) {
			return
		}
	}
	e.refresh()
}

// ReplaceDocument swaps in a full remote state. Selection entries that no
// longer resolve are pruned; history is left untouched.
func (e *Editor) ReplaceDocument(elements []diagram.Element, connections []diagram.Connection) {
	e.doc.Restore(diagram.FromEntities(elements, connections))
	e.pruneSelection()
	e.refresh()
}
