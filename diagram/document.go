package diagram

import "fmt"

// DuplicateIDError reports an attempt to add an element whose id already
// exists in the document.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("element id %q already exists", e.ID)
}

// InvalidSizeError reports an attempt to give an element a non-positive
// width or height.
type InvalidSizeError struct {
	Size Size
}

func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("element size %gx%g is not positive", e.Size.Width, e.Size.Height)
}

// Document is the in-memory diagram state: insertion-ordered maps of elements
// and connections. It is exclusively owned by one editor session; all methods
// are synchronous and touch nothing beyond the document's own maps. History
// capture and code generation are the caller's responsibility, so that
// remote-merge mutations never pollute undo history.
type Document struct {
	elementOrder    []string
	elements        map[string]*Element
	connectionOrder []string
	connections     map[string]*Connection
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{
		elements:    make(map[string]*Element),
		connections: make(map[string]*Connection),
	}
}

// AddElement inserts an element. Returns a DuplicateIDError if the id
// collides and an InvalidSizeError if either extent is not positive; callers
// must pre-generate a unique id (see NewID).
func (d *Document) AddElement(el Element) (*Element, error) {
	if el.ID == "" {
		return nil, fmt.Errorf("element id must not be empty")
	}
	if _, ok := d.elements[el.ID]; ok {
		return nil, &DuplicateIDError{ID: el.ID}
	}
	if el.Size.Width <= 0 || el.Size.Height <= 0 {
		return nil, &InvalidSizeError{Size: el.Size}
	}
	stored := el.Clone()
	d.elements[el.ID] = &stored
	d.elementOrder = append(d.elementOrder, el.ID)
	return &stored, nil
}

// RemoveElement removes the element and, as a cascade, every connection whose
// source or target references it. No-op if the id is absent.
func (d *Document) RemoveElement(id string) {
	if _, ok := d.elements[id]; !ok {
		return
	}
	delete(d.elements, id)
	d.elementOrder = removeID(d.elementOrder, id)

	for _, connID := range append([]string(nil), d.connectionOrder...) {
		conn := d.connections[connID]
		if conn.Source == id || conn.Target == id {
			delete(d.connections, connID)
			d.connectionOrder = removeID(d.connectionOrder, connID)
		}
	}
}

// AddConnection creates a connection between two existing elements. Returns
// nil without mutating if either endpoint is missing or a connection with the
// same ordered (source,target) pair already exists. A nil result is a
// non-fatal "already exists / missing endpoint" notice, not an error.
func (d *Document) AddConnection(sourceID, targetID, label string, connType ConnectionType) *Connection {
	if _, ok := d.elements[sourceID]; !ok {
		return nil
	}
	if _, ok := d.elements[targetID]; !ok {
		return nil
	}
	for _, id := range d.connectionOrder {
		conn := d.connections[id]
		if conn.Source == sourceID && conn.Target == targetID {
			return nil
		}
	}
	conn := &Connection{
		ID:     NewID(),
		Source: sourceID,
		Target: targetID,
		Label:  label,
		Type:   connType,
	}
	d.connections[conn.ID] = conn
	d.connectionOrder = append(d.connectionOrder, conn.ID)
	return conn
}

// InsertConnection inserts a fully specified connection, keeping its id.
// Used by the remote-merge path, where the peer already assigned the id.
// Returns false without mutating if the id is taken, an endpoint is missing,
// or the ordered (source,target) pair already exists.
func (d *Document) InsertConnection(conn Connection) bool {
	if conn.ID == "" {
		return false
	}
	if _, ok := d.connections[conn.ID]; ok {
		return false
	}
	if _, ok := d.elements[conn.Source]; !ok {
		return false
	}
	if _, ok := d.elements[conn.Target]; !ok {
		return false
	}
	for _, id := range d.connectionOrder {
		existing := d.connections[id]
		if existing.Source == conn.Source && existing.Target == conn.Target {
			return false
		}
	}
	c := conn
	d.connections[c.ID] = &c
	d.connectionOrder = append(d.connectionOrder, c.ID)
	return true
}

// RemoveConnection removes the connection if present; no-op otherwise.
func (d *Document) RemoveConnection(id string) {
	if _, ok := d.connections[id]; !ok {
		return
	}
	delete(d.connections, id)
	d.connectionOrder = removeID(d.connectionOrder, id)
}

// UpdateElement shallow-merges the non-nil fields of the update into the
// element. Returns false (no-op) if the element is absent. A size with a
// non-positive extent is ignored; the remaining fields still merge.
func (d *Document) UpdateElement(id string, u ElementUpdate) bool {
	el, ok := d.elements[id]
	if !ok {
		return false
	}
	if u.Type != nil {
		el.Type = *u.Type
	}
	if u.Position != nil {
		el.Position = *u.Position
	}
	if u.Size != nil && u.Size.Width > 0 && u.Size.Height > 0 {
		el.Size = *u.Size
	}
	if u.Label != nil {
		el.Label = *u.Label
	}
	if len(u.Properties) > 0 {
		if el.Properties == nil {
			el.Properties = make(map[string]string, len(u.Properties))
		}
		for k, v := range u.Properties {
			el.Properties[k] = v
		}
	}
	return true
}

// UpdateConnection shallow-merges the non-nil fields of the update into the
// connection. Returns false (no-op) if the connection is absent.
func (d *Document) UpdateConnection(id string, u ConnectionUpdate) bool {
	conn, ok := d.connections[id]
	if !ok {
		return false
	}
	if u.Source != nil {
		conn.Source = *u.Source
	}
	if u.Target != nil {
		conn.Target = *u.Target
	}
	if u.Label != nil {
		conn.Label = *u.Label
	}
	if u.Type != nil {
		conn.Type = *u.Type
	}
	return true
}

// Element returns the element with the given id.
func (d *Document) Element(id string) (*Element, bool) {
	el, ok := d.elements[id]
	return el, ok
}

// Connection returns the connection with the given id.
func (d *Document) Connection(id string) (*Connection, bool) {
	conn, ok := d.connections[id]
	return conn, ok
}

// Elements returns the elements in insertion order.
func (d *Document) Elements() []*Element {
	out := make([]*Element, 0, len(d.elementOrder))
	for _, id := range d.elementOrder {
		out = append(out, d.elements[id])
	}
	return out
}

// Connections returns the connections in insertion order.
func (d *Document) Connections() []*Connection {
	out := make([]*Connection, 0, len(d.connectionOrder))
	for _, id := range d.connectionOrder {
		out = append(out, d.connections[id])
	}
	return out
}

// ConnectionsTouching returns, in insertion order, every connection whose
// source or target is the given element.
func (d *Document) ConnectionsTouching(elementID string) []*Connection {
	var out []*Connection
	for _, id := range d.connectionOrder {
		conn := d.connections[id]
		if conn.Source == elementID || conn.Target == elementID {
			out = append(out, conn)
		}
	}
	return out
}

// ElementCount returns the number of elements.
func (d *Document) ElementCount() int { return len(d.elements) }

// ConnectionCount returns the number of connections.
func (d *Document) ConnectionCount() int { return len(d.connections) }

// Clone creates a deep copy of the document.
func (d *Document) Clone() *Document {
	clone := &Document{
		elementOrder:    append([]string(nil), d.elementOrder...),
		elements:        make(map[string]*Element, len(d.elements)),
		connectionOrder: append([]string(nil), d.connectionOrder...),
		connections:     make(map[string]*Connection, len(d.connections)),
	}
	for id, el := range d.elements {
		c := el.Clone()
		clone.elements[id] = &c
	}
	for id, conn := range d.connections {
		c := *conn
		clone.connections[id] = &c
	}
	return clone
}

// Restore replaces the document's contents with those of other, taking
// ownership of other's maps. The caller must not use other afterwards.
func (d *Document) Restore(other *Document) {
	d.elementOrder = other.elementOrder
	d.elements = other.elements
	d.connectionOrder = other.connectionOrder
	d.connections = other.connections
}

// Equal reports whether two documents have identical content, including
// element insertion order.
func (d *Document) Equal(other *Document) bool {
	if len(d.elementOrder) != len(other.elementOrder) ||
		len(d.connectionOrder) != len(other.connectionOrder) {
		return false
	}
	for i, id := range d.elementOrder {
		if other.elementOrder[i] != id {
			return false
		}
		a, b := d.elements[id], other.elements[id]
		if b == nil || !elementsEqual(*a, *b) {
			return false
		}
	}
	for i, id := range d.connectionOrder {
		if other.connectionOrder[i] != id {
			return false
		}
		a, b := d.connections[id], other.connections[id]
		if b == nil || *a != *b {
			return false
		}
	}
	return true
}

func elementsEqual(a, b Element) bool {
	if a.ID != b.ID || a.Type != b.Type || a.Position != b.Position ||
		a.Size != b.Size || a.Label != b.Label || len(a.Properties) != len(b.Properties) {
		return false
	}
	for k, v := range a.Properties {
		if b.Properties[k] != v {
			return false
		}
	}
	return true
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
