// Package diagram contains the document model shared by the editor and the
// session client: elements, connections, and the Document that owns them.
package diagram

// ElementType identifies the shape of an element.
type ElementType string

const (
	ElementRectangle ElementType = "rectangle"
	ElementCircle    ElementType = "circle"
	ElementDiamond   ElementType = "diamond"
	ElementHexagon   ElementType = "hexagon"
	ElementGeneric   ElementType = "generic"
)

// ConnectionType identifies how a connection is drawn.
type ConnectionType string

const (
	ConnectionArrow  ConnectionType = "arrow"
	ConnectionLine   ConnectionType = "line"
	ConnectionDotted ConnectionType = "dotted"
)

// Point is a 2D canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is the extent of an element's box.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Element represents a shape node placed on the canvas.
type Element struct {
	ID         string            `json:"id"`
	Type       ElementType       `json:"type"`
	Position   Point             `json:"position"`
	Size       Size              `json:"size"`
	Label      string            `json:"label"`
	Properties map[string]string `json:"properties,omitempty"`
}

// Center returns the center point of the element's box.
func (e Element) Center() Point {
	return Point{
		X: e.Position.X + e.Size.Width/2,
		Y: e.Position.Y + e.Size.Height/2,
	}
}

// Contains checks if a point is inside the element's box.
func (e Element) Contains(p Point) bool {
	return p.X >= e.Position.X && p.X < e.Position.X+e.Size.Width &&
		p.Y >= e.Position.Y && p.Y < e.Position.Y+e.Size.Height
}

// Clone creates a deep copy of the element.
func (e Element) Clone() Element {
	clone := e
	if e.Properties != nil {
		clone.Properties = make(map[string]string, len(e.Properties))
		for k, v := range e.Properties {
			clone.Properties[k] = v
		}
	}
	return clone
}

// Connection represents a directed labeled link between two elements.
type Connection struct {
	ID     string         `json:"id"`
	Source string         `json:"source"`
	Target string         `json:"target"`
	Label  string         `json:"label"`
	Type   ConnectionType `json:"connectionType"`
}

// ElementUpdate carries a partial set of element fields. Nil fields are left
// unchanged by the merge; Properties entries are merged key by key.
type ElementUpdate struct {
	Type       *ElementType      `json:"type,omitempty"`
	Position   *Point            `json:"position,omitempty"`
	Size       *Size             `json:"size,omitempty"`
	Label      *string           `json:"label,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// ConnectionUpdate carries a partial set of connection fields.
type ConnectionUpdate struct {
	Source *string         `json:"source,omitempty"`
	Target *string         `json:"target,omitempty"`
	Label  *string         `json:"label,omitempty"`
	Type   *ConnectionType `json:"connectionType,omitempty"`
}
