package export

import (
	"fmt"
	"strings"

	"mural/diagram"
)

// D2Exporter generates D2 syntax.
type D2Exporter struct{}

// NewD2Exporter creates a new D2 exporter.
func NewD2Exporter() *D2Exporter {
	return &D2Exporter{}
}

// Export converts the document to D2 syntax.
func (e *D2Exporter) Export(doc *diagram.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}

	var sb strings.Builder

	nodeIDs := make(map[string]string)
	for i, el := range doc.Elements() {
		nodeID := fmt.Sprintf("node_%d", i)
		nodeIDs[el.ID] = nodeID

		label := e.escapeLabel(el.Label)
		if label == "" {
			label = nodeID
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", nodeID, label))
		if shape := e.shapeAttribute(el.Type); shape != "" {
			sb.WriteString(fmt.Sprintf("%s.shape: %s\n", nodeID, shape))
		}
	}

	conns := doc.Connections()
	if len(conns) > 0 {
		sb.WriteString("\n")
	}
	for i, conn := range conns {
		fromID, ok := nodeIDs[conn.Source]
		if !ok {
			continue
		}
		toID, ok := nodeIDs[conn.Target]
		if !ok {
			continue
		}
		arrow := "->"
		if conn.Type == diagram.ConnectionLine {
			arrow = "--"
		}
		if conn.Label != "" {
			sb.WriteString(fmt.Sprintf("%s %s %s: %s\n", fromID, arrow, toID, e.escapeLabel(conn.Label)))
		} else {
			sb.WriteString(fmt.Sprintf("%s %s %s\n", fromID, arrow, toID))
		}
		if conn.Type == diagram.ConnectionDotted {
			sb.WriteString(fmt.Sprintf("(%s %s %s)[%d].style.stroke-dash: 3\n", fromID, arrow, toID, i))
		}
	}

	return sb.String(), nil
}

// shapeAttribute maps an element type to a D2 shape name. Rectangles are
// D2's default and need no attribute.
func (e *D2Exporter) shapeAttribute(t diagram.ElementType) string {
	switch t {
	case diagram.ElementCircle:
		return "circle"
	case diagram.ElementDiamond:
		return "diamond"
	case diagram.ElementHexagon:
		return "hexagon"
	case diagram.ElementGeneric:
		return "oval"
	default:
		return ""
	}
}

// escapeLabel strips characters that would break D2 statements.
func (e *D2Exporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, "\n", " ")
	label = strings.ReplaceAll(label, ":", ";")
	label = strings.ReplaceAll(label, "{", "(")
	label = strings.ReplaceAll(label, "}", ")")
	return label
}

// FileExtension returns the recommended file extension.
func (e *D2Exporter) FileExtension() string {
	return ".d2"
}

// FormatName returns the format name.
func (e *D2Exporter) FormatName() string {
	return "D2"
}
