package export

import (
	"fmt"
	"strings"

	"mural/diagram"
)

// MermaidExporter generates Mermaid flowchart syntax.
type MermaidExporter struct{}

// NewMermaidExporter creates a new Mermaid exporter.
func NewMermaidExporter() *MermaidExporter {
	return &MermaidExporter{}
}

// Export converts the document to Mermaid syntax. Node identifiers are
// assigned by element insertion order, so identical content yields identical
// text.
func (e *MermaidExporter) Export(doc *diagram.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	nodeIDs := make(map[string]string)
	for i, el := range doc.Elements() {
		nodeID := fmt.Sprintf("N%d", i)
		nodeIDs[el.ID] = nodeID
		label := e.escapeLabel(el.Label)
		if label == "" {
			label = nodeID
		}
		sb.WriteString(fmt.Sprintf("    %s%s\n", nodeID, e.formatShape(el.Type, label)))
	}

	conns := doc.Connections()
	if len(conns) > 0 {
		sb.WriteString("\n")
	}
	for _, conn := range conns {
		fromID, ok := nodeIDs[conn.Source]
		if !ok {
			continue
		}
		toID, ok := nodeIDs[conn.Target]
		if !ok {
			continue
		}
		edge := e.edgeSyntax(conn.Type)
		if conn.Label != "" {
			sb.WriteString(fmt.Sprintf("    %s %s|%s| %s\n", fromID, edge, e.escapeLabel(conn.Label), toID))
		} else {
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", fromID, edge, toID))
		}
	}

	return sb.String(), nil
}

// formatShape wraps a label in the Mermaid bracket form for the element type.
func (e *MermaidExporter) formatShape(t diagram.ElementType, label string) string {
	switch t {
	case diagram.ElementCircle:
		return fmt.Sprintf("((%s))", label)
	case diagram.ElementDiamond:
		return fmt.Sprintf("{%s}", label)
	case diagram.ElementHexagon:
		return fmt.Sprintf("{{%s}}", label)
	case diagram.ElementGeneric:
		return fmt.Sprintf("(%s)", label)
	default:
		return fmt.Sprintf("[%s]", label)
	}
}

// edgeSyntax maps a connection type to its Mermaid edge operator.
func (e *MermaidExporter) edgeSyntax(t diagram.ConnectionType) string {
	switch t {
	case diagram.ConnectionLine:
		return "---"
	case diagram.ConnectionDotted:
		return "-.->"
	default:
		return "-->"
	}
}

// escapeLabel escapes characters that collide with Mermaid syntax.
func (e *MermaidExporter) escapeLabel(label string) string {
	r := strings.NewReplacer(
		`"`, `\"`,
		`|`, `\|`,
		`[`, `\[`,
		`]`, `\]`,
		`{`, `\{`,
		`}`, `\}`,
		`(`, `\(`,
		`)`, `\)`,
	)
	return r.Replace(label)
}

// FileExtension returns the recommended file extension.
func (e *MermaidExporter) FileExtension() string {
	return ".mmd"
}

// FormatName returns the format name.
func (e *MermaidExporter) FormatName() string {
	return "Mermaid"
}
