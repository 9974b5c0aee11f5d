// Package export generates textual diagram representations from a document.
// Generators are pure: the same document content always yields byte-identical
// output, keyed only by element insertion order.
package export

import (
	"fmt"

	"mural/diagram"
)

// Format represents a generated text format.
type Format string

const (
	// FormatMermaid generates Mermaid flowchart syntax (the canonical format).
	FormatMermaid Format = "mermaid"
	// FormatD2 generates D2 syntax.
	FormatD2 Format = "d2"
)

// Exporter converts a document to a textual diagram representation.
type Exporter interface {
	// Export generates text for the document. An empty document produces an
	// empty diagram header, not an error.
	Export(doc *diagram.Document) (string, error)
	// FileExtension returns the recommended file extension for this format.
	FileExtension() string
	// FormatName returns a human-readable name for this format.
	FormatName() string
}

// NewExporter creates an exporter for the specified format.
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatMermaid:
		return NewMermaidExporter(), nil
	case FormatD2:
		return NewD2Exporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "mermaid", "mmd":
		return FormatMermaid, nil
	case "d2":
		return FormatD2, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// AvailableFormats returns all generator formats.
func AvailableFormats() []Format {
	return []Format{FormatMermaid, FormatD2}
}
