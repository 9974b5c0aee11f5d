package export

import (
	"strings"
	"testing"

	"mural/diagram"
)

func buildDocument(t *testing.T) *diagram.Document {
	t.Helper()
	doc := diagram.NewDocument()
	for _, spec := range []struct {
		id    string
		typ   diagram.ElementType
		label string
	}{
		{"start", diagram.ElementRectangle, "Start"},
		{"check", diagram.ElementDiamond, "Valid?"},
		{"done", diagram.ElementCircle, "Done"},
	} {
		_, err := doc.AddElement(diagram.Element{
			ID:    spec.id,
			Type:  spec.typ,
			Size:  diagram.Size{Width: 100, Height: 50},
			Label: spec.label,
		})
		if err != nil {
			t.Fatalf("add element: %v", err)
		}
	}
	doc.AddConnection("start", "check", "input", diagram.ConnectionArrow)
	doc.AddConnection("check", "done", "", diagram.ConnectionDotted)
	return doc
}

func TestMermaidExport(t *testing.T) {
	doc := buildDocument(t)
	out, err := NewMermaidExporter().Export(doc)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	for _, want := range []string{
		"graph TD",
		"N0[Start]",
		"N1{Valid?}",
		"N2((Done))",
		"N0 -->|input| N1",
		"N1 -.-> N2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMermaidExportIsDeterministic(t *testing.T) {
	doc := buildDocument(t)
	e := NewMermaidExporter()

	first, err := e.Export(doc)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	second, err := e.Export(doc)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if first != second {
		t.Error("two exports of an unchanged document differ")
	}

	// A deep copy with identical content generates identical text.
	cloned, err := e.Export(doc.Clone())
	if err != nil {
		t.Fatalf("export clone: %v", err)
	}
	if cloned != first {
		t.Error("clone generated different text")
	}
}

func TestMermaidExportEmptyDocument(t *testing.T) {
	out, err := NewMermaidExporter().Export(diagram.NewDocument())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if out != "graph TD\n" {
		t.Errorf("unexpected empty-document output: %q", out)
	}
}

func TestMermaidExportEscapesLabels(t *testing.T) {
	doc := diagram.NewDocument()
	doc.AddElement(diagram.Element{
		ID:    "a",
		Type:  diagram.ElementRectangle,
		Size:  diagram.Size{Width: 10, Height: 10},
		Label: "a|b[c]",
	})
	out, err := NewMermaidExporter().Export(doc)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, `a\|b\[c\]`) {
		t.Errorf("label not escaped:\n%s", out)
	}
}

func TestMermaidExportSkipsDanglingConnections(t *testing.T) {
	doc := buildDocument(t)
	doc.RemoveConnection(doc.Connections()[0].ID)
	out, err := NewMermaidExporter().Export(doc)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if strings.Contains(out, "|input|") {
		t.Error("removed connection still generated")
	}
}

func TestD2Export(t *testing.T) {
	doc := buildDocument(t)
	out, err := NewD2Exporter().Export(doc)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, want := range []string{
		"node_0: Start",
		"node_1: Valid?",
		"node_1.shape: diamond",
		"node_2.shape: circle",
		"node_0 -> node_1: input",
		"node_1 -> node_2",
		"style.stroke-dash: 3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("mmd"); err != nil || f != FormatMermaid {
		t.Errorf("ParseFormat(mmd) = %v, %v", f, err)
	}
	if f, err := ParseFormat("d2"); err != nil || f != FormatD2 {
		t.Errorf("ParseFormat(d2) = %v, %v", f, err)
	}
	if _, err := ParseFormat("svg"); err == nil {
		t.Error("unknown format accepted")
	}
}
