package diagram

import (
	"encoding/json"
	"errors"
	"testing"
)

func testElement(id, label string) Element {
	return Element{
		ID:       id,
		Type:     ElementRectangle,
		Position: Point{X: 100, Y: 100},
		Size:     Size{Width: 120, Height: 60},
		Label:    label,
	}
}

func TestAddElementRejectsDuplicateID(t *testing.T) {
	doc := NewDocument()
	if _, err := doc.AddElement(testElement("a", "First")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := doc.AddElement(testElement("a", "Second"))
	var dup *DuplicateIDError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateIDError, got %v", err)
	}
	if doc.ElementCount() != 1 {
		t.Errorf("duplicate add mutated the document: %d elements", doc.ElementCount())
	}
}

func TestAddElementRejectsNonPositiveSize(t *testing.T) {
	doc := NewDocument()
	for _, size := range []Size{
		{Width: 0, Height: 0},
		{Width: -5, Height: 60},
		{Width: 120, Height: 0},
	} {
		el := testElement("a", "A")
		el.Size = size
		_, err := doc.AddElement(el)
		var invalid *InvalidSizeError
		if !errors.As(err, &invalid) {
			t.Errorf("size %+v: expected InvalidSizeError, got %v", size, err)
		}
	}
	if doc.ElementCount() != 0 {
		t.Errorf("invalid-size adds mutated the document: %d elements", doc.ElementCount())
	}
}

func TestUpdateElementIgnoresNonPositiveSize(t *testing.T) {
	doc := NewDocument()
	doc.AddElement(testElement("a", "A"))

	label := "renamed"
	bad := Size{Width: -5, Height: -5}
	if !doc.UpdateElement("a", ElementUpdate{Label: &label, Size: &bad}) {
		t.Fatal("update reported element absent")
	}

	el, _ := doc.Element("a")
	if el.Size.Width != 120 || el.Size.Height != 60 {
		t.Errorf("non-positive size was stored: %+v", el.Size)
	}
	if el.Label != "renamed" {
		t.Error("valid fields of the update were not merged")
	}
}

func TestRemoveElementCascadesConnections(t *testing.T) {
	doc := NewDocument()
	doc.AddElement(testElement("a", "A"))
	doc.AddElement(testElement("b", "B"))
	doc.AddElement(testElement("c", "C"))

	doc.AddConnection("a", "b", "", ConnectionArrow)
	doc.AddConnection("b", "c", "", ConnectionArrow)
	doc.AddConnection("c", "b", "", ConnectionLine)

	// All three connections reference b as source or target.
	doc.RemoveElement("b")

	if doc.ElementCount() != 2 {
		t.Errorf("expected 2 elements, got %d", doc.ElementCount())
	}
	if doc.ConnectionCount() != 0 {
		t.Errorf("expected all of b's connections removed, got %d left", doc.ConnectionCount())
	}
}

func TestRemoveElementAbsentIsNoOp(t *testing.T) {
	doc := NewDocument()
	doc.AddElement(testElement("a", "A"))
	doc.RemoveElement("missing")
	if doc.ElementCount() != 1 {
		t.Errorf("removing a missing id mutated the document")
	}
}

func TestAddConnectionRejectsDuplicatePair(t *testing.T) {
	doc := NewDocument()
	doc.AddElement(testElement("a", "A"))
	doc.AddElement(testElement("b", "B"))

	first := doc.AddConnection("a", "b", "first", ConnectionArrow)
	if first == nil {
		t.Fatal("first connection rejected")
	}
	if doc.AddConnection("a", "b", "dup", ConnectionDotted) != nil {
		t.Error("duplicate (source,target) pair was accepted")
	}
	if doc.ConnectionCount() != 1 {
		t.Errorf("expected 1 connection after both calls, got %d", doc.ConnectionCount())
	}

	// Opposite direction is a different pair.
	if doc.AddConnection("b", "a", "reverse", ConnectionArrow) == nil {
		t.Error("reverse connection rejected")
	}
}

func TestAddConnectionRejectsMissingEndpoint(t *testing.T) {
	doc := NewDocument()
	doc.AddElement(testElement("a", "A"))
	if doc.AddConnection("a", "ghost", "", ConnectionArrow) != nil {
		t.Error("connection to missing element accepted")
	}
	if doc.AddConnection("ghost", "a", "", ConnectionArrow) != nil {
		t.Error("connection from missing element accepted")
	}
}

func TestAddConnectionAllowsSelfLoop(t *testing.T) {
	doc := NewDocument()
	doc.AddElement(testElement("a", "A"))
	if doc.AddConnection("a", "a", "loop", ConnectionArrow) == nil {
		t.Error("self-loop rejected")
	}
	if doc.AddConnection("a", "a", "loop2", ConnectionArrow) != nil {
		t.Error("duplicate self-loop accepted")
	}
}

func TestUpdateElementShallowMerge(t *testing.T) {
	doc := NewDocument()
	doc.AddElement(testElement("a", "A"))

	label := "renamed"
	pos := Point{X: 5, Y: 7}
	if !doc.UpdateElement("a", ElementUpdate{Label: &label, Position: &pos}) {
		t.Fatal("update reported element absent")
	}

	el, _ := doc.Element("a")
	if el.Label != "renamed" || el.Position != pos {
		t.Errorf("merge incomplete: %+v", el)
	}
	if el.Size.Width != 120 {
		t.Errorf("untouched field changed: %+v", el.Size)
	}

	if doc.UpdateElement("missing", ElementUpdate{Label: &label}) {
		t.Error("update of missing element reported success")
	}
}

func TestUpdateConnectionShallowMerge(t *testing.T) {
	doc := NewDocument()
	doc.AddElement(testElement("a", "A"))
	doc.AddElement(testElement("b", "B"))
	conn := doc.AddConnection("a", "b", "", ConnectionArrow)

	label := "flows"
	ct := ConnectionDotted
	if !doc.UpdateConnection(conn.ID, ConnectionUpdate{Label: &label, Type: &ct}) {
		t.Fatal("update reported connection absent")
	}
	got, _ := doc.Connection(conn.ID)
	if got.Label != "flows" || got.Type != ConnectionDotted {
		t.Errorf("merge incomplete: %+v", got)
	}
	if got.Source != "a" {
		t.Errorf("untouched field changed: %+v", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	doc := NewDocument()
	el := testElement("a", "A")
	el.Properties = map[string]string{"color": "red"}
	doc.AddElement(el)
	doc.AddElement(testElement("b", "B"))
	doc.AddConnection("a", "b", "edge", ConnectionArrow)

	clone := doc.Clone()
	label := "mutated"
	doc.UpdateElement("a", ElementUpdate{Label: &label, Properties: map[string]string{"color": "blue"}})
	doc.RemoveElement("b")

	if !clone.Equal(clone.Clone()) {
		t.Error("clone not self-consistent")
	}
	got, _ := clone.Element("a")
	if got.Label != "A" || got.Properties["color"] != "red" {
		t.Errorf("clone shares state with original: %+v", got)
	}
	if clone.ConnectionCount() != 1 {
		t.Errorf("clone lost connections: %d", clone.ConnectionCount())
	}
}

func TestFromEntitiesDropsInvariantViolations(t *testing.T) {
	doc := FromEntities(
		[]Element{
			testElement("a", "A"),
			testElement("b", "B"),
			{ID: "flat", Type: ElementRectangle, Size: Size{Width: 0, Height: 0}},
		},
		[]Connection{
			{ID: "c1", Source: "a", Target: "b", Type: ConnectionArrow},
			{ID: "c2", Source: "a", Target: "b", Type: ConnectionDotted}, // duplicate pair
			{ID: "c3", Source: "a", Target: "ghost", Type: ConnectionArrow},
		},
	)

	if doc.ElementCount() != 2 {
		t.Errorf("expected the zero-size element dropped, got %d elements", doc.ElementCount())
	}
	if doc.ConnectionCount() != 1 {
		t.Errorf("expected 1 connection after dropping violations, got %d", doc.ConnectionCount())
	}
	if _, ok := doc.Connection("c1"); !ok {
		t.Error("first connection of the duplicate pair lost")
	}
}

func TestJSONRoundTripPreservesOrder(t *testing.T) {
	doc := NewDocument()
	doc.AddElement(testElement("z", "Z"))
	doc.AddElement(testElement("a", "A"))
	doc.AddElement(testElement("m", "M"))
	doc.AddConnection("z", "a", "", ConnectionArrow)
	doc.AddConnection("a", "m", "", ConnectionLine)

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	restored := NewDocument()
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !doc.Equal(restored) {
		t.Error("round trip lost content or order")
	}
	ids := []string{}
	for _, el := range restored.Elements() {
		ids = append(ids, el.ID)
	}
	if ids[0] != "z" || ids[1] != "a" || ids[2] != "m" {
		t.Errorf("element order not preserved: %v", ids)
	}
}
