package diagram

import "encoding/json"

// documentJSON is the serialized form of a Document. Arrays keep the
// insertion order that the maps alone could not.
type documentJSON struct {
	Elements    []Element    `json:"elements"`
	Connections []Connection `json:"connections"`
}

// MarshalJSON serializes the document with elements and connections in
// insertion order.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := documentJSON{
		Elements:    make([]Element, 0, len(d.elementOrder)),
		Connections: make([]Connection, 0, len(d.connectionOrder)),
	}
	for _, id := range d.elementOrder {
		out.Elements = append(out.Elements, d.elements[id].Clone())
	}
	for _, id := range d.connectionOrder {
		out.Connections = append(out.Connections, *d.connections[id])
	}
	return json.Marshal(out)
}

// UnmarshalJSON replaces the document's contents with the serialized state.
// Entries with duplicate ids are dropped rather than failing the whole load.
func (d *Document) UnmarshalJSON(data []byte) error {
	var in documentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	restored := FromEntities(in.Elements, in.Connections)
	d.Restore(restored)
	return nil
}

// FromEntities builds a document from element and connection lists, keeping
// list order as insertion order. Entries that would violate the model's
// invariants (duplicate ids, invalid sizes, dangling endpoints, duplicate
// (source,target) pairs) are dropped rather than failing the whole load.
func FromEntities(elements []Element, connections []Connection) *Document {
	doc := NewDocument()
	for _, el := range elements {
		_, _ = doc.AddElement(el)
	}
	for _, conn := range connections {
		doc.InsertConnection(conn)
	}
	return doc
}
