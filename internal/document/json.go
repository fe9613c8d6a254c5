package document

import (
	"encoding/json"
	"fmt"
)

// Nodes serialize as a flat JSON object: the typed fields under their
// stable names with kind-specific props alongside them. encoding/json
// emits map keys sorted, so the serialized form is deterministic.

var reservedKeys = map[string]struct{}{
	"id":         {},
	"type":       {},
	"position":   {},
	"size":       {},
	"rotation":   {},
	"textScaleX": {},
	"textScaleY": {},
	"children":   {},
}

func (n *Node) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(n.Props)+8)
	for k, v := range n.Props {
		if _, reserved := reservedKeys[k]; reserved {
			continue
		}
		m[k] = v
	}
	m["id"] = n.ID
	m["type"] = n.Type
	if n.Position != nil {
		m["position"] = n.Position
	}
	if n.Size != nil {
		m["size"] = n.Size
	}
	if n.Rotation != nil {
		m["rotation"] = *n.Rotation
	}
	if n.TextScaleX != nil {
		m["textScaleX"] = *n.TextScaleX
	}
	if n.TextScaleY != nil {
		m["textScaleY"] = *n.TextScaleY
	}
	if n.Children != nil {
		m["children"] = n.Children
	}
	return json.Marshal(m)
}

func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*n = Node{}
	for key, val := range raw {
		var err error
		switch key {
		case "id":
			err = json.Unmarshal(val, &n.ID)
		case "type":
			err = json.Unmarshal(val, &n.Type)
		case "position":
			err = json.Unmarshal(val, &n.Position)
		case "size":
			err = json.Unmarshal(val, &n.Size)
		case "rotation":
			err = json.Unmarshal(val, &n.Rotation)
		case "textScaleX":
			err = json.Unmarshal(val, &n.TextScaleX)
		case "textScaleY":
			err = json.Unmarshal(val, &n.TextScaleY)
		case "children":
			err = json.Unmarshal(val, &n.Children)
		default:
			var v any
			if err = json.Unmarshal(val, &v); err == nil {
				if n.Props == nil {
					n.Props = make(map[string]any)
				}
				n.Props[key] = v
			}
		}
		if err != nil {
			return fmt.Errorf("node field %q: %w", key, err)
		}
	}
	return nil
}

type documentJSON struct {
	Root *Node `json:"root"`
}

func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(documentJSON{Root: d.Root})
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var dj documentJSON
	if err := json.Unmarshal(data, &dj); err != nil {
		return err
	}
	d.Root = dj.Root
	return nil
}

// ToJSON serializes the document to its plain nested-object form.
func (d *Document) ToJSON() ([]byte, error) {
	return json.Marshal(d)
}

// FromJSON parses a document. Callers loading externally supplied trees
// should run Check on the result before using it.
func FromJSON(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if d.Root == nil {
		return nil, fmt.Errorf("parse document: missing root")
	}
	return &d, nil
}
