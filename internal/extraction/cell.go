// Package extraction holds the extracted-value data model and the
// verification editor that mutates it.
package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Box is a source location on the document image, as normalized 0–1000
// coordinates: [ymin, xmin, ymax, xmax].
type Box [4]int

// Cell is a single extracted datum: either a bare scalar or a scalar
// annotated with its source location. The two forms are decided once, at
// the JSON boundary; consumers read through Value/Box and never inspect
// the wire shape themselves.
type Cell struct {
	value any
	box   *Box
}

// Bare returns an unannotated cell.
func Bare(v any) Cell { return Cell{value: v} }

// Annotated returns a cell carrying a source-location box.
func Annotated(v any, box Box) Cell { return Cell{value: v, box: &box} }

// Value returns the underlying scalar regardless of form.
func (c Cell) Value() any { return c.value }

// Box returns the source location, or ok=false when the cell is bare.
func (c Cell) Box() (Box, bool) {
	if c.box == nil {
		return Box{}, false
	}
	return *c.box, true
}

// WithValue returns a cell holding v. An annotation, when present, is
// carried over unchanged so the location survives human corrections.
func (c Cell) WithValue(v any) Cell {
	return Cell{value: v, box: c.box}
}

// String renders the value for display and export. Absent values render as
// the empty string, never a literal null.
func (c Cell) String() string {
	switch v := c.value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// cellWire is the annotated wire form produced by the extraction model.
type cellWire struct {
	Value any  `json:"value"`
	Box2D *Box `json:"box_2d,omitempty"`
}

// MarshalJSON writes the bare scalar directly, or the {value, box_2d}
// object when annotated.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.box == nil {
		return json.Marshal(c.value)
	}
	return json.Marshal(cellWire{Value: c.value, Box2D: c.box})
}

// UnmarshalJSON accepts both wire forms. An object carrying a "value" key
// is the annotated form; anything else is taken as a bare scalar. Numbers
// are kept as json.Number so their source text survives round trips.
func (c *Cell) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err == nil {
			if _, ok := probe["value"]; ok {
				var w cellWire
				dec := json.NewDecoder(bytes.NewReader(trimmed))
				dec.UseNumber()
				if err := dec.Decode(&w); err != nil {
					return err
				}
				c.value = w.Value
				c.box = w.Box2D
				return nil
			}
		}
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	c.value = v
	c.box = nil
	return nil
}
