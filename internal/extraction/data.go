package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Row is one line item of a table field: column key to cell. Row identity
// is positional; there are no stable row ids.
type Row map[string]Cell

// Clone returns a shallow-independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Data is the extracted payload of one document: scalar field keys map to a
// single cell, table field keys map to an ordered row sequence. Row order
// is significant (export order = row order).
type Data struct {
	Scalars map[string]Cell
	Tables  map[string][]Row
}

// NewData returns an empty payload ready for mutation.
func NewData() *Data {
	return &Data{
		Scalars: make(map[string]Cell),
		Tables:  make(map[string][]Row),
	}
}

// Empty reports whether the payload holds no values at all.
func (d *Data) Empty() bool {
	return d == nil || (len(d.Scalars) == 0 && len(d.Tables) == 0)
}

// Scalar returns the cell for a scalar field key; the zero Cell when absent.
func (d *Data) Scalar(key string) Cell {
	if d == nil {
		return Cell{}
	}
	return d.Scalars[key]
}

// Rows returns the row sequence for a table field key; nil when absent.
func (d *Data) Rows(key string) []Row {
	if d == nil {
		return nil
	}
	return d.Tables[key]
}

// Clone returns an independent copy; rows are copied so edits to the clone
// never alias the source.
func (d *Data) Clone() *Data {
	if d == nil {
		return nil
	}
	out := NewData()
	for k, v := range d.Scalars {
		out.Scalars[k] = v
	}
	for k, rows := range d.Tables {
		cp := make([]Row, len(rows))
		for i, r := range rows {
			cp[i] = r.Clone()
		}
		out.Tables[k] = cp
	}
	return out
}

// UnmarshalJSON accepts the extraction model's payload shape: a single
// object whose values are either cells (bare or annotated) or arrays of
// row objects.
func (d *Data) UnmarshalJSON(raw []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("decode extracted data: %w", err)
	}
	d.Scalars = make(map[string]Cell)
	d.Tables = make(map[string][]Row)
	for key, val := range m {
		trimmed := bytes.TrimSpace(val)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var rows []Row
			if err := json.Unmarshal(trimmed, &rows); err != nil {
				return fmt.Errorf("decode table %q: %w", key, err)
			}
			d.Tables[key] = rows
			continue
		}
		var c Cell
		if err := json.Unmarshal(trimmed, &c); err != nil {
			return fmt.Errorf("decode field %q: %w", key, err)
		}
		d.Scalars[key] = c
	}
	return nil
}

// MarshalJSON writes the same single-object shape back out, with keys
// sorted for stable output.
func (d *Data) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(d.Scalars)+len(d.Tables))
	for k, v := range d.Scalars {
		m[k] = v
	}
	for k, rows := range d.Tables {
		m[k] = rows
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
