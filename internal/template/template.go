// Package template defines the document-type schemas the classifier matches
// against and the catalog they live in.
package template

import (
	"fmt"

	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/common"
)

// FieldType enumerates the value types a template field may declare.
type FieldType string

const (
	FieldString  FieldType = "STRING"
	FieldNumber  FieldType = "NUMBER"
	FieldDate    FieldType = "DATE"
	FieldBoolean FieldType = "BOOLEAN"
	FieldTable   FieldType = "TABLE"
)

// Field is one named, typed, described unit of data a template expects.
// Columns is populated only for TABLE fields and defines the CSV column
// order for that table.
type Field struct {
	Key         string    `json:"key"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Description string    `json:"description"`
	Columns     []Field   `json:"columns,omitempty"`
}

// Template is a named schema describing one class of source document.
// Description is free text fed to the classifier as disambiguation hints.
type Template struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Fields      []Field `json:"fields"`
}

// ScalarFields returns the non-table fields in declaration order.
func (t *Template) ScalarFields() []Field {
	out := make([]Field, 0, len(t.Fields))
	for _, f := range t.Fields {
		if f.Type != FieldTable {
			out = append(out, f)
		}
	}
	return out
}

// TableFields returns the table fields in declaration order.
func (t *Template) TableFields() []Field {
	var out []Field
	for _, f := range t.Fields {
		if f.Type == FieldTable {
			out = append(out, f)
		}
	}
	return out
}

// Validate checks structural invariants: non-empty id/name, unique field
// keys, columns only on tables, and no nesting of tables inside tables.
func (t *Template) Validate() error {
	if t.ID == "" {
		return common.NewAppError("TEMPLATE_INVALID", "template id is required", common.ErrValidation)
	}
	if t.Name == "" {
		return common.NewAppError("TEMPLATE_INVALID", "template name is required", common.ErrValidation)
	}
	seen := make(map[string]struct{}, len(t.Fields))
	for _, f := range t.Fields {
		if f.Key == "" {
			return common.NewAppError("TEMPLATE_INVALID", "field key is required", common.ErrValidation)
		}
		if _, dup := seen[f.Key]; dup {
			return common.NewAppError("TEMPLATE_INVALID",
				fmt.Sprintf("duplicate field key %q", f.Key), common.ErrValidation)
		}
		seen[f.Key] = struct{}{}

		switch f.Type {
		case FieldTable:
			if len(f.Columns) == 0 {
				return common.NewAppError("TEMPLATE_INVALID",
					fmt.Sprintf("table field %q has no columns", f.Key), common.ErrValidation)
			}
			cols := make(map[string]struct{}, len(f.Columns))
			for _, c := range f.Columns {
				if c.Key == "" {
					return common.NewAppError("TEMPLATE_INVALID",
						fmt.Sprintf("table field %q has a column without a key", f.Key), common.ErrValidation)
				}
				if _, dup := cols[c.Key]; dup {
					return common.NewAppError("TEMPLATE_INVALID",
						fmt.Sprintf("table field %q has duplicate column %q", f.Key, c.Key), common.ErrValidation)
				}
				cols[c.Key] = struct{}{}
				if c.Type == FieldTable {
					return common.NewAppError("TEMPLATE_INVALID",
						fmt.Sprintf("table field %q nests another table (%q)", f.Key, c.Key), common.ErrValidation)
				}
			}
		case FieldString, FieldNumber, FieldDate, FieldBoolean:
			if len(f.Columns) > 0 {
				return common.NewAppError("TEMPLATE_INVALID",
					fmt.Sprintf("scalar field %q declares columns", f.Key), common.ErrValidation)
			}
		default:
			return common.NewAppError("TEMPLATE_INVALID",
				fmt.Sprintf("field %q has unknown type %q", f.Key, f.Type), common.ErrValidation)
		}
	}
	return nil
}

// Catalog is an ordered, read-only snapshot of the current templates. It is
// passed explicitly to every component that needs it and replaced wholesale
// when the catalog is edited.
type Catalog []Template

// Find returns the template with the given id, or nil.
func (c Catalog) Find(id string) *Template {
	for i := range c {
		if c[i].ID == id {
			return &c[i]
		}
	}
	return nil
}
