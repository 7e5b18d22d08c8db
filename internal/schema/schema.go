// Package schema loads and serves the deal input schema: the named,
// versioned field list that normalization, form building and generation
// resolve dotted paths against. The schema ships as an embedded CUE source
// so field constraints are checked at load time rather than scattered
// through the code.
package schema

import "fmt"

// SupportedSchemaID is the only deal schema this build understands. Any
// normalization or generation call naming another id fails fast.
const SupportedSchemaID = "talabat_v1"

// FieldType tags how a field's raw value is parsed and rendered.
type FieldType string

const (
	TypeString     FieldType = "string"
	TypeRichText   FieldType = "rich_text"
	TypeListString FieldType = "list_string"
	TypeInteger    FieldType = "integer"
	TypeDecimal    FieldType = "decimal"
	TypePercent    FieldType = "percent"
)

// Field is one schema entry: a dotted path plus type and display metadata.
type Field struct {
	Path     string    `json:"path"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	HelpText string    `json:"help_text"`
	Example  string    `json:"example"`
}

// DealSchema is the named, versioned field list.
type DealSchema struct {
	SchemaID string  `json:"schema_id"`
	Name     string  `json:"name"`
	Version  int     `json:"version"`
	Fields   []Field `json:"fields"`
}

// FieldByPath returns the schema field at path, or nil.
func (s *DealSchema) FieldByPath(path string) *Field {
	for i := range s.Fields {
		if s.Fields[i].Path == path {
			return &s.Fields[i]
		}
	}
	return nil
}

// Require validates a caller-supplied schema id against the supported one.
func Require(schemaID string) error {
	if schemaID != SupportedSchemaID {
		return fmt.Errorf("unsupported schema_id: %q", schemaID)
	}
	return nil
}
