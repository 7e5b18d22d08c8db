package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stencilhq/stencil/internal/placeholder"
)

// DerivedDependencies maps composite placeholder paths (rendered, not
// entered) to the raw schema fields they are computed from. A template that
// uses {{offer.price_range}} asks the operator for both bounds.
var DerivedDependencies = map[string][]string{
	"offer.price_range":             {"offer.price_range_low_aed", "offer.price_range_high_aed"},
	"offer.price_range_low":         {"offer.price_range_low_aed"},
	"offer.price_range_high":        {"offer.price_range_high_aed"},
	"offer.nominal_value_per_share": {"offer.nominal_value_per_share_aed"},
	"offer.size":                    {"offer.offer_shares"},
}

// FormSpec describes the input form needed to fill one template: the schema
// fields it references directly or through derived placeholders.
type FormSpec struct {
	SchemaID       string   `json:"schema_id"`
	Fields         []Field  `json:"fields"`
	RequiredPaths  []string `json:"required_paths"`
	RequestedPaths []string `json:"requested_paths"`
}

// BuildFormSpec maps the placeholders extracted from a template to the
// schema fields an operator must supply, expanding derived placeholders to
// their dependencies. Placeholders unknown to the schema and without a
// derivation are ignored; they will surface as missing markers at
// generation time instead.
func BuildFormSpec(placeholders []string, s *DealSchema) *FormSpec {
	requested := map[string]struct{}{}
	for _, ph := range placeholders {
		if s.FieldByPath(ph) != nil {
			requested[ph] = struct{}{}
			continue
		}
		for _, dep := range DerivedDependencies[ph] {
			requested[dep] = struct{}{}
		}
	}

	spec := &FormSpec{SchemaID: s.SchemaID}
	for _, field := range s.Fields {
		if _, ok := requested[field.Path]; !ok {
			continue
		}
		spec.Fields = append(spec.Fields, field)
		spec.RequestedPaths = append(spec.RequestedPaths, field.Path)
		if field.Required {
			spec.RequiredPaths = append(spec.RequiredPaths, field.Path)
		}
	}
	sort.Strings(spec.RequestedPaths)
	sort.Strings(spec.RequiredPaths)
	return spec
}

// Bookkeeping identifies the project context a raw-inputs payload belongs
// to; the keys travel alongside the schema fields in the same mapping.
type Bookkeeping struct {
	SchemaID            string
	ProjectID           int64
	TemplateID          int64
	SourceDocumentID    int64 // zero when the template itself is the source
	UseTemplateAsSource bool
}

// BuildRawInputs assembles the nested raw-inputs payload from flat
// path-keyed field values plus bookkeeping keys. Every schema field is
// present in the output, defaulted to nil or empty when unset; multiline
// risk_factors text splits into a list of trimmed lines; offer.currency is
// forced to the fixed constant.
func BuildRawInputs(s *DealSchema, meta Bookkeeping, fieldValues map[string]any) map[string]any {
	payload := map[string]any{
		"schema_id":              meta.SchemaID,
		"project_id":             meta.ProjectID,
		"template_id":            meta.TemplateID,
		"source_document_id":     meta.SourceDocumentID,
		"use_template_as_source": meta.UseTemplateAsSource,
	}

	for _, field := range s.Fields {
		value, ok := fieldValues[field.Path]
		if !ok {
			value = fieldDefault(field.Type)
		}
		if field.Type == TypeListString {
			if text, isText := value.(string); isText {
				value = splitLines(text)
			}
		}
		deepSet(payload, field.Path, value)
	}

	deepSet(payload, "offer.currency", "AED")
	return payload
}

func fieldDefault(t FieldType) any {
	switch t {
	case TypeString, TypeRichText:
		return ""
	case TypeListString:
		return []any{}
	default:
		return nil
	}
}

func splitLines(text string) []any {
	var lines []any
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if lines == nil {
		return []any{}
	}
	return lines
}

// ValidateRequired returns one human-readable message per required path
// that neither rendered to a usable value nor carries a raw value. The
// caller decides whether to block the operation or proceed with missing
// markers.
func ValidateRequired(requiredPaths []string, raw map[string]any, rendered map[string]string) []string {
	var errs []string
	for _, path := range requiredPaths {
		if value, ok := rendered[path]; ok && !placeholder.IsMissing(value) {
			continue
		}
		rawValue, ok := deepGet(raw, path)
		if !ok || rawValue == nil {
			errs = append(errs, fmt.Sprintf("%s is required.", path))
			continue
		}
		if text, isText := rawValue.(string); isText && strings.TrimSpace(text) == "" {
			errs = append(errs, fmt.Sprintf("%s is required.", path))
		}
	}
	return errs
}

// FindUnresolved lists, sorted and distinct, the template placeholders
// whose rendered value is absent or a missing marker.
func FindUnresolved(placeholders []string, rendered map[string]string) []string {
	seen := map[string]struct{}{}
	for _, ph := range placeholders {
		value, ok := rendered[ph]
		if !ok || placeholder.IsMissing(value) {
			seen[ph] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for ph := range seen {
		out = append(out, ph)
	}
	sort.Strings(out)
	return out
}

func deepGet(data map[string]any, path string) (any, bool) {
	var current any = data
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func deepSet(data map[string]any, path string, value any) {
	current := data
	parts := strings.Split(path, ".")
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
