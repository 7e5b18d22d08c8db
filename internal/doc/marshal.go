package doc

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a document object from a YAML (.yaml/.yml) or JSON (.json)
// file. The load is a single synchronous call with no retry; any failure
// propagates immediately.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	var d Document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("load document %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("load document %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("load document %s: unsupported extension %q", path, ext)
	}
	return &d, nil
}

// SaveFile writes the document to path, choosing the codec by extension the
// same way LoadFile does. Placeholder tokens and missing markers are plain
// run text, so they round-trip exactly through save and reload.
func SaveFile(d *Document, path string) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = json.MarshalIndent(d, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case ".yaml", ".yml":
		data, err = yaml.Marshal(d)
	default:
		return fmt.Errorf("save document %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return fmt.Errorf("save document %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}
