package cli

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/stencilhq/stencil/internal/doc"
)

// Error codes used in CLI JSON responses.
const (
	ErrCodeNotFound     = "E001" // file or row not found
	ErrCodeBadInput     = "E002" // malformed document or inputs payload
	ErrCodeNoMatch      = "E003" // parameterization produced no placeholders
	ErrCodeStoreFailure = "E004" // database error
	ErrCodeWriteFailed  = "E005" // output file write error
)

// outputError emits the error through the formatter, so JSON consumers get
// a coded response, then returns it wrapped with the given exit code for
// main to map to a process status.
func outputError(out *OutputFormatter, exitCode int, code, message string, err error) error {
	_ = out.Error(code, message, nil)
	return WrapExitError(exitCode, message, err)
}

// loadDocument reads a YAML or JSON document file.
func loadDocument(out *OutputFormatter, path string) (*doc.Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, outputError(out, ExitCommandError, ErrCodeNotFound, fmt.Sprintf("document not found: %s", path), err)
	}
	d, err := doc.LoadFile(path)
	if err != nil {
		return nil, outputError(out, ExitCommandError, ErrCodeBadInput, fmt.Sprintf("failed to load document %s", path), err)
	}
	return d, nil
}

// loadInputs reads a JSON inputs payload into a nested mapping.
func loadInputs(out *OutputFormatter, path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, outputError(out, ExitCommandError, ErrCodeNotFound, fmt.Sprintf("inputs file not found: %s", path), err)
	}
	var inputs map[string]any
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, outputError(out, ExitCommandError, ErrCodeBadInput, fmt.Sprintf("invalid inputs JSON in %s", path), err)
	}
	return inputs, nil
}

// saveDocument writes a document and returns the SHA-256 of the written
// bytes for store bookkeeping.
func saveDocument(out *OutputFormatter, d *doc.Document, path string) (string, error) {
	if err := doc.SaveFile(d, path); err != nil {
		return "", outputError(out, ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("failed to save document %s", path), err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", outputError(out, ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("failed to hash document %s", path), err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// marshalJSON renders a payload as indented JSON for reports and profiles.
func marshalJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to encode JSON", err)
	}
	return string(data), nil
}
