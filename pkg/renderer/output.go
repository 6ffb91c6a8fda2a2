// Package renderer serializes machine-readable report summaries.
package renderer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output format names.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Renderer errors.
var (
	// ErrNilOutput is returned when nil is passed to render functions.
	ErrNilOutput = errors.New("summary output is nil")
	// ErrUnknownFormat is returned for an output format other than json or yaml.
	ErrUnknownFormat = errors.New("unknown output format")
)

const outputFileMode = 0o644

// SummaryOutput is implemented by values that have a serializable summary form.
type SummaryOutput interface {
	// OutputName identifies the summary kind (e.g., "stage_summary").
	OutputName() string

	// ToJSON returns a value suitable for json.Marshal.
	ToJSON() any

	// ToYAML returns a value suitable for yaml.Marshal.
	ToYAML() any
}

// RenderJSON serializes an output to indented JSON bytes.
func RenderJSON(out SummaryOutput) ([]byte, error) {
	if out == nil {
		return nil, ErrNilOutput
	}

	data, err := json.MarshalIndent(out.ToJSON(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s to JSON: %w", out.OutputName(), err)
	}

	return data, nil
}

// RenderYAML serializes an output to YAML bytes.
func RenderYAML(out SummaryOutput) ([]byte, error) {
	if out == nil {
		return nil, ErrNilOutput
	}

	data, err := yaml.Marshal(out.ToYAML())
	if err != nil {
		return nil, fmt.Errorf("marshal %s to YAML: %w", out.OutputName(), err)
	}

	return data, nil
}

// Render serializes out in the named format.
func Render(out SummaryOutput, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return RenderJSON(out)
	case FormatYAML:
		return RenderYAML(out)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FormatFromPath picks yaml for .yaml/.yml files and json otherwise.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// WriteFile renders out in the format implied by path and writes it there.
func WriteFile(path string, out SummaryOutput) error {
	data, err := Render(out, FormatFromPath(path))
	if err != nil {
		return err
	}

	err = os.WriteFile(path, data, outputFileMode)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
