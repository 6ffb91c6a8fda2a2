package stage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Format identifies a serialization format for input files.
type Format string

// Supported input formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Sentinel errors for input loading.
var (
	// ErrUnsupportedFormat indicates a file extension with no known decoder.
	ErrUnsupportedFormat = errors.New("unsupported input format")
	// ErrSchema indicates the document does not match the classification schema.
	ErrSchema = errors.New("classification results do not match schema")
)

//go:embed schema/classification.schema.json
var classificationSchema []byte

// FormatFromPath picks a Format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadResults reads classification results from a JSON or YAML file.
// Both a bare list and a {"data": [...]} envelope are accepted.
func LoadResults(path string) ([]ClassificationResult, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	results, err := DecodeResults(f, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return results, nil
}

// DecodeResults decodes and schema-validates classification results.
func DecodeResults(r io.Reader, format Format) ([]ClassificationResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	doc, err := ToJSON(raw, format)
	if err != nil {
		return nil, err
	}

	err = validateResults(doc)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(doc)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		var results []ClassificationResult

		err = json.Unmarshal(trimmed, &results)
		if err != nil {
			return nil, fmt.Errorf("decode results: %w", err)
		}

		return results, nil
	}

	var envelope struct {
		Data []ClassificationResult `json:"data"`
	}

	err = json.Unmarshal(trimmed, &envelope)
	if err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}

	return envelope.Data, nil
}

// ToJSON normalizes a JSON or YAML document to JSON bytes.
func ToJSON(raw []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return raw, nil
	case FormatYAML:
		var doc any

		err := yaml.Unmarshal(raw, &doc)
		if err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}

		out, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("convert yaml to json: %w", err)
		}

		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func validateResults(doc []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(classificationSchema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validate results: %w", err)
	}

	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		details = append(details, verr.Field()+": "+verr.Description())
	}

	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(details, "; "))
}

// UnmarshalJSON accepts the stage label as a string or as a bare integer,
// which is how unquoted YAML labels arrive.
func (r *ClassificationResult) UnmarshalJSON(data []byte) error {
	var aux struct {
		FrameID   int             `json:"frame_id"`
		Timestamp float64         `json:"timestamp"`
		Stage     json.RawMessage `json:"stage"`
	}

	err := json.Unmarshal(data, &aux)
	if err != nil {
		return fmt.Errorf("decode classification result: %w", err)
	}

	label := string(bytes.TrimSpace(aux.Stage))
	if strings.HasPrefix(label, `"`) {
		err = json.Unmarshal(aux.Stage, &label)
		if err != nil {
			return fmt.Errorf("decode stage label: %w", err)
		}
	}

	r.FrameID = aux.FrameID
	r.Timestamp = aux.Timestamp
	r.Stage = label

	return nil
}
