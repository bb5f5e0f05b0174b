package output

import (
	"encoding/json"
	"fmt"

	sigsyaml "sigs.k8s.io/yaml"
)

// Format selects how a view is rendered.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a user-supplied format name. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatYAML, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("invalid output format %q: must be one of text, yaml, json", s)
	}
}

// Marshal encodes v as YAML or JSON. Types with JSON tags or MarshalJSON
// methods render the same way in both formats. Text has no generic
// encoding and is rejected.
func Marshal(v any, f Format) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	switch f {
	case FormatYAML:
		data, err = sigsyaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("serializing YAML: %w", err)
		}
	case FormatJSON:
		data, err = json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("serializing JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("format %q has no structured encoding", f)
	}

	// Ensure trailing newline.
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	return data, nil
}
