package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/alpkeskin/gotoon"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
	formatToon = "toon"
)

// printStructured prints v in the selected --format. It returns false for
// text output, leaving the caller to print a human-readable form.
func printStructured(v any) (bool, error) {
	switch outputFormat {
	case "", formatText:
		return false, nil
	case formatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(b))
	case formatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return true, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Print(string(b))
	case formatToon:
		out, err := gotoon.Encode(v)
		if err != nil {
			return true, fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(out)
	default:
		return true, fmt.Errorf("invalid --format %q (use text, json, yaml or toon)", outputFormat)
	}
	return true, nil
}
