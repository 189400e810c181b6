package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/samvad-hq/samvad-netkit/internal/config"
	"gopkg.in/yaml.v3"
)

// Render writes v to w in the given output format.
func Render(w io.Writer, format string, v any) error {
	switch format {
	case config.OutputJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
