// Package sigiljson ships the "sigil_json" plugin: it pretty-prints JSON
// files and the bodies of ~J sigil literals, and exposes the
// structured-to-text capability so structured JSON values can be rendered
// directly.
package sigiljson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vk/refmt/internal/plugin"
)

// Module implements the plugin.Module interface for this package.
type Module struct{}

// Register registers the plugin with the engine.
func (m *Module) Register(r *plugin.Registry) {
	r.Register("sigil_json", &Plugin{})
}

// Plugin formats JSON. A malformed document is an error, which the runner
// reports as a per-file failure.
type Plugin struct{}

func (p *Plugin) Features(opts plugin.Opts) plugin.Features {
	return plugin.Features{
		Sigils:     []string{"J"},
		Extensions: []string{".json"},
	}
}

func (p *Plugin) Format(text string, opts plugin.Opts) (string, error) {
	trailing := strings.HasSuffix(text, "\n")
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(strings.TrimSpace(text)), "", "  "); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	out := buf.String()
	if trailing {
		out += "\n"
	}
	return out, nil
}

// StructuredToText renders a structured value as indented JSON. For sigil
// literals the body is formatted and the marker is preserved.
func (p *Plugin) StructuredToText(value any, opts plugin.Opts) (string, error) {
	if sigil, ok := value.(plugin.Sigil); ok {
		body, err := p.Format(sigil.Content, opts)
		if err != nil {
			return "", err
		}
		return "~" + sigil.Marker + "(" + body + ")" + sigil.Modifiers, nil
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
