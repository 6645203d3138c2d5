// Package whitespace ships the "whitespace" plugin: it strips trailing
// spaces and tabs from every line.
package whitespace

import (
	"strings"

	"github.com/vk/refmt/internal/plugin"
)

// Module implements the plugin.Module interface for this package.
type Module struct{}

// Register registers the plugin with the engine.
func (m *Module) Register(r *plugin.Registry) {
	r.Register("whitespace", &Plugin{})
}

// Plugin trims trailing whitespace. It shares extensions with the newlines
// plugin; when both are declared they chain in declared order.
type Plugin struct{}

func (p *Plugin) Features(opts plugin.Opts) plugin.Features {
	return plugin.Features{Extensions: []string{".md", ".txt"}}
}

func (p *Plugin) Format(text string, opts plugin.Opts) (string, error) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n"), nil
}
