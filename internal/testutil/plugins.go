package testutil

import (
	"strings"

	"github.com/vk/refmt/internal/plugin"
)

// TextPlugin is a configurable test plugin claiming a fixed set of
// extensions and sigil markers and applying a pure string transform.
type TextPlugin struct {
	Exts    []string
	Markers []string
	Fn      func(string) string
	Err     error
}

func (p *TextPlugin) Features(opts plugin.Opts) plugin.Features {
	return plugin.Features{Extensions: p.Exts, Sigils: p.Markers}
}

func (p *TextPlugin) Format(text string, opts plugin.Opts) (string, error) {
	if p.Err != nil {
		return "", p.Err
	}
	return p.Fn(text), nil
}

// PrinterPlugin is a TextPlugin that additionally exposes the
// structured-to-text capability.
type PrinterPlugin struct {
	TextPlugin
	Printer func(any) string
}

func (p *PrinterPlugin) StructuredToText(value any, opts plugin.Opts) (string, error) {
	return p.Printer(value), nil
}

// SpacesToNewlines replaces every space with a newline. Together with
// NewlinesToDots it forms a non-commutative plugin pair for ordering tests.
func SpacesToNewlines(exts, markers []string) *TextPlugin {
	return &TextPlugin{
		Exts:    exts,
		Markers: markers,
		Fn:      func(s string) string { return strings.ReplaceAll(s, " ", "\n") },
	}
}

// NewlinesToDots replaces every newline with a dot.
func NewlinesToDots(exts, markers []string) *TextPlugin {
	return &TextPlugin{
		Exts:    exts,
		Markers: markers,
		Fn:      func(s string) string { return strings.ReplaceAll(s, "\n", ".") },
	}
}

// NoFeatures is a registered value lacking the plugin capability contract;
// resolving it must fail with UndefinedCapability.
type NoFeatures struct{}
