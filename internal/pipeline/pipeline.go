// Package pipeline composes the ordered formatter function chain for one
// file or sigil of a resolved configuration scope. Plugins apply in
// declared order, each consuming the previous plugin's output; that
// ordering is a contract, not an implementation detail.
package pipeline

import (
	"fmt"
	"path"

	"github.com/vk/refmt/internal/dotconfig"
	"github.com/vk/refmt/internal/plugin"
)

// Mode selects the input shape a formatter accepts.
type Mode int

const (
	// ModeText formats raw text, dispatched on the file's extension.
	ModeText Mode = iota
	// ModeAST formats a structured value, converting it to text through
	// exactly one canonical conversion before any string-mode plugin runs.
	ModeAST
)

// Formatter is a ready-to-call formatting function closed over one scope's
// merged options and resolved plugin chain.
type Formatter struct {
	// Path is the project-relative file the formatter was built for; empty
	// for sigil formatters.
	Path string

	// Node is the owning scope; its ConfigPath is the identity reported in
	// conflict errors.
	Node *dotconfig.Node

	fn       func(any) (string, error)
	identity bool
}

// Format applies the chain to input: a string in text mode, any structured
// value otherwise. Plugin errors are not caught here; the runner converts
// them into per-file failures.
func (f *Formatter) Format(input any) (string, error) {
	return f.fn(input)
}

// Identity reports that no plugin and no base formatter claimed the input,
// so the content is trivially "already formatted".
func (f *Formatter) Identity() bool {
	return f.identity
}

// ConfigPath is the owning scope's identity.
func (f *Formatter) ConfigPath() string {
	return f.Node.ConfigPath()
}

// For builds the formatter for one file of a scope.
func For(node *dotconfig.Node, file string, mode Mode) *Formatter {
	opts := node.FormatOpts(file)
	ext := path.Ext(file)

	var chain []plugin.Plugin
	for _, p := range node.Plugins {
		if claimsExtension(p, ext, opts) {
			chain = append(chain, p)
		}
	}

	f := &Formatter{Path: file, Node: node}
	switch {
	case len(chain) > 0 && mode == ModeText:
		f.fn = textChain(chain, opts)
	case len(chain) > 0:
		f.fn = astChain(node, chain, opts)
	case node.Base.Claims(ext) && mode == ModeText:
		f.fn = func(input any) (string, error) {
			text, err := asText(input)
			if err != nil {
				return "", err
			}
			return node.Base.Format(text, opts)
		}
	case node.Base.Claims(ext):
		f.fn = func(input any) (string, error) {
			text, err := node.Base.RenderAST(input, opts)
			if err != nil {
				return "", err
			}
			return node.Base.Format(text, opts)
		}
	default:
		f.identity = true
		f.fn = identityFn
	}
	return f
}

// ForSigil builds the formatter for a sigil marker, dispatched through the
// scope's aggregated sigil map rather than a file extension.
func ForSigil(node *dotconfig.Node, marker string) *Formatter {
	opts := node.FormatOpts("")
	opts["sigil"] = marker

	chain := node.Sigils[marker]
	f := &Formatter{Node: node}
	if len(chain) == 0 {
		f.identity = true
		f.fn = identityFn
		return f
	}
	f.fn = astChain(node, chain, opts)
	return f
}

// textChain runs every plugin in declared order over string input.
func textChain(chain []plugin.Plugin, opts plugin.Opts) func(any) (string, error) {
	return func(input any) (string, error) {
		text, err := asText(input)
		if err != nil {
			return "", err
		}
		for _, p := range chain {
			text, err = p.Format(text, opts)
			if err != nil {
				return "", err
			}
		}
		return text, nil
	}
}

// astChain converts a structured value to text using the first declared
// plugin exposing the conversion capability, falling back to the base
// formatter's canonical rendering; every other plugin then runs in string
// mode in declared order. String input skips the conversion entirely.
func astChain(node *dotconfig.Node, chain []plugin.Plugin, opts plugin.Opts) func(any) (string, error) {
	var converter plugin.ASTPrinter
	for _, p := range chain {
		if ap, ok := p.(plugin.ASTPrinter); ok {
			converter = ap
			break
		}
	}
	return func(input any) (string, error) {
		var text string
		var err error
		converted := false
		if s, ok := input.(string); ok {
			text, converted = s, true
		} else if converter != nil {
			text, err = converter.StructuredToText(input, opts)
			if err != nil {
				return "", err
			}
		} else {
			text, err = node.Base.RenderAST(input, opts)
			if err != nil {
				return "", err
			}
		}
		for _, p := range chain {
			if !converted && any(p) == any(converter) {
				// The conversion already consumed this plugin's slot.
				continue
			}
			text, err = p.Format(text, opts)
			if err != nil {
				return "", err
			}
		}
		return text, nil
	}
}

// identityFn passes text through untouched; unclaimed input is trivially
// "already formatted".
func identityFn(input any) (string, error) {
	return asText(input)
}

func claimsExtension(p plugin.Plugin, ext string, opts plugin.Opts) bool {
	for _, e := range p.Features(opts).Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func asText(input any) (string, error) {
	text, ok := input.(string)
	if !ok {
		return "", fmt.Errorf("text-mode formatter needs string input, got %T", input)
	}
	return text, nil
}
