// Package plugin defines the capability surface a formatter plugin exposes,
// the registry the resolver loads plugins from, and the base language
// formatter used when no plugin claims a file.
package plugin

// Opts is the merged option set a configuration scope passes into plugin
// calls. Well-known keys are "file", "extension", "sigil",
// "locals_without_parens" ([]Local) and "plugin_opts"; anything else came
// from the scope's unrecognized options and is passed through verbatim.
type Opts map[string]any

// Features describes what a plugin claims responsibility for: file
// extensions in text mode and sigil markers in structured mode.
type Features struct {
	Sigils     []string
	Extensions []string
}

// Plugin is the minimum capability contract. A registered value that does
// not implement it cannot be used by a configuration scope.
type Plugin interface {
	Features(opts Opts) Features
	Format(text string, opts Opts) (string, error)
}

// ASTPrinter is the optional capability to render a structured value to
// text. When several plugins in a chain implement it, only the first
// declared plugin's conversion is used; the rest run in string mode.
type ASTPrinter interface {
	StructuredToText(value any, opts Opts) (string, error)
}

// Module registers one or more plugins into a registry. Shipped plugin
// packages under modules/ implement it.
type Module interface {
	Register(r *Registry)
}

// Local is one name/arity pair permitted to be called without parentheses.
type Local struct {
	Name  string
	Arity int
}

// Sigil is the structured representation of a sigil literal: the marker a
// plugin claims, the literal body and any trailing modifiers.
type Sigil struct {
	Marker    string
	Content   string
	Modifiers string
}

// LocalsFrom extracts the locals_without_parens entry from opts, if any.
func LocalsFrom(opts Opts) []Local {
	locals, _ := opts["locals_without_parens"].([]Local)
	return locals
}
