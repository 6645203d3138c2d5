package dotconfig

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/refmt/internal/plugin"
)

// DefaultFile is the configuration file basename a scope is read from.
const DefaultFile = ".formatter.hcl"

// recognizedOptions are the formatting options the core schema knows about.
// Anything else lands in the plugin-opts bucket.
var recognizedOptions = map[string]struct{}{
	"force_do_end_blocks":           {},
	"normalize_bitstring_modifiers": {},
	"normalize_charlists_as_sigils": {},
}

// Raw is the structured option set parsed out of one configuration file,
// before any pattern compilation, import resolution or plugin loading.
type Raw struct {
	Inputs         []string
	Subdirectories []string
	ImportDeps     []string
	Locals         []plugin.Local
	Plugins        []string
	Export         *Export
	Options        map[string]cty.Value
	PluginOpts     map[string]cty.Value
}

// Export is the rule set a scope makes available to importers via
// import_deps.
type Export struct {
	Locals []plugin.Local
}

// Parse evaluates configuration text into a Raw option set. The text is
// declarative HCL; it is never executed as code.
func Parse(filename string, src []byte) (*Raw, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, &InvalidFormatError{Path: filename, Err: diags}
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, &InvalidFormatError{Path: filename, Detail: "not native HCL syntax"}
	}

	raw := &Raw{
		Options:    make(map[string]cty.Value),
		PluginOpts: make(map[string]cty.Value),
	}

	for name, attr := range body.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, &InvalidFormatError{Path: filename, Detail: name, Err: diags}
		}
		var err error
		switch name {
		case "inputs":
			raw.Inputs, err = stringOrList(val)
		case "subdirectories":
			raw.Subdirectories, err = stringOrList(val)
		case "import_deps":
			raw.ImportDeps, err = stringOrList(val)
		case "plugins":
			raw.Plugins, err = stringOrList(val)
		case "locals_without_parens":
			raw.Locals, err = localsList(val)
		default:
			if _, known := recognizedOptions[name]; known {
				raw.Options[name] = val
			} else {
				raw.PluginOpts[name] = val
			}
		}
		if err != nil {
			return nil, &InvalidFormatError{Path: filename, Detail: name, Err: err}
		}
	}

	for _, block := range body.Blocks {
		switch block.Type {
		case "export":
			export, err := parseExport(block)
			if err != nil {
				return nil, &InvalidFormatError{Path: filename, Detail: "export", Err: err}
			}
			raw.Export = export
		case "plugin_opts":
			for name, attr := range block.Body.Attributes {
				val, diags := attr.Expr.Value(nil)
				if diags.HasErrors() {
					return nil, &InvalidFormatError{Path: filename, Detail: "plugin_opts." + name, Err: diags}
				}
				raw.PluginOpts[name] = val
			}
		default:
			return nil, &InvalidFormatError{
				Path:   filename,
				Detail: fmt.Sprintf("unsupported block %q at %s", block.Type, block.DefRange().String()),
			}
		}
	}

	return raw, nil
}

func parseExport(block *hclsyntax.Block) (*Export, error) {
	export := &Export{}
	for name, attr := range block.Body.Attributes {
		if name != "locals_without_parens" {
			return nil, fmt.Errorf("unsupported export attribute %q", name)
		}
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		locals, err := localsList(val)
		if err != nil {
			return nil, err
		}
		export.Locals = locals
	}
	if len(block.Body.Blocks) > 0 {
		return nil, fmt.Errorf("export must not contain nested blocks")
	}
	return export, nil
}

// stringOrList accepts a single pattern string or a list of strings; both
// forms are legal for inputs and subdirectories.
func stringOrList(val cty.Value) ([]string, error) {
	if val.Type() == cty.String {
		return []string{val.AsString()}, nil
	}
	if !val.CanIterateElements() {
		return nil, fmt.Errorf("expected a string or a list of strings, got %s", val.Type().FriendlyName())
	}
	var out []string
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if elem.Type() != cty.String {
			return nil, fmt.Errorf("expected a string element, got %s", elem.Type().FriendlyName())
		}
		out = append(out, elem.AsString())
	}
	return out, nil
}

// localsList validates that locals_without_parens is a finite ordered set
// of name/arity pairs.
func localsList(val cty.Value) ([]plugin.Local, error) {
	if !val.CanIterateElements() {
		return nil, fmt.Errorf("expected a list of {name, arity} pairs, got %s", val.Type().FriendlyName())
	}
	var out []plugin.Local
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		ty := elem.Type()
		if !ty.IsObjectType() || !ty.HasAttribute("name") || !ty.HasAttribute("arity") {
			return nil, fmt.Errorf("each entry must be an object with name and arity")
		}
		name := elem.GetAttr("name")
		if name.Type() != cty.String {
			return nil, fmt.Errorf("local name must be a string")
		}
		var arity int
		if err := gocty.FromCtyValue(elem.GetAttr("arity"), &arity); err != nil {
			return nil, fmt.Errorf("local arity must be a number: %w", err)
		}
		out = append(out, plugin.Local{Name: name.AsString(), Arity: arity})
	}
	return out, nil
}
