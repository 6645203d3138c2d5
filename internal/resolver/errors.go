package resolver

import (
	"fmt"
	"strings"
)

// InvalidScopeError reports a non-root scope declaring neither inputs nor
// subdirectories.
type InvalidScopeError struct {
	Path string
}

func (e *InvalidScopeError) Error() string {
	return fmt.Sprintf("%s must declare inputs or subdirectories", e.Path)
}

// InvalidPatternError reports a declared pattern that did not compile.
type InvalidPatternError struct {
	Path    string
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("%s: pattern %q: %v", e.Path, e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}

// DependencyNotFoundError reports an import_deps reference whose exported
// rule set could not be located.
type DependencyNotFoundError struct {
	Dep  string
	Path string
}

func (e *DependencyNotFoundError) Error() string {
	return fmt.Sprintf("unknown dependency %q: no configuration at %s", e.Dep, e.Path)
}

// NoSubScopesError reports a subdirectories pattern matching zero concrete
// directories. The stricter default fails loudly; callers opt out via
// IgnoreMissingSubScopes.
type NoSubScopesError struct {
	Path    string
	Pattern string
}

func (e *NoSubScopesError) Error() string {
	return fmt.Sprintf("%s: subdirectories pattern %q matches no directories", e.Path, e.Pattern)
}

// MissingSubScopesError reports candidate directories that did not yield a
// resolvable child scope.
type MissingSubScopesError struct {
	Path string
	Dirs []string
}

func (e *MissingSubScopesError) Error() string {
	return fmt.Sprintf("%s: no formatter configuration in subdirectories: %s", e.Path, strings.Join(e.Dirs, ", "))
}

// PluginNotFoundError reports a declared plugin identifier with no loadable
// capability.
type PluginNotFoundError struct {
	Plugin string
}

func (e *PluginNotFoundError) Error() string {
	return fmt.Sprintf("plugin %q is not loadable", e.Plugin)
}

// UndefinedCapabilityError reports a loadable plugin that does not expose
// the required features capability.
type UndefinedCapabilityError struct {
	Plugin string
}

func (e *UndefinedCapabilityError) Error() string {
	return fmt.Sprintf("plugin %q does not expose the features capability", e.Plugin)
}
