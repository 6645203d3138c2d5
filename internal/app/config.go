package app

// Config holds all settings for an application instance, populated by the
// CLI parser.
type Config struct {
	// Dir is the project root containing the top-level .formatter.hcl.
	Dir string

	// Check reports files that would change instead of rewriting them.
	Check bool

	// Watch keeps the process alive, re-resolving and re-running whenever a
	// configuration file changes.
	Watch bool

	// IncludeIdentity keeps unclaimed files in batch output.
	IncludeIdentity bool

	// IgnoreUnknownDeps tolerates unresolvable import_deps references.
	IgnoreUnknownDeps bool

	// IgnoreMissingSubScopes tolerates subdirectory patterns that match no
	// resolvable sub-scope.
	IgnoreMissingSubScopes bool

	// Concurrency bounds the format worker pool; 0 means one per CPU.
	Concurrency int

	LogLevel  string
	LogFormat string
}
