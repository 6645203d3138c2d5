// Package cli parses command-line arguments into an app configuration.
package cli

import (
	"flag"
	"fmt"
	"io"

	"github.com/vk/refmt/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app
// config, a boolean indicating if the program should exit cleanly, or an
// ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("refmt", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
refmt - a hierarchical, plugin-driven code formatter.

Usage:
  refmt [options] [PROJECT_DIR]

Arguments:
  PROJECT_DIR
    Directory containing the top-level .formatter.hcl. Defaults to ".".

Options:
`)
		flagSet.PrintDefaults()
	}

	dirFlag := flagSet.String("dir", "", "Project directory (same as the positional argument).")
	checkFlag := flagSet.Bool("check", false, "Report files that would change without rewriting them.")
	watchFlag := flagSet.Bool("watch", false, "Re-run whenever a configuration file changes.")
	includeIdentityFlag := flagSet.Bool("include-identity", false, "Keep files no formatter claims in batch output.")
	ignoreDepsFlag := flagSet.Bool("ignore-unknown-deps", false, "Tolerate unresolvable import_deps references.")
	ignoreSubsFlag := flagSet.Bool("ignore-missing-subs", false, "Tolerate subdirectory patterns with no resolvable sub-scope.")
	concurrencyFlag := flagSet.Int("concurrency", 0, "Worker pool size. 0 uses one worker per CPU.")
	logLevelFlag := flagSet.String("log-level", "info", "Log level: debug, info, warn, or error.")
	logFormatFlag := flagSet.String("log-format", "text", "Log format: text or json.")
	helpFlag := flagSet.Bool("help", false, "Show this help message.")

	if err := flagSet.Parse(args); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if *helpFlag {
		flagSet.Usage()
		return nil, true, nil
	}

	dir := *dirFlag
	switch flagSet.NArg() {
	case 0:
	case 1:
		if dir != "" {
			return nil, false, &ExitError{Code: 2, Message: "both -dir and a positional directory were given"}
		}
		dir = flagSet.Arg(0)
	default:
		return nil, false, &ExitError{Code: 2, Message: "at most one project directory may be given"}
	}
	if dir == "" {
		dir = "."
	}

	return &app.Config{
		Dir:                    dir,
		Check:                  *checkFlag,
		Watch:                  *watchFlag,
		IncludeIdentity:        *includeIdentityFlag,
		IgnoreUnknownDeps:      *ignoreDepsFlag,
		IgnoreMissingSubScopes: *ignoreSubsFlag,
		Concurrency:            *concurrencyFlag,
		LogLevel:               *logLevelFlag,
		LogFormat:              *logFormatFlag,
	}, false, nil
}
