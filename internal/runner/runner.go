// Package runner applies a resolved configuration tree across a batch of
// files or tracked artifacts, one concurrent task per target. It is the
// only component permitted to perform destructive writes; a per-item
// failure never aborts the batch and never cancels sibling tasks.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vk/refmt/internal/ctxlog"
	"github.com/vk/refmt/internal/dispatch"
	"github.com/vk/refmt/internal/dotconfig"
	"github.com/vk/refmt/internal/ledger"
	"github.com/vk/refmt/internal/pipeline"
	"github.com/vk/refmt/internal/project"
	"github.com/vk/refmt/internal/resolver"
)

// Options tune one batch run.
type Options struct {
	// Check compares input against output without writing anything back;
	// files that would change are reported as not formatted.
	Check bool

	// Concurrency bounds the worker pool. Zero means one worker per CPU.
	Concurrency int

	// IncludeIdentity keeps identity-formatter results in the batch.
	IncludeIdentity bool

	// Since excludes collection artifacts not modified after the cutoff.
	Since time.Time

	// By is the actor recorded on artifact updates. Defaults to "runner".
	By string
}

// Result is one successfully reformatted target.
type Result struct {
	Path    string
	Content string
}

// Failure is one target whose formatter raised an error.
type Failure struct {
	Path string
	Err  error
}

// Outcome partitions the batch into its three disjoint categories, plus the
// check-mode list of paths that would change. Aggregation order is by path;
// processing order is unspecified.
type Outcome struct {
	Formatted    []Result
	Unchanged    []string
	Failed       []Failure
	NotFormatted []string
}

// BatchError carries every per-item failure and every not-yet-formatted
// path of a run, never just the first.
type BatchError struct {
	Failures     []Failure
	NotFormatted []string
}

func (e *BatchError) Error() string {
	var parts []string
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Path, f.Err))
	}
	msg := ""
	if len(e.Failures) > 0 {
		msg = fmt.Sprintf("%d file(s) failed to format: %s", len(e.Failures), strings.Join(parts, "; "))
	}
	if len(e.NotFormatted) > 0 {
		if msg != "" {
			msg += "; "
		}
		msg += fmt.Sprintf("%d file(s) are not formatted: %s", len(e.NotFormatted), strings.Join(e.NotFormatted, ", "))
	}
	return msg
}

// Run formats every tracked artifact the tree claims, writing results back
// into the collection through artifact updates.
func Run(ctx context.Context, tree *dotconfig.Node, coll *project.Collection, opts Options) (*Outcome, error) {
	formatters, err := dispatch.Expand(tree, dispatch.ExpandOptions{
		Collection:      coll,
		Since:           opts.Since,
		IncludeIdentity: opts.IncludeIdentity,
	})
	if err != nil {
		return nil, err
	}
	read := func(path string) (string, error) {
		a, ok := coll.Get(path)
		if !ok {
			return "", fmt.Errorf("path %s is not tracked", path)
		}
		return a.Content, nil
	}
	write := func(path, content string) error {
		a, ok := coll.Get(path)
		if !ok {
			return fmt.Errorf("path %s is not tracked", path)
		}
		updated, err := a.Update(opts.by(), ledger.FieldContent, content)
		if err != nil {
			return err
		}
		return coll.Update(updated)
	}
	return run(ctx, formatters, read, write, opts)
}

// Format resolves the collection's own configuration tree and runs one
// batch over its tracked artifacts in a single call.
func Format(ctx context.Context, coll *project.Collection, resOpts resolver.Options, opts Options) (*Outcome, error) {
	tree, err := resolver.New(coll.Source(), resOpts).Read(ctx)
	if err != nil {
		return nil, err
	}
	return Run(ctx, tree, coll, opts)
}

// RunDir formats every on-disk file the tree claims under dir, writing
// changed files in place.
func RunDir(ctx context.Context, tree *dotconfig.Node, dir string, opts Options) (*Outcome, error) {
	formatters, err := dispatch.Expand(tree, dispatch.ExpandOptions{
		Dir:             dir,
		IncludeIdentity: opts.IncludeIdentity,
	})
	if err != nil {
		return nil, err
	}
	read := func(path string) (string, error) {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(path)))
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	write := func(path, content string) error {
		return os.WriteFile(filepath.Join(dir, filepath.FromSlash(path)), []byte(content), 0o644)
	}
	return run(ctx, formatters, read, write, opts)
}

func run(ctx context.Context, formatters []*pipeline.Formatter, read func(string) (string, error), write func(string, string) error, opts Options) (*Outcome, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting format batch.", "targets", len(formatters), "check", opts.Check)

	var (
		mu      sync.Mutex
		outcome Outcome
	)

	var g errgroup.Group
	g.SetLimit(opts.concurrency())
	for _, f := range formatters {
		f := f
		g.Go(func() error {
			input, err := read(f.Path)
			if err != nil {
				mu.Lock()
				outcome.Failed = append(outcome.Failed, Failure{Path: f.Path, Err: err})
				mu.Unlock()
				return nil
			}
			output, err := f.Format(input)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				outcome.Failed = append(outcome.Failed, Failure{Path: f.Path, Err: err})
			case output == input:
				outcome.Unchanged = append(outcome.Unchanged, f.Path)
			default:
				outcome.Formatted = append(outcome.Formatted, Result{Path: f.Path, Content: output})
			}
			return nil
		})
	}
	// Tasks record their own failures and never return errors, so Wait
	// cannot fail and no task cancels its siblings.
	_ = g.Wait()

	sort.Slice(outcome.Formatted, func(i, j int) bool { return outcome.Formatted[i].Path < outcome.Formatted[j].Path })
	sort.Strings(outcome.Unchanged)

	if opts.Check {
		for _, res := range outcome.Formatted {
			outcome.NotFormatted = append(outcome.NotFormatted, res.Path)
		}
	} else {
		kept := outcome.Formatted[:0]
		for _, res := range outcome.Formatted {
			if err := write(res.Path, res.Content); err != nil {
				outcome.Failed = append(outcome.Failed, Failure{Path: res.Path, Err: err})
				continue
			}
			kept = append(kept, res)
		}
		outcome.Formatted = kept
	}
	sort.Slice(outcome.Failed, func(i, j int) bool { return outcome.Failed[i].Path < outcome.Failed[j].Path })

	logger.Debug("Format batch finished.",
		"formatted", len(outcome.Formatted), "unchanged", len(outcome.Unchanged), "failed", len(outcome.Failed))

	if len(outcome.Failed) > 0 || len(outcome.NotFormatted) > 0 {
		return &outcome, &BatchError{Failures: outcome.Failed, NotFormatted: outcome.NotFormatted}
	}
	return &outcome, nil
}

func (o Options) concurrency() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}
	return runtime.NumCPU()
}

func (o Options) by() string {
	if o.By != "" {
		return o.By
	}
	return "runner"
}
