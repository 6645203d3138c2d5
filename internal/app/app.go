// Package app wires the resolver, dispatcher and runner into a runnable
// host: it builds the logger and plugin registry, resolves the project's
// configuration tree and drives format batches, optionally re-running on
// configuration changes.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/refmt/internal/ctxlog"
	"github.com/vk/refmt/internal/dotconfig"
	"github.com/vk/refmt/internal/plugin"
	"github.com/vk/refmt/internal/resolver"
	"github.com/vk/refmt/internal/runner"
	"github.com/vk/refmt/internal/watch"
)

// App is one configured application instance.
type App struct {
	out      io.Writer
	cfg      *Config
	logger   *slog.Logger
	registry *plugin.Registry
}

// New creates an application instance. Shipped plugin modules are always
// registered; extra modules come from embedding hosts.
func New(out io.Writer, cfg *Config, extra ...plugin.Module) *App {
	registry := plugin.NewRegistry(builtinModules()...)
	for _, m := range extra {
		m.Register(registry)
	}
	return &App{
		out:      out,
		cfg:      cfg,
		logger:   newLogger(cfg.LogLevel, cfg.LogFormat, out),
		registry: registry,
	}
}

// Run resolves the configuration tree and executes one format batch. With
// Watch set it then re-resolves and re-runs on every configuration change
// until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	res := resolver.New(dotconfig.DiskSource{Dir: a.cfg.Dir}, resolver.Options{
		Registry:               a.registry,
		IgnoreUnknownDeps:      a.cfg.IgnoreUnknownDeps,
		IgnoreMissingSubScopes: a.cfg.IgnoreMissingSubScopes,
	})
	tree, err := res.Read(ctx)
	if err != nil {
		return err
	}

	runErr := a.runBatch(ctx, tree)
	if !a.cfg.Watch {
		return runErr
	}

	watcher, err := watch.New(ctx, a.cfg.Dir, tree)
	if err != nil {
		return err
	}
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case changed, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			a.logger.Info("Configuration changed, re-running.", "config", changed)
			// Keep the last good tree when re-resolution fails, so a
			// config saved mid-edit does not take the loop down.
			newTree, err := res.Update(ctx, tree)
			if err != nil {
				fmt.Fprintf(a.out, "config error: %v\n", err)
				continue
			}
			tree = newTree
			if err := a.runBatch(ctx, tree); err != nil {
				fmt.Fprintf(a.out, "format error: %v\n", err)
			}
		}
	}
}

func (a *App) runBatch(ctx context.Context, tree *dotconfig.Node) error {
	outcome, err := runner.RunDir(ctx, tree, a.cfg.Dir, runner.Options{
		Check:           a.cfg.Check,
		Concurrency:     a.cfg.Concurrency,
		IncludeIdentity: a.cfg.IncludeIdentity,
	})
	if outcome != nil {
		a.render(outcome)
	}
	return err
}

func (a *App) render(outcome *runner.Outcome) {
	for _, res := range outcome.Formatted {
		fmt.Fprintf(a.out, "formatted %s\n", res.Path)
	}
	for _, path := range outcome.NotFormatted {
		fmt.Fprintf(a.out, "not formatted %s\n", path)
	}
	for _, failure := range outcome.Failed {
		fmt.Fprintf(a.out, "failed %s: %v\n", failure.Path, failure.Err)
	}
	fmt.Fprintf(a.out, "%d formatted, %d unchanged, %d failed\n",
		len(outcome.Formatted), len(outcome.Unchanged), len(outcome.Failed))
}
