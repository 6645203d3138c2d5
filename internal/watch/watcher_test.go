package watch_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vk/refmt/internal/dotconfig"
	"github.com/vk/refmt/internal/resolver"
	"github.com/vk/refmt/internal/testutil"
	"github.com/vk/refmt/internal/watch"
)

func awaitEvent(t *testing.T, events <-chan string) string {
	t.Helper()
	select {
	case rel := <-events:
		return rel
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a watcher event")
		return ""
	}
}

func TestWatcher_ReportsConfigChanges(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{
		".formatter.hcl":        `subdirectories = ["apps/*"]`,
		"apps/a/.formatter.hcl": `inputs = "*.ex"`,
	})
	res := resolver.New(dotconfig.DiskSource{Dir: dir}, resolver.Options{})
	tree, err := res.Read(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w, err := watch.New(ctx, dir, tree)
	require.NoError(t, err)
	defer w.Close()

	testutil.WriteTreeAt(t, dir, map[string]string{
		"apps/a/.formatter.hcl": `inputs = ["*.ex", "*.exs"]`,
	})
	require.Equal(t, "apps/a/.formatter.hcl", awaitEvent(t, w.Events()))
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{
		".formatter.hcl": `inputs = "*.ex"`,
	})
	res := resolver.New(dotconfig.DiskSource{Dir: dir}, resolver.Options{})
	tree, err := res.Read(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w, err := watch.New(ctx, dir, tree)
	require.NoError(t, err)
	defer w.Close()

	// A source file in the watched directory is not a configuration change.
	testutil.WriteTreeAt(t, dir, map[string]string{"noise.ex": "foo\n"})
	select {
	case rel := <-w.Events():
		t.Fatalf("unexpected event for %s", rel)
	case <-time.After(250 * time.Millisecond):
	}

	// The configuration file itself still is.
	testutil.WriteTreeAt(t, dir, map[string]string{".formatter.hcl": `inputs = "*.exs"`})
	require.Equal(t, ".formatter.hcl", awaitEvent(t, w.Events()))
}

func TestWatcher_CloseEndsEventStream(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{
		".formatter.hcl": `inputs = "*.ex"`,
	})
	res := resolver.New(dotconfig.DiskSource{Dir: dir}, resolver.Options{})
	tree, err := res.Read(context.Background())
	require.NoError(t, err)

	w, err := watch.New(context.Background(), dir, tree)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, ok := <-w.Events()
	require.False(t, ok, "events channel closes with the watcher")
}
