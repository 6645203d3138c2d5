package project_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vk/refmt/internal/glob"
	"github.com/vk/refmt/internal/ledger"
	"github.com/vk/refmt/internal/project"
	"github.com/vk/refmt/internal/testutil"
)

func TestCollection_AddGetRemove(t *testing.T) {
	t.Parallel()

	c := project.New("")
	a := ledger.FromText("lib/a.ex", "a\n")
	require.NoError(t, c.Add(a))

	got, ok := c.Get("lib/a.ex")
	require.True(t, ok)
	require.Same(t, a, got)

	err := c.Add(ledger.FromText("lib/a.ex", "other\n"))
	var dup *project.DuplicatePathError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "lib/a.ex", dup.Path)

	require.Error(t, c.Add(ledger.FromText("", "detached\n")))

	require.True(t, c.Remove("lib/a.ex"))
	require.False(t, c.Remove("lib/a.ex"))
	require.Zero(t, c.Len())
}

func TestCollection_UpdateFollowsMove(t *testing.T) {
	t.Parallel()

	c := project.New("")
	a := ledger.FromText("old.ex", "body\n")
	require.NoError(t, c.Add(a))

	moved, err := a.Update("test", ledger.FieldPath, "new.ex")
	require.NoError(t, err)
	require.NoError(t, c.Update(moved))

	require.Equal(t, []string{"new.ex"}, c.Paths())
	got, ok := c.Get("new.ex")
	require.True(t, ok)
	require.Equal(t, a.ID, got.ID)
}

func TestCollection_ModifiedSince(t *testing.T) {
	t.Parallel()

	c := project.New("")
	before := ledger.FromText("a.ex", "a\n")
	require.NoError(t, c.Add(before))

	cutoff := time.Now()
	after, err := ledger.FromText("b.ex", "b\n").Update("test", ledger.FieldContent, "b!\n")
	require.NoError(t, err)
	require.NoError(t, c.Add(after))

	modified := c.ModifiedSince(cutoff)
	require.Len(t, modified, 1)
	require.Equal(t, "b.ex", modified[0].Path)

	// A zero cutoff returns everything.
	require.Len(t, c.ModifiedSince(time.Time{}), 2)
}

func TestCollection_WriteAll(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{"a.ex": "a\n", "b.ex": "b\n"})
	c := project.New(dir)

	a, err := ledger.ReadFile(dir, "a.ex")
	require.NoError(t, err)
	a, err = a.Update("test", ledger.FieldContent, "a!\n")
	require.NoError(t, err)
	require.NoError(t, c.Add(a))

	b, err := ledger.ReadFile(dir, "b.ex")
	require.NoError(t, err)
	require.NoError(t, c.Add(b))

	require.NoError(t, c.WriteAll(false))

	// The written artifact was replaced by its fresh baseline in place.
	got, ok := c.Get("a.ex")
	require.True(t, ok)
	require.Equal(t, 1, got.Version())
	require.Equal(t, "a!\n", got.Content)
}

func TestSource_PrefersTrackedContent(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{
		".formatter.hcl": `inputs = "disk.ex"`,
		"on_disk.txt":    "disk only\n",
	})
	c := project.New(dir)
	require.NoError(t, c.Add(ledger.FromText(".formatter.hcl", `inputs = "tracked.ex"`)))

	src := c.Source()
	text, _, err := src.Read(".formatter.hcl")
	require.NoError(t, err)
	require.Equal(t, `inputs = "tracked.ex"`, text)

	text, _, err = src.Read("on_disk.txt")
	require.NoError(t, err)
	require.Equal(t, "disk only\n", text)
}

func TestSource_DirsUnionsTrackedAncestors(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{"apps/disk_app/x.ex": ""})
	c := project.New(dir)
	require.NoError(t, c.Add(ledger.FromText("apps/mem_app/.formatter.hcl", `inputs = "*.ex"`)))

	pattern, err := glob.Compile("apps/*", "")
	require.NoError(t, err)

	src := c.Source()
	dirs, err := src.Dirs(pattern)
	require.NoError(t, err)
	require.Equal(t, []string{"apps/disk_app", "apps/mem_app"}, dirs)
}

func TestSource_DirsInMemoryOnly(t *testing.T) {
	t.Parallel()

	c := project.New("")
	require.NoError(t, c.Add(ledger.FromText("apps/one/.formatter.hcl", "")))
	require.NoError(t, c.Add(ledger.FromText("apps/two/.formatter.hcl", "")))

	pattern, err := glob.Compile("apps/*", "")
	require.NoError(t, err)

	dirs, err := c.Source().Dirs(pattern)
	require.NoError(t, err)
	require.Equal(t, []string{"apps/one", "apps/two"}, dirs)
}
