package glob_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/refmt/internal/glob"
	"github.com/vk/refmt/internal/testutil"
)

func TestCompile_AnchorsToBase(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		pattern  string
		base     string
		match    []string
		mismatch []string
	}{
		{
			name:     "root scope pattern",
			pattern:  "a.ex",
			base:     "",
			match:    []string{"a.ex"},
			mismatch: []string{"lib/a.ex", "b.ex"},
		},
		{
			name:     "sub scope pattern is joined to its base",
			pattern:  "a.ex",
			base:     "lib",
			match:    []string{"lib/a.ex"},
			mismatch: []string{"a.ex", "priv/a.ex"},
		},
		{
			name:     "doublestar spans directories",
			pattern:  "**/*.ex",
			base:     "lib",
			match:    []string{"lib/a.ex", "lib/deep/nested/b.ex"},
			mismatch: []string{"priv/a.ex"},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c, err := glob.Compile(tc.pattern, tc.base)
			require.NoError(t, err)
			for _, p := range tc.match {
				require.True(t, c.Match(p), "expected %q to match %q", c.Pattern(), p)
			}
			for _, p := range tc.mismatch {
				require.False(t, c.Match(p), "expected %q not to match %q", c.Pattern(), p)
			}
		})
	}
}

func TestCompile_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := glob.Compile("[", "")
	require.Error(t, err)

	_, err = glob.Compile("", "lib")
	require.Error(t, err)
}

func TestListFilesAndDirs(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{
		"a.ex":       "",
		"lib/b.ex":   "",
		"lib/c.txt":  "",
		"priv/d.ex":  "",
		"lib/sub/.x": "",
	})

	c, err := glob.Compile("**/*.ex", "")
	require.NoError(t, err)
	files, err := c.ListFiles(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"a.ex", "lib/b.ex", "priv/d.ex"}, files)

	d, err := glob.Compile("*", "")
	require.NoError(t, err)
	dirs, err := d.ListDirs(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"lib", "priv"}, dirs)
}

func TestList_MissingDir(t *testing.T) {
	t.Parallel()

	c, err := glob.Compile("*.ex", "")
	require.NoError(t, err)
	files, err := c.ListFiles("does/not/exist")
	require.NoError(t, err)
	require.Empty(t, files)
}
