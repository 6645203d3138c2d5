package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/refmt/internal/cli"
)

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	cfg, exit, err := cli.Parse(nil, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, ".", cfg.Dir)
	assert.False(t, cfg.Check)
	assert.False(t, cfg.Watch)
	assert.Equal(t, 0, cfg.Concurrency)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestParse_Flags(t *testing.T) {
	t.Parallel()

	cfg, exit, err := cli.Parse([]string{
		"-check", "-watch", "-include-identity",
		"-ignore-unknown-deps", "-ignore-missing-subs",
		"-concurrency", "4", "-log-level", "debug", "-log-format", "json",
		"/tmp/project",
	}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "/tmp/project", cfg.Dir)
	assert.True(t, cfg.Check)
	assert.True(t, cfg.Watch)
	assert.True(t, cfg.IncludeIdentity)
	assert.True(t, cfg.IgnoreUnknownDeps)
	assert.True(t, cfg.IgnoreMissingSubScopes)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestParse_DirFlag(t *testing.T) {
	t.Parallel()

	cfg, _, err := cli.Parse([]string{"-dir", "/tmp/project"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/project", cfg.Dir)
}

func TestParse_Help(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cfg, exit, err := cli.Parse([]string{"-help"}, &out)
	require.NoError(t, err)
	require.True(t, exit)
	require.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"-bogus"}},
		{name: "dir flag and positional", args: []string{"-dir", "a", "b"}},
		{name: "two positionals", args: []string{"a", "b"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := cli.Parse(tc.args, &bytes.Buffer{})
			var exitErr *cli.ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}
