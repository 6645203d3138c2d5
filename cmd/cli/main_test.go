package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/refmt/internal/cli"
	"github.com/vk/refmt/internal/testutil"
)

func TestRun_Help(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, []string{"-help"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
}

func TestRun_BadFlag(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, []string{"-bogus"})
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestRun_FormatsProject(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		".formatter.hcl": `
inputs = "*.md"
plugins = ["newlines"]
`,
		"a.md": "one\n\n\ntwo\n",
	})

	var out bytes.Buffer
	err := run(&out, []string{dir})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "formatted a.md")
}
