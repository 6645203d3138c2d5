package whitespace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/refmt/modules/whitespace"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	p := &whitespace.Plugin{}

	got, err := p.Format("a  \nb\t\nc\n", nil)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", got)

	got, err = p.Format("clean\n", nil)
	require.NoError(t, err)
	assert.Equal(t, "clean\n", got)
}
