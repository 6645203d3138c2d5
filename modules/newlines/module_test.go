package newlines_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/refmt/modules/newlines"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "collapses blank runs", input: "a\n\n\n\nb\n", want: "a\n\nb\n"},
		{name: "adds trailing newline", input: "a", want: "a\n"},
		{name: "trims extra trailing newlines", input: "a\n\n\n", want: "a\n"},
		{name: "whitespace-only lines count as blank", input: "a\n \t\n\nb\n", want: "a\n\nb\n"},
		{name: "already normalized", input: "a\n\nb\n", want: "a\n\nb\n"},
	}

	p := &newlines.Plugin{}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := p.Format(tc.input, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
