package plugin_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/refmt/internal/plugin"
)

func optsWithLocals(locals ...plugin.Local) plugin.Opts {
	return plugin.Opts{"locals_without_parens": locals}
}

func TestBase_Format(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		input  string
		locals []plugin.Local
		want   string
	}{
		{
			name:   "locals without parens keep space application",
			input:  "foo bar baz\n",
			locals: []plugin.Local{{Name: "foo", Arity: 1}},
			want:   "foo bar(baz)\n",
		},
		{
			name:  "no locals parenthesizes everything",
			input: "foo bar baz\n",
			want:  "foo(bar(baz))\n",
		},
		{
			name:   "already formatted input is unchanged",
			input:  "foo bar(baz)\n",
			locals: []plugin.Local{{Name: "foo", Arity: 1}},
			want:   "foo bar(baz)\n",
		},
		{
			name:  "single token lines are left alone",
			input: "foo\n\nbar\n",
			want:  "foo\n\nbar\n",
		},
		{
			name:   "indentation is preserved",
			input:  "  foo bar\n",
			locals: []plugin.Local{{Name: "foo", Arity: 1}},
			want:   "  foo bar\n",
		},
		{
			name:  "missing trailing newline stays missing",
			input: "foo bar",
			want:  "foo(bar)",
		},
	}

	base := plugin.NewBase()
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := base.Format(tc.input, optsWithLocals(tc.locals...))
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestBase_FormatIsIdempotent(t *testing.T) {
	t.Parallel()

	base := plugin.NewBase()
	opts := optsWithLocals(plugin.Local{Name: "foo", Arity: 1})

	once, err := base.Format("foo bar baz\n", opts)
	require.NoError(t, err)
	twice, err := base.Format(once, opts)
	require.NoError(t, err)
	require.Equal(t, once, twice)
}

func TestBase_ParseRenderRoundTrip(t *testing.T) {
	t.Parallel()

	base := plugin.NewBase()
	opts := optsWithLocals(plugin.Local{Name: "foo", Arity: 1})

	value, err := base.Parse("foo bar(baz)\n", opts)
	require.NoError(t, err)
	terms, ok := value.([]*plugin.Term)
	require.True(t, ok)
	require.Len(t, terms, 1)
	require.Equal(t, "foo", terms[0].Name)

	text, err := base.RenderAST(value, opts)
	require.NoError(t, err)
	require.Equal(t, "foo bar(baz)\n", text)
}

func TestBase_RenderAST(t *testing.T) {
	t.Parallel()

	base := plugin.NewBase()

	text, err := base.RenderAST(&plugin.Term{Name: "foo", Args: []*plugin.Term{{Name: "bar"}}}, nil)
	require.NoError(t, err)
	require.Equal(t, "foo(bar)\n", text)

	text, err = base.RenderAST(plugin.Sigil{Marker: "W", Content: "a b c", Modifiers: "s"}, nil)
	require.NoError(t, err)
	require.Equal(t, "~W(a b c)s", text)

	_, err = base.RenderAST(42, nil)
	require.Error(t, err)
}

func TestBase_Claims(t *testing.T) {
	t.Parallel()

	base := plugin.NewBase()
	require.True(t, base.Claims(".ex"))
	require.True(t, base.Claims(".exs"))
	require.False(t, base.Claims(".md"))
}
