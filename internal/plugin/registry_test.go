package plugin_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/refmt/internal/plugin"
)

type nopPlugin struct{}

func (nopPlugin) Features(opts plugin.Opts) plugin.Features { return plugin.Features{} }

func (nopPlugin) Format(text string, opts plugin.Opts) (string, error) { return text, nil }

type nopModule struct{}

func (nopModule) Register(r *plugin.Registry) { r.Register("nop", nopPlugin{}) }

func TestRegistry_RegisterAndLookup(t *testing.T) {
	t.Parallel()

	r := plugin.NewRegistry(nopModule{})

	got, ok := r.Lookup("nop")
	require.True(t, ok)
	require.IsType(t, nopPlugin{}, got)

	_, ok = r.Lookup("missing")
	require.False(t, ok)

	r.Register("other", nopPlugin{})
	require.Equal(t, []string{"nop", "other"}, r.Names())
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	t.Parallel()

	r := plugin.NewRegistry()
	r.Register("dup", nopPlugin{})
	require.Panics(t, func() { r.Register("dup", nopPlugin{}) })
}
