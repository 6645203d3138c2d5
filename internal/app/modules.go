package app

import (
	"github.com/vk/refmt/internal/plugin"
	"github.com/vk/refmt/modules/newlines"
	"github.com/vk/refmt/modules/sigiljson"
	"github.com/vk/refmt/modules/whitespace"
)

// builtinModules lists every plugin module shipped with the binary. Hosts
// embedding the library can register additional modules on top.
func builtinModules() []plugin.Module {
	return []plugin.Module{
		&newlines.Module{},
		&whitespace.Module{},
		&sigiljson.Module{},
	}
}
