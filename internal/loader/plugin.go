package loader

import (
	"fmt"
	"plugin"
)

// pluginModule adapts *plugin.Plugin to the Module interface.
type pluginModule struct {
	p *plugin.Plugin
}

func (m pluginModule) Lookup(symbol string) (any, error) {
	sym, err := m.p.Lookup(symbol)
	if err != nil {
		return nil, err
	}
	return sym, nil
}

// PluginOpener loads Go plugins (.so files built with -buildmode=plugin)
// through the standard library plugin package.
type PluginOpener struct{}

// Open implements [Opener].
func (PluginOpener) Open(path string) (Module, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening plugin %q: %w", path, err)
	}
	return pluginModule{p: p}, nil
}
