package plugin

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dop251/goja"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/scripting"
)

// Plugin wraps one candidate file. The module behind it loads lazily: the
// first introspection call reads and executes the source in its own VM, and
// the result, or the failure, is cached for the plugin's lifetime.
type Plugin struct {
	path    string
	name    string
	console scripting.ConsoleFunc
	loaded  bool
	source  string
	module  *scripting.Module
	loadErr error
}

// NewPlugin returns an unloaded plugin for path. Console output produced
// while the plugin's module runs goes to console; nil discards it.
func NewPlugin(path string, console scripting.ConsoleFunc) *Plugin {
	return &Plugin{path: path, name: filepath.Base(path), console: console}
}

// Path returns the plugin file path.
func (p *Plugin) Path() string { return p.path }

// Name returns the plugin file base name.
func (p *Plugin) Name() string { return p.name }

// Load reads and executes the plugin source, once. Subsequent calls return
// the cached outcome.
func (p *Plugin) Load() error {
	if p.loaded {
		return p.loadErr
	}
	p.loaded = true
	src, err := os.ReadFile(p.path)
	if err != nil {
		p.loadErr = fmt.Errorf("plugin %s: %w", p.name, err)
		return p.loadErr
	}
	p.source = string(src)
	p.module, p.loadErr = scripting.Load(p.name, p.source, scripting.Options{Console: p.console})
	return p.loadErr
}

// Source returns the plugin source text, loading the file if needed.
func (p *Plugin) Source() (string, error) {
	if err := p.Load(); err != nil && p.source == "" {
		return "", err
	}
	return p.source, nil
}

// Module returns the loaded module.
func (p *Plugin) Module() (*scripting.Module, error) {
	if err := p.Load(); err != nil {
		return nil, err
	}
	return p.module, nil
}

// Has reports whether the loaded module binds symbol. False when the module
// fails to load.
func (p *Plugin) Has(symbol string) bool {
	m, err := p.Module()
	if err != nil {
		return false
	}
	return m.Has(symbol)
}

// Callable returns the named module function.
func (p *Plugin) Callable(symbol string) (goja.Callable, bool) {
	m, err := p.Module()
	if err != nil {
		return nil, false
	}
	return m.Callable(symbol)
}

// ExportString returns the named module string binding.
func (p *Plugin) ExportString(symbol string) (string, bool) {
	m, err := p.Module()
	if err != nil {
		return "", false
	}
	return m.ExportString(symbol)
}

// CallSymbol calls the named module function with args.
func (p *Plugin) CallSymbol(symbol string, args ...any) (goja.Value, error) {
	m, err := p.Module()
	if err != nil {
		return nil, err
	}
	return m.CallSymbol(symbol, args...)
}
