// Package scripting embeds the JavaScript interpreter that hosts submission
// and plugin code. Every loaded source unit gets its own VM: plugins share
// nothing with each other, and a runaway script is stopped by interrupting
// its VM rather than by killing the process.
package scripting

import (
	"fmt"
	"os"
	"reflect"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"
)

// ConsoleFunc receives console output produced by a loaded module. Level is
// one of "log", "warn", "error".
type ConsoleFunc func(level, message string)

// Options configure module loading.
type Options struct {
	// Console receives console.* output. Nil discards it.
	Console ConsoleFunc
	// Globals are installed into the VM before the module source runs.
	Globals map[string]any
}

// Module is one source unit loaded into its own VM. A Module is not safe
// for concurrent use except for Interrupt, which may be called from any
// goroutine.
type Module struct {
	name string
	vm   *goja.Runtime
}

// Compile parses and compiles src in strict mode without executing it.
func Compile(name, src string) (*goja.Program, error) {
	prg, err := goja.Compile(name, src, true)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return prg, nil
}

// Load compiles and executes src in a fresh VM. The VM has the console
// module wired to opts.Console and a require() that resolves registered
// native modules only; source modules never load from disk, so a plugin
// cannot pull in code beyond its own file.
func Load(name, src string, opts Options) (m *Module, err error) {
	prg, err := Compile(name, src)
	if err != nil {
		return nil, err
	}
	vm := goja.New()
	registry := require.NewRegistry(require.WithLoader(rejectSourceModules))
	registry.RegisterNativeModule(console.ModuleName, console.RequireWithPrinter(printer{sink: opts.Console}))
	registry.Enable(vm)
	console.Enable(vm)
	for k, v := range opts.Globals {
		if setErr := vm.Set(k, v); setErr != nil {
			return nil, fmt.Errorf("load %s: set global %q: %w", name, k, setErr)
		}
	}
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("load %s: panic: %v", name, r)
		}
	}()
	if _, runErr := vm.RunProgram(prg); runErr != nil {
		return nil, fmt.Errorf("load %s: %w", name, runErr)
	}
	return &Module{name: name, vm: vm}, nil
}

// LoadFile reads path and loads its contents under the file's name.
func LoadFile(path string, opts Options) (*Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return Load(path, string(src), opts)
}

// rejectSourceModules is the require() source loader: every file lookup
// fails, leaving only registered native modules resolvable.
func rejectSourceModules(string) ([]byte, error) {
	return nil, require.ModuleFileDoesNotExistError
}

// printer adapts a ConsoleFunc to the console module's Printer.
type printer struct {
	sink ConsoleFunc
}

func (p printer) Log(s string)   { p.emit("log", s) }
func (p printer) Warn(s string)  { p.emit("warn", s) }
func (p printer) Error(s string) { p.emit("error", s) }

func (p printer) emit(level, message string) {
	if p.sink != nil {
		p.sink(level, message)
	}
}

// Name returns the name the module was loaded under.
func (m *Module) Name() string { return m.name }

// VM exposes the underlying runtime for API installation.
func (m *Module) VM() *goja.Runtime { return m.vm }

// Get returns the module-level binding for symbol. Both globals (var,
// function declarations) and top-level lexical bindings (const, let)
// resolve. The second result is false for missing, null and undefined
// bindings.
func (m *Module) Get(symbol string) (goja.Value, bool) {
	v := m.vm.Get(symbol)
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, false
	}
	return v, true
}

// Has reports whether symbol is bound to a non-null value.
func (m *Module) Has(symbol string) bool {
	_, ok := m.Get(symbol)
	return ok
}

// Callable returns the symbol as a callable function.
func (m *Module) Callable(symbol string) (goja.Callable, bool) {
	v, ok := m.Get(symbol)
	if !ok {
		return nil, false
	}
	return goja.AssertFunction(v)
}

// ExportString returns the symbol's value when it is a JS string.
func (m *Module) ExportString(symbol string) (string, bool) {
	v, ok := m.Get(symbol)
	if !ok {
		return "", false
	}
	if t := v.ExportType(); t == nil || t.Kind() != reflect.String {
		return "", false
	}
	return v.String(), true
}

// Call invokes fn with args converted into VM values. Interpreter panics
// are contained and returned as errors; JS exceptions and interrupts come
// back unwrapped for the caller to classify.
func (m *Module) Call(fn goja.Callable, args ...any) (v goja.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("%s: panic: %v", m.name, r)
		}
	}()
	values := make([]goja.Value, len(args))
	for i, a := range args {
		values[i] = m.vm.ToValue(a)
	}
	return fn(goja.Undefined(), values...)
}

// CallSymbol resolves symbol and calls it.
func (m *Module) CallSymbol(symbol string, args ...any) (goja.Value, error) {
	fn, ok := m.Callable(symbol)
	if !ok {
		return nil, &MissingSymbolError{Module: m.name, Symbol: symbol}
	}
	return m.Call(fn, args...)
}

// Interrupt stops JS execution in flight. Safe from any goroutine; the
// running call returns a *goja.InterruptedError carrying reason.
func (m *Module) Interrupt(reason any) {
	m.vm.Interrupt(reason)
}

// ClearInterrupt re-arms the VM after an interrupt, allowing further calls.
func (m *Module) ClearInterrupt() {
	m.vm.ClearInterrupt()
}
