package plugin

import (
	"fmt"

	"github.com/dop251/goja"
)

// Validator is a content-aware admission rule over one candidate. A nil
// error accepts; a non-nil error demotes the candidate to invalid and is
// recorded as the rejection reason. Validators never abort a scan.
type Validator interface {
	Name() string
	Description() string
	Validate(p *Plugin) error
}

type validator struct {
	name        string
	description string
	check       func(p *Plugin) error
}

func (v *validator) Name() string        { return v.name }
func (v *validator) Description() string { return v.description }

func (v *validator) Validate(p *Plugin) error {
	return v.check(p)
}

// NewValidator builds a validator from a name, a description, and a check.
func NewValidator(name, description string, check func(p *Plugin) error) Validator {
	return &validator{name: name, description: description, check: check}
}

// Loadable verifies the candidate's source loads without a load-time error.
func Loadable() Validator {
	return NewValidator("loadable", "module source compiles and executes", func(p *Plugin) error {
		return p.Load()
	})
}

// HasSymbol verifies the loaded module binds symbol.
func HasSymbol(symbol string) Validator {
	return NewValidator("symbol:"+symbol,
		fmt.Sprintf("module binds %q", symbol),
		func(p *Plugin) error {
			if err := p.Load(); err != nil {
				return err
			}
			if !p.Has(symbol) {
				return fmt.Errorf("symbol %q is not defined", symbol)
			}
			return nil
		})
}

// CallableSymbol verifies symbol resolves to a function.
func CallableSymbol(symbol string) Validator {
	return NewValidator("callable:"+symbol,
		fmt.Sprintf("module binds function %q", symbol),
		func(p *Plugin) error {
			if err := p.Load(); err != nil {
				return err
			}
			if _, ok := p.Callable(symbol); !ok {
				return fmt.Errorf("symbol %q is missing or not a function", symbol)
			}
			return nil
		})
}

// StringSymbol verifies symbol is a string of at least minLen characters.
func StringSymbol(symbol string, minLen int) Validator {
	return NewValidator("string:"+symbol,
		fmt.Sprintf("module binds string %q of at least %d characters", symbol, minLen),
		func(p *Plugin) error {
			if err := p.Load(); err != nil {
				return err
			}
			s, ok := p.ExportString(symbol)
			if !ok {
				return fmt.Errorf("symbol %q is missing or not a string", symbol)
			}
			if len(s) < minLen {
				return fmt.Errorf("symbol %q has %d characters, need at least %d", symbol, len(s), minLen)
			}
			return nil
		})
}

// Probe verifies that calling the zero-argument accessor succeeds and that
// check accepts the returned value. The accessor must be pure: extraction
// calls it again on the same cached module.
func Probe(accessor string, check func(p *Plugin, v goja.Value) error) Validator {
	return NewValidator("probe:"+accessor,
		fmt.Sprintf("calling %q returns a well-formed descriptor", accessor),
		func(p *Plugin) error {
			if err := p.Load(); err != nil {
				return err
			}
			v, err := p.CallSymbol(accessor)
			if err != nil {
				return fmt.Errorf("calling %q: %w", accessor, err)
			}
			return check(p, v)
		})
}
