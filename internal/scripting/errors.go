package scripting

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
)

// MissingSymbolError reports a module symbol that is absent or not callable.
type MissingSymbolError struct {
	Module string
	Symbol string
}

func (e *MissingSymbolError) Error() string {
	return fmt.Sprintf("%s: symbol %q is missing or not callable", e.Module, e.Symbol)
}

// JSError is the classified form of a failure raised by module code. Kind
// names the JS error constructor ("TypeError", "RangeError", ...) where one
// is identifiable, or a coarse class otherwise.
type JSError struct {
	Kind    string
	Message string
	Stack   string
}

func (e *JSError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Describe classifies err into a JSError. It understands goja exceptions
// (including the thrown value's constructor name), interrupts, and plain Go
// errors.
func Describe(err error) *JSError {
	if err == nil {
		return nil
	}
	var ex *goja.Exception
	if errors.As(err, &ex) {
		out := &JSError{Kind: "Error", Message: err.Error(), Stack: ex.String()}
		val := ex.Value()
		if obj, ok := val.(*goja.Object); ok && obj != nil {
			if name := obj.Get("name"); name != nil && !goja.IsUndefined(name) {
				out.Kind = name.String()
			}
			if msg := obj.Get("message"); msg != nil && !goja.IsUndefined(msg) {
				out.Message = msg.String()
			}
		} else if val != nil {
			out.Kind = "Throw"
			out.Message = val.String()
		}
		return out
	}
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return &JSError{
			Kind:    "Interrupted",
			Message: fmt.Sprint(interrupted.Value()),
			Stack:   interrupted.String(),
		}
	}
	return &JSError{Kind: "GoError", Message: err.Error()}
}
