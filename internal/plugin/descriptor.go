package plugin

import (
	"fmt"
	"math"

	"github.com/dop251/goja"
)

// Descriptor values cross the JS boundary via goja's Export: plain objects
// become map[string]any, arrays []any, integral numbers int64, other
// numbers float64. The helpers below normalize that surface.

func exportedObject(v goja.Value) (map[string]any, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, fmt.Errorf("descriptor is missing")
	}
	m, ok := v.Export().(map[string]any)
	if !ok {
		return nil, fmt.Errorf("descriptor is not an object")
	}
	return m, nil
}

func stringField(m map[string]any, key string) (string, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return "", fmt.Errorf("field %q is missing", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("field %q is not a string", key)
	}
	return s, nil
}

func optionalStringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func intField(m map[string]any, key string) (int, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return 0, fmt.Errorf("field %q is missing", key)
	}
	return toInt(raw, key)
}

func toInt(raw any, key string) (int, error) {
	switch n := raw.(type) {
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("field %q is not an integer", key)
		}
		return int(n), nil
	case int:
		return n, nil
	}
	return 0, fmt.Errorf("field %q is not a number", key)
}

func listField(m map[string]any, key string) ([]any, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("field %q is not an array", key)
	}
	return list, nil
}
