package plugin

import (
	"errors"
)

// ErrNoValidPlugins marks a complete scan that produced an empty valid set.
// Running with zero plugins of any required kind is a configuration error,
// not a degraded mode.
var ErrNoValidPlugins = errors.New("no valid plugins found")

// MaxPluginSize is the size ceiling applied to submission program files.
const MaxPluginSize = 100 << 10
