// Package visual defines the hook a live-visualization consumer implements.
// No renderer ships with dprobot; the runtime accepts an Observer handle and
// a nil handle disables notifications.
package visual

import (
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/event"
)

// Observer receives world change notifications, each fired after the
// interaction that caused it completes.
type Observer interface {
	WorldChanged(event.WorldChanged)
	ActorChanged(event.ActorChanged)
	PositionChanged(event.PositionChanged)
	MarkChanged(event.MarkChanged)
}

// Bridge adapts an Observer to the event bus. Events outside the four
// notification kinds pass through it silently.
type Bridge struct {
	observer Observer
}

// NewBridge wraps an observer. A nil observer yields an inert bridge.
func NewBridge(observer Observer) *Bridge {
	return &Bridge{observer: observer}
}

// HandleEvent implements event.Handler.
func (b *Bridge) HandleEvent(e event.Event) {
	if b.observer == nil {
		return
	}
	switch ev := e.(type) {
	case event.WorldChanged:
		b.observer.WorldChanged(ev)
	case event.ActorChanged:
		b.observer.ActorChanged(ev)
	case event.PositionChanged:
		b.observer.PositionChanged(ev)
	case event.MarkChanged:
		b.observer.MarkChanged(ev)
	}
}
