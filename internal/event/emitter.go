package event

// Handler consumes events delivered by an Emitter. An Emitter delivers every
// event to every registered handler; handlers filter for themselves.
type Handler interface {
	HandleEvent(Event)
}

// Func adapts fn to the Handler interface. Each call returns a distinct
// handler identity, so keep the returned value if you need to deregister it.
func Func(fn func(Event)) Handler {
	return &funcHandler{fn: fn}
}

type funcHandler struct {
	fn func(Event)
}

func (h *funcHandler) HandleEvent(ev Event) { h.fn(ev) }

// Emitter is an insertion-ordered synchronous event dispatcher. Registration
// is set-like: registering an already registered handler is a no-op and the
// original position is kept.
//
// An Emitter is not safe for concurrent use. It belongs to the goroutine
// driving its owning component; during a trial that is the trial worker.
type Emitter struct {
	handlers []Handler
}

// NewEmitter returns an empty Emitter. The zero value is also usable.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Register appends h to the delivery order unless it is already present.
func (e *Emitter) Register(h Handler) {
	if h == nil || e.Registered(h) {
		return
	}
	e.handlers = append(e.handlers, h)
}

// Deregister removes h. Removing an unknown handler is a no-op.
func (e *Emitter) Deregister(h Handler) {
	for i, reg := range e.handlers {
		if reg == h {
			e.handlers = append(e.handlers[:i], e.handlers[i+1:]...)
			return
		}
	}
}

// Registered reports whether h is currently subscribed.
func (e *Emitter) Registered(h Handler) bool {
	for _, reg := range e.handlers {
		if reg == h {
			return true
		}
	}
	return false
}

// Len returns the number of registered handlers.
func (e *Emitter) Len() int {
	return len(e.handlers)
}

// NotifyAll delivers ev to every handler in registration order. Delivery
// iterates a snapshot, so a handler may deregister itself (or others) while
// handling an event; handlers removed mid-delivery are skipped rather than
// called on a stale subscription.
func (e *Emitter) NotifyAll(ev Event) {
	if len(e.handlers) == 0 {
		return
	}
	snapshot := make([]Handler, len(e.handlers))
	copy(snapshot, e.handlers)
	for _, h := range snapshot {
		if !e.Registered(h) {
			continue
		}
		h.HandleEvent(ev)
	}
}
