package interaction

// Handler executes interactions of exactly one kind.
type Handler interface {
	// Kind returns the single interaction kind this handler accepts.
	Kind() string
	// Execute performs the interaction and returns its result value.
	Execute(ia *Interaction) (any, error)
}

// HandlerManager routes interactions to the handler registered for their
// kind. At most one handler may cover a kind; a second registration fails
// rather than silently replacing the first.
type HandlerManager struct {
	handlers map[string]Handler
	order    []string
}

// NewHandlerManager returns an empty manager.
func NewHandlerManager() *HandlerManager {
	return &HandlerManager{handlers: make(map[string]Handler)}
}

// Register adds h, failing with a DuplicateHandlerError when its kind is
// already covered.
func (m *HandlerManager) Register(h Handler) error {
	if h == nil {
		return ErrNilHandler
	}
	kind := h.Kind()
	if kind == "" {
		return ErrEmptyKind
	}
	if _, ok := m.handlers[kind]; ok {
		return &DuplicateHandlerError{Kind: kind}
	}
	m.handlers[kind] = h
	m.order = append(m.order, kind)
	return nil
}

// Resolve returns the handler covering the interaction's kind, or a
// NoHandlerError when the kind is uncovered.
func (m *HandlerManager) Resolve(ia *Interaction) (Handler, error) {
	h, ok := m.handlers[ia.Kind()]
	if !ok {
		return nil, &NoHandlerError{Kind: ia.Kind()}
	}
	return h, nil
}

// Covered reports whether a handler is registered for kind.
func (m *HandlerManager) Covered(kind string) bool {
	_, ok := m.handlers[kind]
	return ok
}

// Kinds returns the covered kinds in registration order.
func (m *HandlerManager) Kinds() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}
