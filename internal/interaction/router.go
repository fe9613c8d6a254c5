package interaction

import "log/slog"

// Handler claims and processes canonical input events. Handle reports
// whether the event was consumed; a consumed event is never offered to
// lower-priority handlers, even when the gesture it tried to start was
// rejected by the state machine.
type Handler interface {
	Name() string
	Handle(ev Event) bool
}

// Router dispatches events through an ordered handler chain. Order is
// priority: the context menu handler sits first so an open menu always
// swallows the click that dismisses it.
type Router struct {
	handlers []Handler
	logger   *slog.Logger
}

func NewRouter(logger *slog.Logger, handlers ...Handler) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{handlers: handlers, logger: logger}
}

// Dispatch offers ev to each handler in order until one consumes it.
func (r *Router) Dispatch(ev Event) bool {
	for _, h := range r.handlers {
		if h.Handle(ev) {
			r.logger.Debug("event consumed", "handler", h.Name(), "kind", int(ev.Kind))
			return true
		}
	}
	return false
}
