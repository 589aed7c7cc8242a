package compose

// List is the ordered sub-handler collection shared by all category
// dispatchers. Insertion is idempotent by identity; removal drops the
// first matching occurrence only. H is the hook interface of one
// category; handlers compare by interface identity, so they should be
// pointer-backed.
//
// List is not safe for concurrent mutation. Dispatchers are assembled
// on a single goroutine during a build pass and read-only afterwards.
type List[H comparable] struct {
	handlers []H
}

// Add appends a handler. Absent (zero) handlers and handlers already
// present by identity are ignored.
func (l *List[H]) Add(h H) {
	var zero H
	if h == zero {
		return
	}
	for _, cur := range l.handlers {
		if cur == h {
			return
		}
	}
	l.handlers = append(l.handlers, h)
}

// Remove drops the first occurrence of the handler, leaving any later
// duplicates in place. Unknown handlers are ignored.
func (l *List[H]) Remove(h H) {
	for i, cur := range l.handlers {
		if cur == h {
			l.handlers = append(l.handlers[:i], l.handlers[i+1:]...)
			return
		}
	}
}

// Empty reports whether the list holds no handlers.
func (l *List[H]) Empty() bool { return len(l.handlers) == 0 }

// Len returns the number of handlers.
func (l *List[H]) Len() int { return len(l.handlers) }

// Handlers returns the sub-handlers in registration order. The returned
// slice is the dispatcher's backing store; callers must not mutate it.
func (l *List[H]) Handlers() []H { return l.handlers }
