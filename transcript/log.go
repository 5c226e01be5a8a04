package transcript

// Log is a generic append-only record of entries. It backs the conversation
// transcript: entries are only ever appended or cleared wholesale, never
// mutated or reordered.
type Log[T any] struct {
	items []T
}

// New creates and returns a new Log instance.
func New[T any]() *Log[T] {
	return &Log[T]{items: []T{}}
}

// Append adds an entry to the end of the log.
func (l *Log[T]) Append(item T) {
	l.items = append(l.items, item)
}

// Entries returns a copy of the logged entries in insertion order.
func (l *Log[T]) Entries() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of entries in the log.
func (l *Log[T]) Len() int {
	return len(l.items)
}

// Clear removes all entries from the log.
func (l *Log[T]) Clear() {
	l.items = l.items[:0]
}
