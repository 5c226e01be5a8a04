package chat

import "github.com/mrsingh-rishi/polyglot-bot/types"

// Subscribe registers a listener for committed turn results. The returned
// cancel func must be called when the listener goes away. Slow listeners
// miss deltas rather than stall a turn.
func (s *Session) Subscribe() (<-chan types.TurnResult, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan types.TurnResult, 8)
	s.subs[ch] = struct{}{}

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// broadcast pushes a committed result to all subscribers. Callers must hold
// the session mutex.
func (s *Session) broadcast(result types.TurnResult) {
	for ch := range s.subs {
		select {
		case ch <- result:
		default:
			// subscriber is not keeping up, drop the delta
		}
	}
}
