package article

import "sync"

// sequencer hands out increasing tokens per target. A write is current when
// its token is the latest issued for the target.
type sequencer struct {
	mu     sync.Mutex
	latest map[any]uint64
}

func newSequencer() *sequencer {
	return &sequencer{latest: make(map[any]uint64)}
}

// elementKeyer is implemented by handles that can name their element
// without an id.
type elementKeyer interface {
	ElementKey() any
}

// targetKey groups targets that name the same element. Browser handles to
// an element without an id cannot be matched and are keyed per handle.
func targetKey(t Target) any {
	if id := t.TargetID(); id != "" {
		return id
	}
	if k, ok := t.(elementKeyer); ok {
		return k.ElementKey()
	}
	return t
}

// begin issues the token of a new write to t. A nil sequencer issues zero.
func (s *sequencer) begin(t Target) uint64 {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := targetKey(t)
	s.latest[key]++
	return s.latest[key]
}

// write runs fn if token is still current for t and reports whether it ran.
// The check and fn happen under one lock so a superseded write cannot land
// after a newer one.
func (s *sequencer) write(t Target, token uint64, fn func() error) (bool, error) {
	if s == nil {
		return true, fn()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latest[targetKey(t)] != token {
		return false, nil
	}
	return true, fn()
}
