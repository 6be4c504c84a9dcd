package engine

import (
	"slices"
	"sync"
)

// Subscription is returned by the On* registration methods.
type Subscription struct {
	once   sync.Once
	remove func()
}

// Remove unregisters the callback. Calling it again does nothing.
func (s *Subscription) Remove() {
	if s == nil {
		return
	}
	s.once.Do(s.remove)
}

type callbackEntry[F any] struct {
	id uint64
	fn F
}

// callbackList keeps callbacks in registration order.
type callbackList[F any] struct {
	mu      sync.Mutex
	next    uint64
	entries []callbackEntry[F]
}

func (l *callbackList[F]) add(fn F) *Subscription {
	l.mu.Lock()
	l.next++
	id := l.next
	l.entries = append(l.entries, callbackEntry[F]{id: id, fn: fn})
	l.mu.Unlock()

	return &Subscription{remove: func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.entries = slices.DeleteFunc(l.entries, func(e callbackEntry[F]) bool { return e.id == id })
	}}
}

// snapshot returns the callbacks registered right now, so that a callback
// may unsubscribe itself while the list is being walked.
func (l *callbackList[F]) snapshot() []F {
	l.mu.Lock()
	defer l.mu.Unlock()
	fns := make([]F, len(l.entries))
	for i, e := range l.entries {
		fns[i] = e.fn
	}
	return fns
}
