package voice

import (
	"sync"

	"github.com/Mikael-duru/mockwise/internal/agent"
)

// Emitter fans platform events out to registered listeners. Every
// Subscribe returns an explicit handle so owners can always detach;
// leaked listeners across repeated sessions were the failure mode this
// design guards against. The zero value is ready to use.
type Emitter struct {
	mu     sync.Mutex
	nextID int
	subs   map[agent.EventKind]map[int]func(agent.Event)
}

// Subscribe registers fn for one event kind.
func (e *Emitter) Subscribe(kind agent.EventKind, fn func(agent.Event)) agent.Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.subs == nil {
		e.subs = make(map[agent.EventKind]map[int]func(agent.Event))
	}
	if e.subs[kind] == nil {
		e.subs[kind] = make(map[int]func(agent.Event))
	}
	e.nextID++
	id := e.nextID
	e.subs[kind][id] = fn
	return &subscription{emitter: e, kind: kind, id: id}
}

// Emit delivers the event to every listener of its kind, synchronously,
// in the caller's goroutine. Handlers must return quickly.
func (e *Emitter) Emit(ev agent.Event) {
	e.mu.Lock()
	fns := make([]func(agent.Event), 0, len(e.subs[ev.Kind]))
	for _, fn := range e.subs[ev.Kind] {
		fns = append(fns, fn)
	}
	e.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// ListenerCount returns the number of live listeners for a kind.
func (e *Emitter) ListenerCount(kind agent.EventKind) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs[kind])
}

type subscription struct {
	emitter *Emitter
	kind    agent.EventKind
	id      int
	once    sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.emitter.mu.Lock()
		delete(s.emitter.subs[s.kind], s.id)
		s.emitter.mu.Unlock()
	})
}
