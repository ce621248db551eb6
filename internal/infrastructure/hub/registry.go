package hub

import "sync"

// Registry is the authoritative set of connections eligible for broadcast.
//
// While a broadcast is in progress its members are moved out of the live set
// (drain) and handed back afterwards (restore). Outside callers only ever see
// the live set.
type Registry struct {
	mu sync.Mutex

	live     map[string]Connection
	inFlight map[string]Connection
	evicted  map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		live:     make(map[string]Connection),
		inFlight: make(map[string]Connection),
		evicted:  make(map[string]struct{}),
	}
}

// Connect makes conn a broadcast target.
func (r *Registry) Connect(conn Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.live[conn.ID()] = conn
}

// Remove deregisters conn and reports whether it was in the live set.
// Removing an unknown connection is a no-op. A connection that is currently
// drained by a broadcast is not found, but it will not be restored.
func (r *Registry) Remove(conn Connection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := conn.ID()
	if _, ok := r.live[id]; ok {
		delete(r.live, id)
		return true
	}
	if _, ok := r.inFlight[id]; ok {
		r.evicted[id] = struct{}{}
	}
	return false
}

func (r *Registry) Contains(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.live[id]
	return ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.live)
}

// Connections returns a snapshot of the live set.
func (r *Registry) Connections() []Connection {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := make([]Connection, 0, len(r.live))
	for _, conn := range r.live {
		conns = append(conns, conn)
	}
	return conns
}

// drain takes ownership of every live connection, leaving the live set empty.
// Only one drain may be outstanding; the hub's run loop guarantees that.
func (r *Registry) drain() []Connection {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := make([]Connection, 0, len(r.live))
	for id, conn := range r.live {
		conns = append(conns, conn)
		r.inFlight[id] = conn
	}
	r.live = make(map[string]Connection)
	return conns
}

// restore hands the survivors of a broadcast back to the live set, skipping
// any that were removed while in flight.
func (r *Registry) restore(survivors []Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, conn := range survivors {
		if _, gone := r.evicted[conn.ID()]; gone {
			continue
		}
		r.live[conn.ID()] = conn
	}
	r.inFlight = make(map[string]Connection)
	r.evicted = make(map[string]struct{})
}

// takeAll empties the registry, including connections held by a broadcast.
func (r *Registry) takeAll() []Connection {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := make([]Connection, 0, len(r.live)+len(r.inFlight))
	for _, conn := range r.live {
		conns = append(conns, conn)
	}
	for _, conn := range r.inFlight {
		conns = append(conns, conn)
	}
	r.live = make(map[string]Connection)
	r.inFlight = make(map[string]Connection)
	r.evicted = make(map[string]struct{})
	return conns
}
