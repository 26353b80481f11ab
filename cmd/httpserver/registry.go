package main

import (
	"sync"

	"github.com/danmuck/qsort_viz/src/session"
)

// registry holds live sessions in memory, keyed by session id.
type registry struct {
	mu       sync.RWMutex
	sessions map[string]*session.SortSession
	order    []string // creation order, for listing
	limit    int
}

func newRegistry(limit int) *registry {
	return &registry{
		sessions: make(map[string]*session.SortSession),
		limit:    limit,
	}
}

// add stores s, evicting the oldest session once the limit is reached.
func (r *registry) add(s *session.SortSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.limit > 0 && len(r.order) >= r.limit {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.sessions, oldest)
	}
	r.sessions[s.ID()] = s
	r.order = append(r.order, s.ID())
}

func (r *registry) get(id string) (*session.SortSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *registry) list() []*session.SortSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*session.SortSession, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.sessions[id])
	}
	return out
}

func (r *registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}
