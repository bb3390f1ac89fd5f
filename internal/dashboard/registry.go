package dashboard

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionInfo describes one connected dashboard.
type SessionInfo struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Asset     string    `json:"asset"`
	Range     string    `json:"range"`
	StartedAt time.Time `json:"started_at"`
}

type session struct {
	user      string
	state     *State
	startedAt time.Time
}

// Registry tracks the dashboards served by one process.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*session
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// Register adds a dashboard and returns its session id.
func (r *Registry) Register(user string, state *State) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = &session{user: user, state: state, startedAt: r.now()}
	r.mu.Unlock()
	return id
}

func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sessions lists active dashboards, oldest first, with their current selection.
func (r *Registry) Sessions() []SessionInfo {
	r.mu.RLock()
	out := make([]SessionInfo, 0, len(r.sessions))
	for id, s := range r.sessions {
		v := s.state.Snapshot()
		out = append(out, SessionInfo{
			ID:        id,
			User:      s.user,
			Asset:     string(v.Asset),
			Range:     string(v.Range),
			StartedAt: s.startedAt,
		})
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}
