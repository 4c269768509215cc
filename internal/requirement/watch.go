package requirement

import (
	"sync"
	"time"
)

// Event describes one status transition, pushed to watchers of the project.
type Event struct {
	ProjectID     int       `json:"project_id"`
	RequirementID int       `json:"requirement_id"`
	AspectID      int       `json:"aspect_id"`
	Status        Status    `json:"status"`
	At            time.Time `json:"at"`
}

// Hub fans status events out to per-project subscribers. Publishing never
// blocks: a subscriber that stopped draining loses events, not the writers.
type Hub struct {
	mu   sync.Mutex
	subs map[int]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]map[chan Event]struct{})}
}

// Subscribe registers a watcher for one project. The returned cancel func
// must be called when the watcher goes away.
func (h *Hub) Subscribe(projectID int) (<-chan Event, func()) {
	ch := make(chan Event, 16)
	h.mu.Lock()
	set, ok := h.subs[projectID]
	if !ok {
		set = make(map[chan Event]struct{})
		h.subs[projectID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[projectID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, projectID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[ev.ProjectID] {
		select {
		case ch <- ev:
		default:
		}
	}
}
