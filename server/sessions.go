package server

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/umputun/topicclusters/pkg/domain"
	"github.com/umputun/topicclusters/pkg/poller"
)

// viewSession is a poller session bound to one open admin page
type viewSession struct {
	id       string
	sess     *poller.Session
	lastSeen time.Time
}

// sessionRegistry keeps view sessions by id, idle ones are closed after ttl
type sessionRegistry struct {
	mu         sync.Mutex
	items      map[string]*viewSession
	ttl        time.Duration
	newSession func() *poller.Session
	now        func() time.Time
}

func newSessionRegistry(ttl time.Duration, makeFn func() *poller.Session) *sessionRegistry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &sessionRegistry{items: map[string]*viewSession{}, ttl: ttl, newSession: makeFn, now: time.Now}
}

// create makes and registers a new session
func (sr *sessionRegistry) create() *viewSession {
	vs := &viewSession{id: ulid.Make().String(), sess: sr.newSession(), lastSeen: sr.now()}
	sr.mu.Lock()
	sr.items[vs.id] = vs
	sr.mu.Unlock()
	log.Printf("[DEBUG] view session %s created", vs.id)
	return vs
}

// get returns a session and marks it as active
func (sr *sessionRegistry) get(id string) (*viewSession, bool) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	vs, ok := sr.items[id]
	if ok {
		vs.lastSeen = sr.now()
	}
	return vs, ok
}

// remove unregisters and closes a session, false if unknown
func (sr *sessionRegistry) remove(id string) bool {
	sr.mu.Lock()
	vs, ok := sr.items[id]
	delete(sr.items, id)
	sr.mu.Unlock()
	if !ok {
		return false
	}
	if err := vs.sess.Close(); err != nil {
		log.Printf("[WARN] close view session %s: %v", id, err)
	}
	log.Printf("[DEBUG] view session %s closed", id)
	return true
}

func (sr *sessionRegistry) count() int {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	return len(sr.items)
}

// expire closes sessions not seen for ttl, returns the number closed
func (sr *sessionRegistry) expire() int {
	deadline := sr.now().Add(-sr.ttl)
	var stale []string
	sr.mu.Lock()
	for id, vs := range sr.items {
		if vs.lastSeen.Before(deadline) {
			stale = append(stale, id)
		}
	}
	sr.mu.Unlock()

	for _, id := range stale {
		sr.remove(id)
	}
	if len(stale) > 0 {
		log.Printf("[INFO] closed %d idle view sessions", len(stale))
	}
	return len(stale)
}

// reap runs expire periodically until ctx is done
func (sr *sessionRegistry) reap(ctx context.Context) {
	ticker := time.NewTicker(max(sr.ttl/4, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sr.expire()
		}
	}
}

// closeAll closes every session
func (sr *sessionRegistry) closeAll() {
	sr.mu.Lock()
	ids := make([]string, 0, len(sr.items))
	for id := range sr.items {
		ids = append(ids, id)
	}
	sr.mu.Unlock()
	for _, id := range ids {
		sr.remove(id)
	}
}

// newPollerSession makes a session recording its progress in the generation history
func (s *Server) newPollerSession() *poller.Session {
	opts := s.pollerOpts
	var mu sync.Mutex
	var last domain.Generation
	opts.OnChange = func(snap poller.Snapshot) {
		if snap.GenerationID == "" {
			return
		}
		g := domain.Generation{ID: snap.GenerationID, Topic: snap.Topic, ClusterSize: snap.ClusterSize,
			Status: snap.State, Progress: domain.Progress(snap.Progress), Error: snap.Error}
		mu.Lock()
		unchanged := last.ID == g.ID && last.Status == g.Status && last.Progress == g.Progress
		last = g
		mu.Unlock()
		if unchanged {
			return
		}
		if err := s.store.SaveGeneration(context.Background(), g); err != nil {
			log.Printf("[WARN] can't save generation %s: %v", g.ID, err)
		}
	}
	return poller.New(s.remote, opts)
}
