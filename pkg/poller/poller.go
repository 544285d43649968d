// Package poller drives one generation attempt through start, status polling and results fetch.
// A Session is owned by a single view (admin page or cli run); closing it guarantees that no
// further requests are made to the remote service.
package poller

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/topicclusters/pkg/domain"
)

//go:generate moq -out mocks/backend.go -pkg mocks -skip-ensure -fmt goimports . Backend

// Backend is the remote generation service
type Backend interface {
	Generate(ctx context.Context, topic string, clusterSize int) (*domain.GenerateResponse, error)
	CheckStatus(ctx context.Context, generationID string) (*domain.GenerationStatus, error)
	GetResults(ctx context.Context, generationID string) (*domain.Results, error)
}

// ErrClosed is returned by Start on a closed session
var ErrClosed = errors.New("session closed")

// fallbackError is shown when the service reports an error without a message
const fallbackError = "Generation failed"

// Options defines session timing, zero values replaced by defaults
type Options struct {
	Interval           time.Duration
	DefaultClusterSize int
	GenerateTimeout    time.Duration
	StatusTimeout      time.Duration
	ResultsTimeout     time.Duration
	OnChange           func(Snapshot) // called on every state change, outside of session lock
}

// Snapshot is a point-in-time copy of the session state
type Snapshot struct {
	State        domain.Status
	Progress     int
	Message      string
	Error        string
	GenerationID string
	Topic        string
	ClusterSize  int
	Results      *domain.Results
	UpdatedAt    time.Time
}

// Session is a single-view generation poller
type Session struct {
	backend Backend
	opts    Options

	baseCtx    context.Context
	baseCancel context.CancelFunc
	wg         sync.WaitGroup

	mu     sync.Mutex
	snap   Snapshot
	cur    *attempt
	subs   []chan Snapshot
	closed bool
}

// attempt is one Start call; stale attempts can't change the session state
type attempt struct {
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	inFlight bool
	finished bool
}

// New makes an idle session
func New(backend Backend, opts Options) *Session {
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	if opts.DefaultClusterSize <= 0 {
		opts.DefaultClusterSize = 20
	}
	if opts.GenerateTimeout <= 0 {
		opts.GenerateTimeout = 120 * time.Second
	}
	if opts.StatusTimeout <= 0 {
		opts.StatusTimeout = 10 * time.Second
	}
	if opts.ResultsTimeout <= 0 {
		opts.ResultsTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		backend:    backend,
		opts:       opts,
		baseCtx:    ctx,
		baseCancel: cancel,
		snap:       Snapshot{State: domain.StatusIdle, Message: domain.StatusIdle.Message(), UpdatedAt: time.Now()},
	}
}

// Start requests a new generation and blocks until the request is answered. On success polling
// continues in background until a terminal state. Any polling of a previous attempt is stopped first.
func (s *Session) Start(ctx context.Context, topic string, clusterSize int) error {
	a, topic, clusterSize, err := s.begin(topic, clusterSize, false)
	if err != nil {
		return err
	}
	return s.request(ctx, a, topic, clusterSize)
}

// StartAsync validates input and switches to the requesting state synchronously,
// the generation request itself runs in background
func (s *Session) StartAsync(ctx context.Context, topic string, clusterSize int) error {
	a, topic, clusterSize, err := s.begin(topic, clusterSize, true)
	if err != nil {
		return err
	}
	go func() {
		defer s.wg.Done()
		if err := s.request(ctx, a, topic, clusterSize); err != nil {
			log.Printf("[DEBUG] generation request for %q failed: %v", topic, err)
		}
	}()
	return nil
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe returns a channel receiving snapshots on every change. Slow readers see the latest
// snapshot only. The channel is closed when the session is closed.
func (s *Session) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch
	}
	s.subs = append(s.subs, ch)
	return ch
}

// Done returns a channel closed when the current attempt reaches a terminal state.
// Without an attempt the channel is already closed.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return s.cur.done
}

// Close stops polling and waits for background requests to finish. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	cur := s.cur
	s.mu.Unlock()

	s.baseCancel()
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if cur != nil && !cur.finished {
		cur.finished = true
		close(cur.done)
	}
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
	log.Printf("[DEBUG] poller session closed, generation %q", s.snap.GenerationID)
	return nil
}

// begin validates input, stops the previous attempt and resets state to requesting.
// With async set it also registers the background request with the session wait group.
func (s *Session) begin(topic string, clusterSize int, async bool) (*attempt, string, int, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, "", 0, &domain.ValidationError{Msg: "Topic is required"}
	}
	if clusterSize <= 0 {
		clusterSize = s.opts.DefaultClusterSize
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, "", 0, ErrClosed
	}
	if prev := s.cur; prev != nil {
		prev.cancel()
		if !prev.finished {
			prev.finished = true
			close(prev.done)
		}
	}
	ctx, cancel := context.WithCancel(s.baseCtx)
	a := &attempt{ctx: ctx, cancel: cancel, done: make(chan struct{})}
	s.cur = a
	s.snap = Snapshot{State: domain.StatusRequesting, Topic: topic, ClusterSize: clusterSize}
	snap := s.touch()
	if async {
		s.wg.Add(1)
	}
	s.mu.Unlock()

	log.Printf("[INFO] requesting generation for topic %q, cluster size %d", topic, clusterSize)
	s.changed(snap)
	return a, topic, clusterSize, nil
}

// request calls Generate and starts polling on success
func (s *Session) request(ctx context.Context, a *attempt, topic string, clusterSize int) error {
	genCtx, cancel := context.WithTimeout(ctx, s.opts.GenerateTimeout)
	defer cancel()
	stop := context.AfterFunc(a.ctx, cancel) // closing the session aborts the request
	defer stop()

	resp, err := s.backend.Generate(genCtx, topic, clusterSize)
	if err == nil && resp.GenerationID == "" {
		err = &domain.RemoteError{Msg: "no generation id returned"}
	}
	if err != nil {
		s.fail(a, err.Error())
		return err
	}

	id := resp.GenerationID
	status := resp.Status
	if !status.Running() && !status.Terminal() {
		status = domain.StatusPending
	}
	s.mu.Lock()
	if s.closed || a != s.cur || a.finished {
		s.mu.Unlock()
		return nil
	}
	s.snap.GenerationID = id
	if status == domain.StatusError {
		s.mu.Unlock()
		s.fail(a, fallbackError)
		return &domain.RemoteError{Msg: fallbackError}
	}
	s.snap.State = status
	s.snap.Progress = int(resp.Progress)
	if status == domain.StatusComplete {
		// already done remotely, the snapshot turns complete only with results attached
		s.snap.State = domain.StatusGeneratingSuggestions
	}
	snap := s.touch()
	s.wg.Add(1)
	s.mu.Unlock()

	log.Printf("[INFO] generation %s started, status %s", id, status)
	s.changed(snap)
	if status == domain.StatusComplete {
		go func() {
			defer s.wg.Done()
			s.complete(a, id)
		}()
		return nil
	}
	go s.poll(a, id)
	return nil
}

// poll checks status immediately, then on every interval until the attempt is finished
func (s *Session) poll(a *attempt, id string) {
	defer s.wg.Done()
	s.tick(a, id)
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			s.tick(a, id)
		}
	}
}

// tick starts a status check unless the previous one is still in flight
func (s *Session) tick(a *attempt, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || a.finished || a.ctx.Err() != nil {
		return
	}
	if a.inFlight {
		log.Printf("[DEBUG] status check for %s still in flight, tick skipped", id)
		return
	}
	a.inFlight = true
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.check(a, id)
	}()
}

// check makes one status request and applies the result
func (s *Session) check(a *attempt, id string) {
	defer func() {
		s.mu.Lock()
		a.inFlight = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(a.ctx, s.opts.StatusTimeout)
	st, err := s.backend.CheckStatus(ctx, id)
	cancel()
	if a.ctx.Err() != nil {
		return
	}

	if err != nil {
		if domain.IsTransient(err) {
			log.Printf("[WARN] status check for %s failed, will retry: %v", id, err)
			return
		}
		s.fail(a, err.Error())
		return
	}

	log.Printf("[DEBUG] generation %s status %s, progress %d", id, st.Status, st.Progress)
	switch st.Status {
	case domain.StatusComplete:
		s.complete(a, id)
	case domain.StatusError:
		msg := strings.TrimSpace(st.Error)
		if msg == "" {
			msg = fallbackError
		}
		s.fail(a, msg)
	default:
		s.mu.Lock()
		if a != s.cur || a.finished {
			s.mu.Unlock()
			return
		}
		prev := s.snap.State
		s.snap.State = st.Status
		s.snap.Progress = int(st.Progress)
		snap := s.touch()
		s.mu.Unlock()
		if prev != st.Status {
			log.Printf("[INFO] generation %s: %s -> %s", id, prev, st.Status)
		}
		s.changed(snap)
	}
}

// complete stops polling and fetches results exactly once
func (s *Session) complete(a *attempt, id string) {
	s.mu.Lock()
	if a != s.cur || a.finished {
		s.mu.Unlock()
		return
	}
	a.cancel() // no more ticks, results request uses its own context
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(s.baseCtx, s.opts.ResultsTimeout)
	defer cancel()
	res, err := s.backend.GetResults(ctx, id)
	if err != nil {
		s.fail(a, err.Error())
		return
	}

	s.mu.Lock()
	if a != s.cur || a.finished {
		s.mu.Unlock()
		return
	}
	a.finished = true
	s.snap.State = domain.StatusComplete
	s.snap.Progress = 100
	s.snap.Results = res
	snap := s.touch()
	close(a.done)
	s.mu.Unlock()

	log.Printf("[INFO] generation %s complete, %d posts, %d suggestions", id, len(res.Posts), len(res.Suggestions))
	s.changed(snap)
}

// fail moves the attempt to the error state, stopping polling
func (s *Session) fail(a *attempt, msg string) {
	s.mu.Lock()
	if a != s.cur || a.finished {
		s.mu.Unlock()
		return
	}
	a.finished = true
	a.cancel()
	s.snap.State = domain.StatusError
	s.snap.Error = msg
	snap := s.touch()
	close(a.done)
	s.mu.Unlock()

	log.Printf("[WARN] generation %q for %q failed: %s", snap.GenerationID, snap.Topic, msg)
	s.changed(snap)
}

// touch refreshes derived fields and fans the snapshot out to subscribers, must be called under lock
func (s *Session) touch() Snapshot {
	s.snap.UpdatedAt = time.Now()
	s.snap.Message = s.snap.State.Message()
	snap := s.snap
	if s.closed {
		return snap
	}
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			select { // drop the stale snapshot, keep the latest
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
	return snap
}

func (s *Session) changed(snap Snapshot) {
	if s.opts.OnChange != nil {
		s.opts.OnChange(snap)
	}
}
