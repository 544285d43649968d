package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
)

//go:generate moq -out mocks/importer.go -pkg mocks -skip-ensure -fmt goimports . Importer

// Scheduler re-imports site posts periodically so link insertion works on fresh content
type Scheduler struct {
	importer Importer
	feedURL  string
	pages    int
	interval time.Duration

	wg     sync.WaitGroup
	cancel context.CancelFunc

	mu     sync.Mutex
	status Status
}

// Importer loads posts from a feed into the post store
type Importer interface {
	Import(ctx context.Context, feedURL string, pages int) (int, error)
}

// Config holds scheduler configuration
type Config struct {
	FeedURL  string
	Pages    int
	Interval time.Duration
}

// Status describes the last import run
type Status struct {
	LastRun  time.Time
	Imported int
	Err      string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(importer Importer, cfg Config) *Scheduler {
	if cfg.Interval == 0 {
		cfg.Interval = 6 * time.Hour
	}
	if cfg.Pages == 0 {
		cfg.Pages = 5
	}
	return &Scheduler{importer: importer, feedURL: cfg.FeedURL, pages: cfg.Pages, interval: cfg.Interval}
}

// Start begins the import worker
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.importWorker(ctx)

	lgr.Printf("[INFO] scheduler started for %s, import interval %v", s.feedURL, s.interval)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// Status returns the outcome of the last import
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// importWorker imports immediately and then on every tick
func (s *Scheduler) importWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runImport(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runImport(ctx)
		}
	}
}

func (s *Scheduler) runImport(ctx context.Context) {
	lgr.Printf("[DEBUG] importing posts from %s", s.feedURL)
	n, err := s.importer.Import(ctx, s.feedURL, s.pages)
	if ctx.Err() != nil {
		return
	}

	st := Status{LastRun: time.Now(), Imported: n}
	if err != nil {
		lgr.Printf("[WARN] scheduled import from %s failed: %v", s.feedURL, err)
		st.Err = err.Error()
	} else {
		lgr.Printf("[INFO] scheduled import from %s, %d posts", s.feedURL, n)
	}

	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}
