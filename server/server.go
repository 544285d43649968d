package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/topicclusters/pkg/domain"
	"github.com/umputun/topicclusters/pkg/poller"
	"github.com/umputun/topicclusters/pkg/scheduler"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/remote.go -pkg mocks -skip-ensure -fmt goimports . Remote
//go:generate moq -out mocks/linker.go -pkg mocks -skip-ensure -fmt goimports . Linker
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/import_status.go -pkg mocks -skip-ensure -fmt goimports . ImportStatus

//go:embed templates/*.html
var templatesFS embed.FS

// Server represents HTTP server instance
type Server struct {
	config  ConfigProvider
	remote  Remote
	linker  Linker
	store   Store
	imports ImportStatus
	version string
	debug   bool

	adminUser     string
	adminPassword string
	nonces        *nonceMaker
	sessions      *sessionRegistry
	pollerOpts    poller.Options
	templates     *template.Template

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Remote is the generation service proxy
type Remote interface {
	Generate(ctx context.Context, topic string, clusterSize int) (*domain.GenerateResponse, error)
	CheckStatus(ctx context.Context, generationID string) (*domain.GenerationStatus, error)
	GetResults(ctx context.Context, generationID string) (*domain.Results, error)
	Health(ctx context.Context) error
}

// Linker inserts suggested links into posts
type Linker interface {
	InsertLinks(ctx context.Context, suggestions []domain.Suggestion) (domain.InsertResult, error)
}

// Store keeps generation history and admin settings
type Store interface {
	SaveGeneration(ctx context.Context, g domain.Generation) error
	RecentGenerations(ctx context.Context, limit int) ([]domain.Generation, error)
	CountPosts(ctx context.Context) (int, error)
	LastTopic(ctx context.Context) (string, error)
	SetLastTopic(ctx context.Context, topic string) error
	RecentLinks(ctx context.Context, limit int) ([]domain.LinkInsertion, error)
}

// ImportStatus reports the last scheduled feed import
type ImportStatus interface {
	Status() scheduler.Status
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	Configured() bool
}

// Params defines server dependencies and settings
type Params struct {
	Config        ConfigProvider
	Remote        Remote
	Linker        Linker
	Store         Store
	ImportStatus  ImportStatus // optional, nil without scheduled imports
	AdminUser     string
	AdminPassword string
	NonceSecret   string
	Poller        poller.Options
	SessionTTL    time.Duration
	Version       string
	Debug         bool
}

// New initializes a new server instance
func New(p Params) (*Server, error) {
	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	nonces, err := newNonceMaker(p.NonceSecret)
	if err != nil {
		return nil, fmt.Errorf("make nonce signer: %w", err)
	}

	s := &Server{
		config:        p.Config,
		remote:        p.Remote,
		linker:        p.Linker,
		store:         p.Store,
		imports:       p.ImportStatus,
		version:       p.Version,
		debug:         p.Debug,
		adminUser:     p.AdminUser,
		adminPassword: p.AdminPassword,
		nonces:        nonces,
		pollerOpts:    p.Poller,
		templates:     tmpl,
		router:        routegroup.New(http.NewServeMux()),
	}
	s.sessions = newSessionRegistry(p.SessionTTL, s.newPollerSession)

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go s.sessions.reap(ctx)

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
		s.sessions.closeAll()
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("topicclusters", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /health", s.healthHandler)
	})

	s.router.Group().Route(func(r *routegroup.Bundle) {
		r.Use(rest.BasicAuthWithUserPasswd(s.adminUser, s.adminPassword))
		r.HandleFunc("GET /admin", s.adminPageHandler)
		r.HandleFunc("GET /admin/sessions/{id}", s.sessionFragmentHandler)

		r.Group().Route(func(r *routegroup.Bundle) {
			r.Use(s.nonceCheck)
			r.HandleFunc("POST /admin/ajax/generate", s.generateHandler)
			r.HandleFunc("POST /admin/ajax/check_status", s.checkStatusHandler)
			r.HandleFunc("POST /admin/ajax/get_results", s.getResultsHandler)
			r.HandleFunc("POST /admin/ajax/insert_links", s.insertLinksHandler)
			r.HandleFunc("POST /admin/sessions", s.createSessionHandler)
			r.HandleFunc("DELETE /admin/sessions/{id}", s.deleteSessionHandler)
			r.HandleFunc("POST /admin/links", s.insertLinksFragmentHandler)
		})
	})
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":     "ok",
		"version":    s.version,
		"time":       time.Now().UTC(),
		"configured": s.config.Configured(),
		"sessions":   s.sessions.count(),
	}
	if posts, err := s.store.CountPosts(r.Context()); err == nil {
		status["posts"] = posts
	}
	if s.imports != nil {
		st := s.imports.Status()
		imp := map[string]any{"imported": st.Imported, "error": st.Err}
		if !st.LastRun.IsZero() {
			imp["last_run"] = st.LastRun.UTC()
		}
		status["import"] = imp
	}
	renderJSON(w, r, http.StatusOK, status)
}

// healthHandler checks the remote service
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.remote.Health(r.Context()); err != nil {
		renderError(w, r, err, errorStatus(err))
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
