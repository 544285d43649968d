package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/umputun/topicclusters/pkg/domain"
	"github.com/umputun/topicclusters/pkg/poller"
	"github.com/umputun/topicclusters/pkg/render"
)

const (
	// template names
	templatePage         = "page.html"
	templateSetup        = "setup.html"
	templateProgress     = "progress.html"
	templateResults      = "results.html"
	templateEmpty        = "empty.html"
	templateError        = "error.html"
	templateInsertResult = "insert-result.html"

	recentGenerations = 10
	recentLinks       = 20
	setupMessage      = "Topic Clusters is not configured yet. Set remote.api_url, remote.admin_secret and remote.site_url in the configuration file."
)

// pageData is used by the admin page and the setup notice
type pageData struct {
	Version     string
	Nonce       string
	NonceHeader string
	Configured  bool
	Setup       string
	LastTopic   string
	ClusterSize int
	Interval    string
	Posts       int
	Recent      []domain.Generation
	Links       []domain.LinkInsertion
}

// sessionData is used by session fragments
type sessionData struct {
	SessionID string
	Interval  string
	Snapshot  poller.Snapshot
	View      render.View
}

// errorData is used by the error fragment
type errorData struct {
	SessionID string
	Message   string
	Setup     bool
}

// adminPageHandler renders the admin page or the setup notice when the remote service is not configured
func (s *Server) adminPageHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	nonce := s.nonces.Make(s.adminUser)
	data := pageData{
		Version:     s.version,
		Nonce:       nonce,
		NonceHeader: fmt.Sprintf(`{"X-Nonce": %q}`, nonce),
		Configured:  s.config.Configured(),
		ClusterSize: s.clusterSize(""),
		Interval:    s.pollInterval(),
	}

	if !data.Configured {
		data.Setup = setupMessage
		if err := s.renderPage(w, templateSetup, data); err != nil {
			s.respondWithError(w, http.StatusInternalServerError, "Failed to render page", err)
		}
		return
	}

	var err error
	if data.LastTopic, err = s.store.LastTopic(ctx); err != nil {
		log.Printf("[WARN] can't load last topic: %v", err)
	}
	if data.Posts, err = s.store.CountPosts(ctx); err != nil {
		log.Printf("[WARN] can't count posts: %v", err)
	}
	if data.Recent, err = s.store.RecentGenerations(ctx, recentGenerations); err != nil {
		log.Printf("[WARN] can't load recent generations: %v", err)
	}
	if data.Links, err = s.store.RecentLinks(ctx, recentLinks); err != nil {
		log.Printf("[WARN] can't load recent links: %v", err)
	}

	if err := s.renderPage(w, templatePage, data); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render page", err)
	}
}

// createSessionHandler mounts a view session and starts a generation in it
func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	topic := strings.TrimSpace(r.FormValue("topic"))
	if topic == "" {
		s.renderFragment(w, templateError, errorData{Message: "Topic is required"})
		return
	}
	if !s.config.Configured() {
		s.renderFragment(w, templateError, errorData{Message: setupMessage, Setup: true})
		return
	}
	if prev := strings.TrimSpace(r.FormValue("previous")); prev != "" {
		s.sessions.remove(prev) // a new generation replaces the one shown on the page
	}

	clusterSize := s.clusterSize(r.FormValue("cluster_size"))
	vs := s.sessions.create()
	// background context, the session outlives this request and is stopped by Close
	if err := vs.sess.StartAsync(context.Background(), topic, clusterSize); err != nil {
		s.sessions.remove(vs.id)
		s.renderFragment(w, templateError, errorData{Message: err.Error()})
		return
	}
	if err := s.store.SetLastTopic(r.Context(), topic); err != nil {
		log.Printf("[WARN] can't save last topic: %v", err)
	}

	s.renderFragment(w, templateProgress, sessionData{SessionID: vs.id, Interval: s.pollInterval(), Snapshot: vs.sess.Snapshot()})
}

// sessionFragmentHandler renders the current state of a view session
func (s *Server) sessionFragmentHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	vs, ok := s.sessions.get(id)
	if !ok {
		s.renderFragment(w, templateError, errorData{Message: "Session expired, please start again."})
		return
	}

	snap := vs.sess.Snapshot()
	data := sessionData{SessionID: id, Interval: s.pollInterval(), Snapshot: snap}
	switch snap.State {
	case domain.StatusComplete:
		if snap.Results == nil {
			s.renderFragment(w, templateError, errorData{SessionID: id, Message: "No results received"})
			return
		}
		data.View = render.Build(*snap.Results)
		if data.View.Empty {
			s.renderFragment(w, templateEmpty, data)
			return
		}
		s.renderFragment(w, templateResults, data)
	case domain.StatusError:
		s.renderFragment(w, templateError, errorData{SessionID: id, Message: snap.Error})
	default:
		s.renderFragment(w, templateProgress, data)
	}
}

// deleteSessionHandler unmounts a view session
func (s *Server) deleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.remove(r.PathValue("id")) {
		renderError(w, r, errors.New("session not found"), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// insertLinksFragmentHandler applies suggestions and renders the outcome
func (s *Server) insertLinksFragmentHandler(w http.ResponseWriter, r *http.Request) {
	suggestions, err := parseSuggestions(r.FormValue("suggestions"))
	if err != nil {
		s.renderFragment(w, templateError, errorData{Message: err.Error()})
		return
	}
	res, err := s.linker.InsertLinks(r.Context(), suggestions)
	if err != nil {
		s.renderFragment(w, templateError, errorData{Message: err.Error()})
		return
	}
	s.renderFragment(w, templateInsertResult, res)
}

// renderPage renders a full page template
func (s *Server) renderPage(w http.ResponseWriter, templateName string, data any) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return s.templates.ExecuteTemplate(w, templateName, data)
}

// renderFragment renders an htmx fragment
func (s *Server) renderFragment(w http.ResponseWriter, templateName string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, templateName, data); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render fragment", err)
	}
}

// respondWithError logs the error and sends a plain text response
func (s *Server) respondWithError(w http.ResponseWriter, code int, msg string, err error) {
	log.Printf("[WARN] %s: %v", msg, err)
	http.Error(w, msg, code)
}

func (s *Server) pollInterval() string {
	iv := s.pollerOpts.Interval
	if iv <= 0 {
		iv = 2 * time.Second
	}
	if iv%time.Second == 0 {
		return fmt.Sprintf("%ds", int(iv/time.Second))
	}
	return fmt.Sprintf("%dms", iv.Milliseconds())
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"fmtTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("2006-01-02 15:04")
		},
		"statusMessage": func(st domain.Status) string { return st.Message() },
	}
}
