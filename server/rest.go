package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/umputun/topicclusters/pkg/domain"
)

// ajaxResponse is the admin ajax envelope, data holds the payload or the error message
type ajaxResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// generateHandler starts a generation on the remote service
func (s *Server) generateHandler(w http.ResponseWriter, r *http.Request) {
	topic := strings.TrimSpace(r.FormValue("topic"))
	if topic == "" {
		sendError(w, r, http.StatusBadRequest, "Topic is required")
		return
	}
	clusterSize := s.clusterSize(r.FormValue("cluster_size"))

	resp, err := s.remote.Generate(r.Context(), topic, clusterSize)
	if err != nil {
		log.Printf("[WARN] generate for %q failed: %v", topic, err)
		sendError(w, r, errorStatus(err), err.Error())
		return
	}
	if resp.Status == "" {
		resp.Status = domain.StatusPending
	}

	s.remember(r, domain.Generation{ID: resp.GenerationID, Topic: topic, ClusterSize: clusterSize,
		Status: resp.Status, Progress: resp.Progress})
	sendSuccess(w, r, resp)
}

// checkStatusHandler returns the status of a generation
func (s *Server) checkStatusHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.FormValue("generation_id"))
	if id == "" {
		sendError(w, r, http.StatusBadRequest, "Generation ID is required")
		return
	}

	st, err := s.remote.CheckStatus(r.Context(), id)
	if err != nil {
		sendError(w, r, errorStatus(err), err.Error())
		return
	}
	if err := s.store.SaveGeneration(r.Context(), domain.Generation{ID: id, Status: st.Status, Progress: st.Progress,
		Error: st.Error}); err != nil {
		log.Printf("[WARN] can't save status of generation %s: %v", id, err)
	}
	sendSuccess(w, r, st)
}

// getResultsHandler returns results of a completed generation
func (s *Server) getResultsHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.FormValue("generation_id"))
	if id == "" {
		sendError(w, r, http.StatusBadRequest, "Generation ID is required")
		return
	}

	res, err := s.remote.GetResults(r.Context(), id)
	if err != nil {
		sendError(w, r, errorStatus(err), err.Error())
		return
	}
	sendSuccess(w, r, res)
}

// insertLinksHandler applies a batch of suggestions, partial failures are reported in errors
func (s *Server) insertLinksHandler(w http.ResponseWriter, r *http.Request) {
	suggestions, err := parseSuggestions(r.FormValue("suggestions"))
	if err != nil {
		sendError(w, r, errorStatus(err), err.Error())
		return
	}

	res, err := s.linker.InsertLinks(r.Context(), suggestions)
	if err != nil {
		sendError(w, r, errorStatus(err), err.Error())
		return
	}
	sendSuccess(w, r, res)
}

// remember stores the generation and the last topic, failures are only logged
func (s *Server) remember(r *http.Request, g domain.Generation) {
	if err := s.store.SaveGeneration(r.Context(), g); err != nil {
		log.Printf("[WARN] can't save generation %s: %v", g.ID, err)
	}
	if err := s.store.SetLastTopic(r.Context(), g.Topic); err != nil {
		log.Printf("[WARN] can't save last topic: %v", err)
	}
}

// clusterSize parses the requested size, falling back to the configured default
func (s *Server) clusterSize(v string) int {
	def := s.pollerOpts.DefaultClusterSize
	if def <= 0 {
		def = 20
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// parseSuggestions decodes the json-encoded suggestions form field
func parseSuggestions(v string) ([]domain.Suggestion, error) {
	if strings.TrimSpace(v) == "" {
		return nil, &domain.ValidationError{Msg: "No suggestions provided"}
	}
	var res []domain.Suggestion
	if err := json.Unmarshal([]byte(v), &res); err != nil {
		return nil, &domain.ValidationError{Msg: "Invalid suggestions data"}
	}
	if len(res) == 0 {
		return nil, &domain.ValidationError{Msg: "No suggestions provided"}
	}
	return res, nil
}

// errorStatus maps the error taxonomy to http status codes
func errorStatus(err error) int {
	var ve *domain.ValidationError
	var ce *domain.ConfigurationError
	var te *domain.TransportError
	var re *domain.RemoteError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ce):
		return http.StatusPreconditionFailed
	case errors.As(err, &te), errors.As(err, &re):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// sendSuccess writes a successful ajax envelope
func sendSuccess(w http.ResponseWriter, r *http.Request, data any) {
	renderJSON(w, r, http.StatusOK, ajaxResponse{Success: true, Data: data})
}

// sendError writes a failed ajax envelope with the message as data
func sendError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	renderJSON(w, r, code, ajaxResponse{Success: false, Data: msg})
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
