// Package remote implements the request proxy to the remote topic cluster API.
// Every call is stateless; the client holds only resolved credentials.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/umputun/topicclusters/pkg/domain"
)

const maxBodySize = 10 << 20

// Config defines remote client parameters
type Config struct {
	APIURL          string
	AdminSecret     string
	SiteURL         string
	GenerateTimeout time.Duration
	StatusTimeout   time.Duration
	ResultsTimeout  time.Duration
	RateLimit       float64 // requests per second
	Endpoints       Endpoints
}

// Endpoints names the remote API endpoints
type Endpoints struct {
	Generate string
	Status   string
	Results  string
	Health   string
}

// Client talks to the remote topic cluster API
type Client struct {
	apiURL      string
	adminSecret string
	siteDomain  string
	endpoints   Endpoints
	timeouts    struct{ generate, status, results time.Duration }
	client      *http.Client
	limiter     *rate.Limiter
}

// New makes a client. Missing credentials are not an error here, calls report them
// as domain.ConfigurationError so the caller can prompt for setup.
func New(cfg Config) *Client {
	c := &Client{
		apiURL:      strings.TrimRight(cfg.APIURL, "/"),
		adminSecret: cfg.AdminSecret,
		siteDomain:  siteDomain(cfg.SiteURL),
		endpoints:   cfg.Endpoints,
		client:      &http.Client{},
		limiter:     rate.NewLimiter(rate.Inf, 1),
	}
	if c.endpoints.Generate == "" {
		c.endpoints.Generate = "topic-cluster"
	}
	if c.endpoints.Status == "" {
		c.endpoints.Status = "topic_cluster_status"
	}
	if c.endpoints.Results == "" {
		c.endpoints.Results = "topic_cluster_results"
	}
	if c.endpoints.Health == "" {
		c.endpoints.Health = "health"
	}

	c.timeouts.generate = defaultDuration(cfg.GenerateTimeout, 120*time.Second)
	c.timeouts.status = defaultDuration(cfg.StatusTimeout, 10*time.Second)
	c.timeouts.results = defaultDuration(cfg.ResultsTimeout, 30*time.Second)

	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	log.Printf("[DEBUG] remote client for %s, site domain %q, secret set: %v", c.apiURL, c.siteDomain, c.adminSecret != "")
	return c
}

// SiteDomain returns the site identifier sent to the remote API
func (c *Client) SiteDomain() string { return c.siteDomain }

// Generate starts a topic cluster generation and returns its identifier
func (c *Client) Generate(ctx context.Context, topic string, clusterSize int) (*domain.GenerateResponse, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, &domain.ValidationError{Msg: "topic is required"}
	}

	body := map[string]any{"topic": topic}
	if clusterSize > 0 {
		body["cluster_size"] = clusterSize
	}

	var resp domain.GenerateResponse
	if err := c.call(ctx, "generate", c.endpoints.Generate, c.timeouts.generate, body, &resp); err != nil {
		return nil, err
	}
	if resp.GenerationID == "" {
		return nil, &domain.RemoteError{StatusCode: http.StatusOK, Msg: "API response is missing generation_id"}
	}
	if resp.Status == "" {
		resp.Status = domain.StatusPending
	}
	return &resp, nil
}

// CheckStatus returns the current status of a generation
func (c *Client) CheckStatus(ctx context.Context, generationID string) (*domain.GenerationStatus, error) {
	if strings.TrimSpace(generationID) == "" {
		return nil, &domain.ValidationError{Msg: "generation id is required"}
	}

	var resp domain.GenerationStatus
	body := map[string]any{"generation_id": generationID}
	if err := c.call(ctx, "check status", c.endpoints.Status, c.timeouts.status, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetResults returns the final results of a completed generation
func (c *Client) GetResults(ctx context.Context, generationID string) (*domain.Results, error) {
	if strings.TrimSpace(generationID) == "" {
		return nil, &domain.ValidationError{Msg: "generation id is required"}
	}

	var resp domain.Results
	body := map[string]any{"generation_id": generationID}
	if err := c.call(ctx, "get results", c.endpoints.Results, c.timeouts.results, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health checks that the remote API answers its health endpoint
func (c *Client) Health(ctx context.Context) error {
	if c.apiURL == "" {
		return &domain.ConfigurationError{Msg: "API URL not configured, please check settings"}
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.status)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/"+c.endpoints.Health, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &domain.TransportError{Op: "health", Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

	if resp.StatusCode != http.StatusOK {
		return &domain.RemoteError{StatusCode: resp.StatusCode,
			Msg: fmt.Sprintf("connection failed with status code %d", resp.StatusCode)}
	}
	return nil
}

// checkConfig reports missing site identity or credentials
func (c *Client) checkConfig() error {
	if c.apiURL == "" {
		return &domain.ConfigurationError{Msg: "API URL not configured, please check settings"}
	}
	if c.siteDomain == "" {
		return &domain.ConfigurationError{Msg: "site domain not detected, please check the site URL setting"}
	}
	if c.adminSecret == "" {
		return &domain.ConfigurationError{Msg: "admin secret not configured, please check settings"}
	}
	return nil
}

// call posts body to the endpoint and decodes a successful response into out.
// All failure shapes are normalized to domain errors.
func (c *Client) call(ctx context.Context, op, endpoint string, timeout time.Duration, body map[string]any, out any) error {
	if err := c.checkConfig(); err != nil {
		return err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return &domain.TransportError{Op: op, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body["site_key"] = c.siteDomain
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/"+strings.TrimLeft(endpoint, "/"), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Secret", c.adminSecret)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("[WARN] %s request to %s failed: %v", op, endpoint, err)
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &domain.TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}
	log.Printf("[DEBUG] %s: status %d, body %s", op, resp.StatusCode, truncate(string(data), 500))

	if resp.StatusCode != http.StatusOK {
		return &domain.RemoteError{StatusCode: resp.StatusCode,
			Msg: fmt.Sprintf("API returned status code %d", resp.StatusCode)}
	}

	var envelope struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		log.Printf("[WARN] %s: can't parse response: %v", op, err)
		return &domain.RemoteError{StatusCode: resp.StatusCode, Msg: "failed to parse API response"}
	}
	if envelope.Error != nil {
		log.Printf("[WARN] %s: API error: %s", op, *envelope.Error)
		msg := *envelope.Error
		if msg == "" {
			msg = "API returned an error"
		}
		return &domain.RemoteError{StatusCode: resp.StatusCode, Msg: msg}
	}

	if err := json.Unmarshal(data, out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &domain.RemoteError{StatusCode: resp.StatusCode,
				Msg: fmt.Sprintf("unexpected API response field %s", typeErr.Field)}
		}
		return &domain.RemoteError{StatusCode: resp.StatusCode, Msg: "failed to parse API response"}
	}
	return nil
}

// siteDomain extracts the host of the site URL, used to identify the site remotely
func siteDomain(siteURL string) string {
	if siteURL == "" {
		return ""
	}
	if !strings.Contains(siteURL, "://") {
		siteURL = "https://" + siteURL
	}
	u, err := url.Parse(siteURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func defaultDuration(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
