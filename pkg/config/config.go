package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" json:"server" jsonschema:"description=Admin server configuration"`
	Admin    AdminConfig    `yaml:"admin" json:"admin" jsonschema:"description=Admin access configuration"`
	Remote   RemoteConfig   `yaml:"remote" json:"remote" jsonschema:"description=Remote topic cluster API configuration"`
	Poller   PollerConfig   `yaml:"poller" json:"poller" jsonschema:"description=Generation polling configuration"`
	Database DatabaseConfig `yaml:"database" json:"database" jsonschema:"description=Post store configuration"`
	Import   ImportConfig   `yaml:"import" json:"import" jsonschema:"description=Post import configuration"`
}

// ServerConfig holds admin HTTP server settings
type ServerConfig struct {
	Listen     string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=150s,description=HTTP server timeout covering the remote generate timeout"`
	SessionTTL time.Duration `yaml:"session_ttl" json:"session_ttl" jsonschema:"default=30m,description=Idle admin view sessions are closed after this period"`
}

// AdminConfig holds credentials for the admin pages
type AdminConfig struct {
	User        string `yaml:"user" json:"user" jsonschema:"default=admin,description=Admin user name"`
	Password    string `yaml:"password" json:"password" jsonschema:"description=Admin password (can use environment variable)"`
	NonceSecret string `yaml:"nonce_secret" json:"nonce_secret" jsonschema:"description=Secret used to sign request nonces"`
}

// RemoteConfig holds connection settings for the remote topic cluster API
type RemoteConfig struct {
	APIURL          string          `yaml:"api_url" json:"api_url" jsonschema:"description=Base URL of the remote topic cluster API"`
	AdminSecret     string          `yaml:"admin_secret" json:"admin_secret" jsonschema:"description=Shared secret sent in X-Admin-Secret header"`
	SiteURL         string          `yaml:"site_url" json:"site_url" jsonschema:"description=Public site URL whose host identifies the site to the remote API"`
	GenerateTimeout time.Duration   `yaml:"generate_timeout" json:"generate_timeout" jsonschema:"default=120s,description=Timeout for starting a generation"`
	StatusTimeout   time.Duration   `yaml:"status_timeout" json:"status_timeout" jsonschema:"default=10s,description=Timeout for a status poll"`
	ResultsTimeout  time.Duration   `yaml:"results_timeout" json:"results_timeout" jsonschema:"default=30s,description=Timeout for fetching results"`
	RateLimit       float64         `yaml:"rate_limit" json:"rate_limit" jsonschema:"default=5,minimum=0,description=Maximum outbound requests per second"`
	Endpoints       EndpointsConfig `yaml:"endpoints" json:"endpoints" jsonschema:"description=Remote endpoint names"`
}

// EndpointsConfig names the remote API endpoints relative to the API URL
type EndpointsConfig struct {
	Generate string `yaml:"generate" json:"generate" jsonschema:"default=topic-cluster,description=Generation start endpoint"`
	Status   string `yaml:"status" json:"status" jsonschema:"default=topic_cluster_status,description=Generation status endpoint"`
	Results  string `yaml:"results" json:"results" jsonschema:"default=topic_cluster_results,description=Generation results endpoint"`
	Health   string `yaml:"health" json:"health" jsonschema:"default=health,description=Health check endpoint"`
}

// PollerConfig holds generation polling settings
type PollerConfig struct {
	Interval           time.Duration `yaml:"interval" json:"interval" jsonschema:"default=2s,description=Status poll interval"`
	DefaultClusterSize int           `yaml:"default_cluster_size" json:"default_cluster_size" jsonschema:"default=20,minimum=1,description=Cluster size used when none is requested"`
}

// DatabaseConfig holds post store settings
type DatabaseConfig struct {
	DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:topicclusters.db?cache=shared&mode=rwc,description=Database connection string"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
}

// ImportConfig holds settings for importing posts from the site feed
type ImportConfig struct {
	FeedURL  string        `yaml:"feed_url" json:"feed_url" jsonschema:"description=Site RSS feed URL to import posts from"`
	Pages    int           `yaml:"pages" json:"pages" jsonschema:"default=5,minimum=1,description=Number of feed pages to import"`
	Interval time.Duration `yaml:"interval" json:"interval" jsonschema:"default=0s,description=Re-import period in server mode (zero disables scheduled imports)"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.SetDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// SetDefaults fills zero values with defaults
func (c *Config) SetDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 150 * time.Second
	}
	if c.Server.SessionTTL == 0 {
		c.Server.SessionTTL = 30 * time.Minute
	}

	if c.Admin.User == "" {
		c.Admin.User = "admin"
	}

	if c.Remote.GenerateTimeout == 0 {
		c.Remote.GenerateTimeout = 120 * time.Second
	}
	if c.Remote.StatusTimeout == 0 {
		c.Remote.StatusTimeout = 10 * time.Second
	}
	if c.Remote.ResultsTimeout == 0 {
		c.Remote.ResultsTimeout = 30 * time.Second
	}
	if c.Remote.RateLimit == 0 {
		c.Remote.RateLimit = 5
	}
	if c.Remote.Endpoints.Generate == "" {
		c.Remote.Endpoints.Generate = "topic-cluster"
	}
	if c.Remote.Endpoints.Status == "" {
		c.Remote.Endpoints.Status = "topic_cluster_status"
	}
	if c.Remote.Endpoints.Results == "" {
		c.Remote.Endpoints.Results = "topic_cluster_results"
	}
	if c.Remote.Endpoints.Health == "" {
		c.Remote.Endpoints.Health = "health"
	}

	if c.Poller.Interval == 0 {
		c.Poller.Interval = 2 * time.Second
	}
	if c.Poller.DefaultClusterSize == 0 {
		c.Poller.DefaultClusterSize = 20
	}

	if c.Database.DSN == "" {
		c.Database.DSN = "file:topicclusters.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	if c.Import.Pages == 0 {
		c.Import.Pages = 5
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	if cfg.Remote.APIURL != "" {
		u, err := url.Parse(cfg.Remote.APIURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("remote.api_url must be an absolute URL")
		}
	}
	if cfg.Remote.RateLimit < 0 {
		return fmt.Errorf("remote.rate_limit must be positive")
	}
	if cfg.Poller.Interval < 100*time.Millisecond {
		return fmt.Errorf("poller.interval must be at least 100ms")
	}
	if cfg.Poller.DefaultClusterSize < 1 {
		return fmt.Errorf("poller.default_cluster_size must be at least 1")
	}
	if cfg.Import.Pages < 1 {
		return fmt.Errorf("import.pages must be at least 1")
	}
	if cfg.Import.Interval != 0 && cfg.Import.Interval < time.Minute {
		return fmt.Errorf("import.interval must be at least 1 minute")
	}
	return nil
}

// Configured reports whether the remote API URL is set, the main setup requirement
func (c *Config) Configured() bool {
	return c.Remote.APIURL != ""
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}
