package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/topicclusters/pkg/config"
	"github.com/umputun/topicclusters/pkg/domain"
	"github.com/umputun/topicclusters/pkg/importer"
	"github.com/umputun/topicclusters/pkg/linker"
	"github.com/umputun/topicclusters/pkg/poller"
	"github.com/umputun/topicclusters/pkg/remote"
	"github.com/umputun/topicclusters/pkg/render"
	"github.com/umputun/topicclusters/pkg/repository"
	"github.com/umputun/topicclusters/pkg/scheduler"
	"github.com/umputun/topicclusters/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"topicclusters.yml" description:"configuration file"`

	Server struct {
		Listen        string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`
		AdminPassword string `long:"admin-password" env:"ADMIN_PASSWORD" description:"admin password, overrides config"`
	} `command:"server" description:"run admin server (default)"`

	Cluster struct {
		Topic string `short:"t" long:"topic" description:"topic to cluster"`
		Size  int    `short:"s" long:"size" description:"cluster size, config default if not set"`
		JSON  bool   `long:"json" description:"print raw results as json"`
	} `command:"cluster" description:"generate a topic cluster and print suggestions"`

	Import struct {
		FeedURL string `short:"f" long:"feed" description:"feed url, overrides config"`
		Pages   int    `short:"p" long:"pages" description:"number of feed pages, overrides config"`
	} `command:"import" description:"import posts from the site feed"`

	Check struct{} `command:"check" description:"check remote api health"`

	Command string `no-flag:"true"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	parser.SubcommandsOptional = true
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	if parser.Active != nil {
		opts.Command = parser.Active.Name
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}
	if opts.NoColor {
		color.NoColor = true
	}

	setupLog(opts.Debug, opts.Server.AdminPassword)
	log.Printf("[DEBUG] starting topicclusters version %s, command %q", revision, opts.Command)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

// run loads configuration and dispatches the selected command
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Remote.AdminSecret != "" || cfg.Admin.Password != "" {
		setupLog(opts.Debug, cfg.Remote.AdminSecret, cfg.Admin.Password, opts.Server.AdminPassword)
	}

	switch opts.Command {
	case "cluster":
		return runCluster(ctx, cfg, opts, os.Stdout)
	case "import":
		return runImport(ctx, cfg, opts)
	case "check":
		return runCheck(ctx, cfg, os.Stdout)
	default:
		return runServer(ctx, cfg, opts)
	}
}

// runServer wires the store, remote client and linker into the admin server
func runServer(ctx context.Context, cfg *config.Config, opts Opts) error {
	if opts.Server.Listen != "" {
		cfg.Server.Listen = opts.Server.Listen
	}
	if opts.Server.AdminPassword != "" {
		cfg.Admin.Password = opts.Server.AdminPassword
	}
	if cfg.Admin.Password == "" {
		return errors.New("admin password is required, set admin.password or --admin-password")
	}
	if !cfg.Configured() {
		log.Printf("[WARN] remote api is not configured, admin page will show setup notice")
	}

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.Close()

	if first, err := repos.Setting.SetSettingOnce(ctx, repository.SettingActivatedAt, time.Now().UTC().Format(time.RFC3339)); err != nil {
		log.Printf("[WARN] can't record activation time: %v", err)
	} else if first {
		log.Printf("[INFO] first start, activation time recorded")
	}

	var imports server.ImportStatus
	if cfg.Import.Interval > 0 && cfg.Import.FeedURL != "" {
		sched := scheduler.NewScheduler(newImporter(repos), scheduler.Config{
			FeedURL:  cfg.Import.FeedURL,
			Pages:    cfg.Import.Pages,
			Interval: cfg.Import.Interval,
		})
		sched.Start(ctx)
		defer sched.Stop()
		imports = sched
	}

	srv, err := server.New(server.Params{
		Config:        cfg,
		Remote:        newRemote(cfg),
		Linker:        linker.New(repos.Post, repos.Link),
		Store:         server.NewRepositoryAdapter(repos),
		ImportStatus:  imports,
		AdminUser:     cfg.Admin.User,
		AdminPassword: cfg.Admin.Password,
		NonceSecret:   cfg.Admin.NonceSecret,
		Poller:        pollerOptions(cfg),
		SessionTTL:    cfg.Server.SessionTTL,
		Version:       revision,
		Debug:         opts.Debug,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	log.Print("[INFO] shutdown complete")
	return nil
}

// runCluster drives a poller session from the command line and prints the outcome
func runCluster(ctx context.Context, cfg *config.Config, opts Opts, out io.Writer) error {
	sess := poller.New(newRemote(cfg), pollerOptions(cfg))
	defer sess.Close()
	updates := sess.Subscribe()

	if err := sess.Start(ctx, opts.Cluster.Topic, opts.Cluster.Size); err != nil {
		return fmt.Errorf("failed to start generation: %w", err)
	}

	done := sess.Done()
	for waiting := true; waiting; {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-updates:
			if ok && !snap.State.Terminal() {
				log.Printf("[INFO] %s %d%%", snap.Message, snap.Progress)
			}
		case <-done:
			waiting = false
		}
	}

	snap := sess.Snapshot()
	if snap.State != domain.StatusComplete || snap.Results == nil {
		return fmt.Errorf("generation %q failed: %s", snap.GenerationID, snap.Error)
	}
	if opts.Cluster.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap.Results)
	}
	return render.WriteText(out, render.Build(*snap.Results))
}

// runImport loads posts from the site feed into the post store
func runImport(ctx context.Context, cfg *config.Config, opts Opts) error {
	feedURL, pages := cfg.Import.FeedURL, cfg.Import.Pages
	if opts.Import.FeedURL != "" {
		feedURL = opts.Import.FeedURL
	}
	if opts.Import.Pages > 0 {
		pages = opts.Import.Pages
	}
	if feedURL == "" {
		return errors.New("feed url is required, set import.feed_url or --feed")
	}

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.Close()

	n, err := newImporter(repos).Import(ctx, feedURL, pages)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", feedURL, err)
	}
	log.Printf("[INFO] imported %d posts from %s", n, feedURL)
	return nil
}

// runCheck verifies the remote api answers its health endpoint
func runCheck(ctx context.Context, cfg *config.Config, out io.Writer) error {
	client := newRemote(cfg)
	if err := client.Health(ctx); err != nil {
		return fmt.Errorf("remote api check failed: %w", err)
	}
	_, err := fmt.Fprintf(out, "%s remote api %s is healthy, site domain %q\n",
		color.GreenString("OK"), cfg.Remote.APIURL, client.SiteDomain())
	return err
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repository.Repositories, error) {
	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return repos, nil
}

func newImporter(repos *repository.Repositories) *importer.Importer {
	return importer.New(repos.Post, importer.Options{UserAgent: "topicclusters/" + revision})
}

func newRemote(cfg *config.Config) *remote.Client {
	return remote.New(remote.Config{
		APIURL:          cfg.Remote.APIURL,
		AdminSecret:     cfg.Remote.AdminSecret,
		SiteURL:         cfg.Remote.SiteURL,
		GenerateTimeout: cfg.Remote.GenerateTimeout,
		StatusTimeout:   cfg.Remote.StatusTimeout,
		ResultsTimeout:  cfg.Remote.ResultsTimeout,
		RateLimit:       cfg.Remote.RateLimit,
		Endpoints: remote.Endpoints{
			Generate: cfg.Remote.Endpoints.Generate,
			Status:   cfg.Remote.Endpoints.Status,
			Results:  cfg.Remote.Endpoints.Results,
			Health:   cfg.Remote.Endpoints.Health,
		},
	})
}

func pollerOptions(cfg *config.Config) poller.Options {
	return poller.Options{
		Interval:           cfg.Poller.Interval,
		DefaultClusterSize: cfg.Poller.DefaultClusterSize,
		GenerateTimeout:    cfg.Remote.GenerateTimeout,
		StatusTimeout:      cfg.Remote.StatusTimeout,
		ResultsTimeout:     cfg.Remote.ResultsTimeout,
	}
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	var masked []string
	for _, s := range secs {
		if s != "" {
			masked = append(masked, s)
		}
	}
	if len(masked) > 0 {
		logOpts = append(logOpts, lgr.Secret(masked...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
