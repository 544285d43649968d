package repository

import (
	"bufio"
	"context"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

//go:embed schema.sql migrations.sql
var schemaFS embed.FS

const defaultDSN = "file:topicclusters.db?cache=shared&mode=rwc&_txlock=immediate"

// sqlitePragmas applied to every new database handle, foreign keys first
var sqlitePragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA temp_store = MEMORY",
	"PRAGMA busy_timeout = 5000",
}

// addedColumn is a column introduced after the first schema release
type addedColumn struct {
	table, column, ddl string
}

var addedColumns = []addedColumn{
	{table: "posts", column: "url", ddl: "ALTER TABLE posts ADD COLUMN url TEXT NOT NULL DEFAULT ''"},
}

// Config represents database configuration
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Repositories groups the site repositories sharing one database handle
type Repositories struct {
	Post       *PostRepository
	Generation *GenerationRepository
	Link       *LinkRepository
	Setting    *SettingRepository
	DB         *sqlx.DB
}

// NewRepositories opens the database, brings the schema up to date and builds repositories on it
func NewRepositories(ctx context.Context, cfg Config) (*Repositories, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = defaultDSN
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	applyPool(db, cfg)

	if err := prepare(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Post:       NewPostRepository(db),
		Generation: NewGenerationRepository(db),
		Link:       NewLinkRepository(db),
		Setting:    NewSettingRepository(db),
		DB:         db,
	}, nil
}

// Close closes the database connection
func (r *Repositories) Close() error {
	return r.DB.Close()
}

// Ping verifies the database connection
func (r *Repositories) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

func applyPool(db *sqlx.DB, cfg Config) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

// prepare sets pragmas, creates missing tables and applies migrations
func prepare(ctx context.Context, db *sqlx.DB) error {
	for _, p := range sqlitePragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("execute %s: %w", p, err)
		}
	}
	if err := initSchema(ctx, db); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func initSchema(ctx context.Context, db *sqlx.DB) error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// runMigrations adds late columns and replays migrations.sql, safe to call on every start
func runMigrations(ctx context.Context, db *sqlx.DB) error {
	for _, c := range addedColumns {
		if err := ensureColumn(ctx, db, c); err != nil {
			return err
		}
	}

	data, err := schemaFS.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	for _, stmt := range splitMigrationStatements(string(data)) {
		if _, err := db.ExecContext(ctx, stmt); err != nil && !alreadyApplied(err) {
			return fmt.Errorf("execute migration %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func ensureColumn(ctx context.Context, db *sqlx.DB, c addedColumn) error {
	var n int
	q := `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`
	if err := db.GetContext(ctx, &n, q, c.table, c.column); err != nil {
		return fmt.Errorf("check %s.%s column: %w", c.table, c.column, err)
	}
	if n > 0 {
		return nil
	}
	if _, err := db.ExecContext(ctx, c.ddl); err != nil {
		return fmt.Errorf("add %s.%s column: %w", c.table, c.column, err)
	}
	return nil
}

// alreadyApplied reports errors a repeated migration statement is expected to produce
func alreadyApplied(err error) bool {
	msg := err.Error()
	for _, s := range []string{"already exists", "duplicate", "UNIQUE constraint failed"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// splitMigrationStatements breaks a script into statements on trailing semicolons.
// Trigger bodies are kept whole until their END; line. Leading comments are dropped.
func splitMigrationStatements(script string) []string {
	var (
		stmts []string
		buf   []string
		body  bool
	)
	flush := func() {
		if s := strings.TrimSpace(strings.Join(buf, "\n")); s != "" {
			stmts = append(stmts, s)
		}
		buf = buf[:0]
	}

	sc := bufio.NewScanner(strings.NewReader(script))
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if len(buf) == 0 && (trimmed == "" || strings.HasPrefix(trimmed, "--")) {
			continue
		}
		buf = append(buf, line)
		if strings.Contains(strings.ToUpper(trimmed), "CREATE TRIGGER") {
			body = true
		}
		if !strings.HasSuffix(trimmed, ";") {
			continue
		}
		if body {
			if !strings.EqualFold(trimmed, "END;") {
				continue
			}
			body = false
		}
		flush()
	}
	flush()
	return stmts
}
