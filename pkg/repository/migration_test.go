package repository

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations_AddURLColumn(t *testing.T) {
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	ctx := context.Background()

	// posts table as created before url tracking
	oldSchema := `
		CREATE TABLE posts (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
	_, err = db.ExecContext(ctx, oldSchema)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO posts (id, title, content) VALUES (1, 'Old', '<p>old</p>')`)
	require.NoError(t, err)

	require.NoError(t, initSchema(ctx, db))
	require.NoError(t, runMigrations(ctx, db))

	var count int
	err = db.GetContext(ctx, &count, `SELECT COUNT(*) FROM pragma_table_info('posts') WHERE name = 'url'`)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "url column should exist after migration")

	var url string
	require.NoError(t, db.GetContext(ctx, &url, `SELECT url FROM posts WHERE id = 1`))
	assert.Empty(t, url)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	require.NoError(t, initSchema(ctx, db))
	require.NoError(t, runMigrations(ctx, db))
	require.NoError(t, runMigrations(ctx, db), "migrations should be idempotent")

	var indexCount int
	err = db.GetContext(ctx, &indexCount,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name LIKE 'idx_%'`)
	require.NoError(t, err)
	assert.Equal(t, 2, indexCount)

	var triggerCount int
	err = db.GetContext(ctx, &triggerCount,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'trigger' AND name = 'posts_touch_updated_at'`)
	require.NoError(t, err)
	assert.Equal(t, 1, triggerCount)
}

func TestPostsTouchTrigger(t *testing.T) {
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	require.NoError(t, initSchema(ctx, db))
	require.NoError(t, runMigrations(ctx, db))

	_, err = db.ExecContext(ctx, `INSERT INTO posts (id, title, content, updated_at) VALUES (1, 't', 'c', '2001-01-01 00:00:00')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `UPDATE posts SET content = 'changed' WHERE id = 1`)
	require.NoError(t, err)

	var stale int
	err = db.GetContext(ctx, &stale, `SELECT COUNT(*) FROM posts WHERE id = 1 AND updated_at = '2001-01-01 00:00:00'`)
	require.NoError(t, err)
	assert.Equal(t, 0, stale, "updated_at should move when content changes")
}

func TestSplitMigrationStatements(t *testing.T) {
	sql := `
-- comment line
CREATE INDEX a ON t(x);

CREATE TRIGGER tr AFTER UPDATE ON t
BEGIN
    UPDATE t SET y = 1;
END;
CREATE INDEX b ON t(y);
`
	stmts := splitMigrationStatements(sql)
	require.Len(t, stmts, 3)
	assert.Equal(t, "CREATE INDEX a ON t(x);", stmts[0])
	assert.Contains(t, stmts[1], "CREATE TRIGGER tr")
	assert.Contains(t, stmts[1], "END;")
	assert.Equal(t, "CREATE INDEX b ON t(y);", stmts[2])
}
