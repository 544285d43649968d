package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// setting keys
const (
	SettingActivatedAt = "activated_at"
	SettingLastTopic   = "last_topic"
)

const (
	settingUpsert = `INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	settingInsertOnce = `INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO NOTHING`
)

// SettingRepository keeps small key/value admin state, like the last requested topic
type SettingRepository struct {
	db *sqlx.DB
}

// NewSettingRepository makes a settings store on db
func NewSettingRepository(db *sqlx.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// GetSetting returns the value stored under key, empty string for a missing key
func (r *SettingRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value sql.NullString
	switch err := r.db.QueryRowxContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value); {
	case errors.Is(err, sql.ErrNoRows):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value.String, nil
}

// SetSetting stores value under key, replacing the previous one
func (r *SettingRepository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.write(ctx, settingUpsert, key, value)
	return err
}

// SetSettingOnce stores value only if key has none yet, reports whether it was stored
func (r *SettingRepository) SetSettingOnce(ctx context.Context, key, value string) (bool, error) {
	n, err := r.write(ctx, settingInsertOnce, key, value)
	return n > 0, err
}

// write runs a settings statement, retrying while the database is busy
func (r *SettingRepository) write(ctx context.Context, query, key, value string) (int64, error) {
	var affected int64
	err := newRetrier().Do(ctx, func() error {
		res, err := r.db.ExecContext(ctx, query, key, value)
		if err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("set setting %s: %w", key, err)}
		}
		if affected, err = res.RowsAffected(); err != nil {
			return &criticalError{err: fmt.Errorf("set setting %s, rows affected: %w", key, err)}
		}
		return nil
	}, errCritical)
	return affected, unwrapCritical(err)
}
