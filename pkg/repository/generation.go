package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/topicclusters/pkg/domain"
)

// GenerationRepository keeps the history of generation attempts
type GenerationRepository struct {
	db *sqlx.DB
}

type generationSQL struct {
	ID          string    `db:"id"`
	Topic       string    `db:"topic"`
	ClusterSize int       `db:"cluster_size"`
	Status      string    `db:"status"`
	Progress    int       `db:"progress"`
	Error       string    `db:"error"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// NewGenerationRepository creates a new generation repository
func NewGenerationRepository(db *sqlx.DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

// Save inserts a generation or updates its status, progress and error
func (r *GenerationRepository) Save(ctx context.Context, g domain.Generation) error {
	if g.ID == "" {
		return fmt.Errorf("save generation: empty id")
	}
	query := `
		INSERT INTO generations (id, topic, cluster_size, status, progress, error)
		VALUES (:id, :topic, :cluster_size, :status, :progress, :error)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			progress = excluded.progress,
			error = excluded.error,
			updated_at = CURRENT_TIMESTAMP
	`
	rec := generationSQL{ID: g.ID, Topic: g.Topic, ClusterSize: g.ClusterSize, Status: string(g.Status),
		Progress: int(g.Progress), Error: g.Error}

	err := newRetrier().Do(ctx, func() error {
		if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("save generation %s: %w", g.ID, err)}
		}
		return nil
	}, errCritical)
	return unwrapCritical(err)
}

// Get returns a generation by id
func (r *GenerationRepository) Get(ctx context.Context, id string) (*domain.Generation, error) {
	var rec generationSQL
	err := r.db.GetContext(ctx, &rec, "SELECT * FROM generations WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("generation %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get generation: %w", err)
	}
	g := rec.toDomain()
	return &g, nil
}

// Recent returns the latest generations, newest first
func (r *GenerationRepository) Recent(ctx context.Context, limit int) ([]domain.Generation, error) {
	if limit <= 0 {
		limit = 10
	}
	var recs []generationSQL
	if err := r.db.SelectContext(ctx, &recs, "SELECT * FROM generations ORDER BY created_at DESC, rowid DESC LIMIT ?", limit); err != nil {
		return nil, fmt.Errorf("recent generations: %w", err)
	}
	res := make([]domain.Generation, 0, len(recs))
	for _, rec := range recs {
		res = append(res, rec.toDomain())
	}
	return res, nil
}

func (g generationSQL) toDomain() domain.Generation {
	return domain.Generation{
		ID:          g.ID,
		Topic:       g.Topic,
		ClusterSize: g.ClusterSize,
		Status:      domain.Status(g.Status),
		Progress:    domain.Progress(g.Progress),
		Error:       g.Error,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}
