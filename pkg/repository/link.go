package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/topicclusters/pkg/domain"
)

// LinkRepository records links inserted into posts
type LinkRepository struct {
	db *sqlx.DB
}

type linkSQL struct {
	ID         int64     `db:"id"`
	SourceID   int64     `db:"source_id"`
	TargetURL  string    `db:"target_url"`
	Anchor     string    `db:"anchor"`
	InsertedAt time.Time `db:"inserted_at"`
}

// NewLinkRepository creates a new link repository
func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Record stores one inserted link
func (r *LinkRepository) Record(ctx context.Context, sourceID int64, targetURL, anchor string) error {
	query := "INSERT INTO link_insertions (source_id, target_url, anchor) VALUES (?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, query, sourceID, targetURL, anchor); err != nil {
		return fmt.Errorf("record link for post %d: %w", sourceID, err)
	}
	return nil
}

// ForPost returns links inserted into the given post, oldest first
func (r *LinkRepository) ForPost(ctx context.Context, sourceID int64) ([]domain.LinkInsertion, error) {
	var recs []linkSQL
	query := "SELECT * FROM link_insertions WHERE source_id = ? ORDER BY id"
	if err := r.db.SelectContext(ctx, &recs, query, sourceID); err != nil {
		return nil, fmt.Errorf("links for post %d: %w", sourceID, err)
	}
	res := make([]domain.LinkInsertion, 0, len(recs))
	for _, l := range recs {
		res = append(res, domain.LinkInsertion{ID: l.ID, SourceID: l.SourceID, TargetURL: l.TargetURL,
			Anchor: l.Anchor, InsertedAt: l.InsertedAt})
	}
	return res, nil
}
