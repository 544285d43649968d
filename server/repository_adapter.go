package server

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/umputun/topicclusters/pkg/domain"
	"github.com/umputun/topicclusters/pkg/repository"
)

// RepositoryAdapter adapts repositories to the server Store interface
type RepositoryAdapter struct {
	repos *repository.Repositories
}

// NewRepositoryAdapter creates a new repository adapter
func NewRepositoryAdapter(repos *repository.Repositories) *RepositoryAdapter {
	return &RepositoryAdapter{repos: repos}
}

// SaveGeneration stores a generation or updates its progress
func (r *RepositoryAdapter) SaveGeneration(ctx context.Context, g domain.Generation) error {
	if err := r.repos.Generation.Save(ctx, g); err != nil {
		return fmt.Errorf("save generation: %w", err)
	}
	return nil
}

// RecentGenerations returns latest generations, newest first
func (r *RepositoryAdapter) RecentGenerations(ctx context.Context, limit int) ([]domain.Generation, error) {
	return r.repos.Generation.Recent(ctx, limit)
}

// CountPosts returns the number of posts available for linking
func (r *RepositoryAdapter) CountPosts(ctx context.Context) (int, error) {
	return r.repos.Post.CountPosts(ctx)
}

// LastTopic returns the most recently requested topic
func (r *RepositoryAdapter) LastTopic(ctx context.Context) (string, error) {
	return r.repos.Setting.GetSetting(ctx, repository.SettingLastTopic)
}

// SetLastTopic remembers the requested topic
func (r *RepositoryAdapter) SetLastTopic(ctx context.Context, topic string) error {
	return r.repos.Setting.SetSetting(ctx, repository.SettingLastTopic, topic)
}

// RecentLinks returns the latest inserted links, newest first. Inserting a link touches the post,
// so recently updated posts hold the recent links.
func (r *RepositoryAdapter) RecentLinks(ctx context.Context, limit int) ([]domain.LinkInsertion, error) {
	posts, err := r.repos.Post.ListPosts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent links: %w", err)
	}
	var res []domain.LinkInsertion
	for _, p := range posts {
		links, err := r.repos.Link.ForPost(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("recent links: %w", err)
		}
		res = append(res, links...)
	}
	slices.SortFunc(res, func(a, b domain.LinkInsertion) int {
		return cmp.Or(b.InsertedAt.Compare(a.InsertedAt), cmp.Compare(b.ID, a.ID))
	})
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}
