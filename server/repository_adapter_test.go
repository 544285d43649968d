package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/topicclusters/pkg/domain"
	"github.com/umputun/topicclusters/pkg/repository"
)

func testRepositoryAdapter(t *testing.T) *RepositoryAdapter {
	t.Helper()
	repos, err := repository.NewRepositories(context.Background(), repository.Config{
		DSN:             ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 30 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, repos.Close()) })
	return NewRepositoryAdapter(repos)
}

func TestRepositoryAdapter_Generations(t *testing.T) {
	ctx := context.Background()
	adapter := testRepositoryAdapter(t)

	recent, err := adapter.RecentGenerations(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, recent)

	require.NoError(t, adapter.SaveGeneration(ctx, domain.Generation{ID: "g1", Topic: "yoga", ClusterSize: 20,
		Status: domain.StatusPending}))
	require.NoError(t, adapter.SaveGeneration(ctx, domain.Generation{ID: "g2", Topic: "running", ClusterSize: 10,
		Status: domain.StatusPending}))
	require.NoError(t, adapter.SaveGeneration(ctx, domain.Generation{ID: "g1", Topic: "yoga", ClusterSize: 20,
		Status: domain.StatusComplete, Progress: 100}))

	recent, err = adapter.RecentGenerations(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "g2", recent[0].ID)
	assert.Equal(t, "g1", recent[1].ID)
	assert.Equal(t, domain.StatusComplete, recent[1].Status)
	assert.Equal(t, domain.Progress(100), recent[1].Progress)
	assert.Equal(t, "yoga", recent[1].Topic)

	err = adapter.SaveGeneration(ctx, domain.Generation{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save generation")
}

func TestRepositoryAdapter_Posts(t *testing.T) {
	ctx := context.Background()
	adapter := testRepositoryAdapter(t)

	n, err := adapter.CountPosts(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	for _, p := range []domain.Post{{ID: 1, Title: "a", Content: "<p>a</p>"}, {ID: 2, Title: "b", Content: "<p>b</p>"}} {
		require.NoError(t, adapter.repos.Post.UpsertPost(ctx, &p))
	}
	n, err = adapter.CountPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRepositoryAdapter_LastTopic(t *testing.T) {
	ctx := context.Background()
	adapter := testRepositoryAdapter(t)

	topic, err := adapter.LastTopic(ctx)
	require.NoError(t, err)
	assert.Empty(t, topic)

	require.NoError(t, adapter.SetLastTopic(ctx, "strength training"))
	require.NoError(t, adapter.SetLastTopic(ctx, "yoga"))
	topic, err = adapter.LastTopic(ctx)
	require.NoError(t, err)
	assert.Equal(t, "yoga", topic)
}

func TestRepositoryAdapter_RecentLinks(t *testing.T) {
	ctx := context.Background()
	adapter := testRepositoryAdapter(t)

	links, err := adapter.RecentLinks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, links)

	for _, p := range []domain.Post{{ID: 1, Title: "a", Content: "<p>a</p>"}, {ID: 2, Title: "b", Content: "<p>b</p>"}} {
		require.NoError(t, adapter.repos.Post.UpsertPost(ctx, &p))
	}
	require.NoError(t, adapter.repos.Link.Record(ctx, 1, "/squat", "squat"))
	require.NoError(t, adapter.repos.Link.Record(ctx, 2, "/bench", "bench press"))
	require.NoError(t, adapter.repos.Link.Record(ctx, 1, "/deadlift", "deadlift"))

	links, err = adapter.RecentLinks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, "deadlift", links[0].Anchor)
	assert.Equal(t, int64(1), links[0].SourceID)
	assert.Equal(t, "bench press", links[1].Anchor)
	assert.Equal(t, "/squat", links[2].TargetURL)

	links, err = adapter.RecentLinks(ctx, 2)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "deadlift", links[0].Anchor)
}
