package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisRepo(t *testing.T) (*RedisActivityRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := NewRedisActivityRepository(client, "test")
	t.Cleanup(func() { _ = repo.Close() })
	return repo, mr
}

func TestRedisActivityRepository_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) activityStore {
		repo, _ := newTestRedisRepo(t)
		return repo
	})
}

func TestRedisActivityRepository_KeyLayout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo, mr := newTestRedisRepo(t)
	require.NoError(t, repo.Seed(ctx, testRoster()))

	members, err := mr.Members("test:activities")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Chess Club", "Math Club"}, members)

	assert.Equal(t, "12", mr.HGet("test:activity:Chess Club", "max_participants"))

	list, err := mr.List("test:activity:Chess Club:participants")
	require.NoError(t, err)
	assert.Equal(t, []string{"michael@mergington.edu"}, list)
}

func TestRedisActivityRepository_DefaultPrefix(t *testing.T) {
	t.Parallel()

	repo := NewRedisActivityRepository(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "")
	assert.Equal(t, "mergington:activities", repo.indexKey())
	_ = repo.Close()
}

func TestRedisActivityRepository_PingFailsWhenServerDown(t *testing.T) {
	t.Parallel()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	repo := NewRedisActivityRepository(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")
	defer func() { _ = repo.Close() }()

	require.NoError(t, repo.Ping(context.Background()))
	mr.Close()
	assert.Error(t, repo.Ping(context.Background()))
}

func TestRedisActivityRepository_SeedRepairsIndexedNameWithoutHash(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo, mr := newTestRedisRepo(t)
	// Left behind by a write that indexed the name but never stored the hash
	_, err := mr.SAdd("test:activities", "Chess Club")
	require.NoError(t, err)

	require.NoError(t, repo.Seed(ctx, testRoster()))

	a, err := repo.GetByName(ctx, "Chess Club")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, 12, a.MaxParticipants)
	assert.Equal(t, []string{"michael@mergington.edu"}, a.Participants)

	activities, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, activities, 2)
}

func TestRedisActivityRepository_FailedSeedLeavesNoIndexEntry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo, mr := newTestRedisRepo(t)
	mr.SetError("LOADING server is loading")
	require.Error(t, repo.Seed(ctx, testRoster()))
	mr.SetError("")

	assert.False(t, mr.Exists("test:activities"))

	require.NoError(t, repo.Seed(ctx, testRoster()))
	a, err := repo.GetByName(ctx, "Math Club")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, []string{"james@mergington.edu", "benjamin@mergington.edu"}, a.Participants)
}
