package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRedisSlotRepo_BadURL(t *testing.T) {
	_, err := NewRedisSlotRepo(context.Background(), "not a url")
	require.Error(t, err)
}

func TestNewRedisSlotRepo_Integration(t *testing.T) {
	url := RedisURLFromEnv()
	if url == "" {
		t.Skip("STUDYMENTOR_REDIS_URL not set")
	}
	ctx := context.Background()
	repo, err := NewRedisSlotRepo(ctx, url)
	require.NoError(t, err)
	defer repo.Close()

	key := "test-slot-" + t.Name()
	require.NoError(t, repo.Write(ctx, key, []byte("doc")))
	data, err := repo.Read(ctx, key)
	require.NoError(t, err)
	require.Equal(t, "doc", string(data))
	require.NoError(t, repo.Clear(ctx, key))
	data, err = repo.Read(ctx, key)
	require.NoError(t, err)
	require.Nil(t, data)
}
