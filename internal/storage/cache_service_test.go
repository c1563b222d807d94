package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brachiGH/firedns-dashboard/internal/types"
)

// setupTestCache creates a CacheService backed by a test Redis instance.
func setupTestCache(t *testing.T, ttl time.Duration) (*CacheService, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return NewCacheService(NewRedisCacheFromClient(client), ttl), mr
}

func TestCacheServiceKeys(t *testing.T) {
	_, _ = setupTestCache(t, time.Minute)

	assert.Equal(t, "settings:general:user-1", SettingsKey(types.GroupGeneral, "user-1"))
	assert.Equal(t, "settings:parental:user-1", SettingsKey(types.GroupParental, "user-1"))
	assert.Equal(t, "list:deny:user-1", ListKey(types.ListDeny, "user-1"))
}

func TestCacheServiceSetGet(t *testing.T) {
	cache, _ := setupTestCache(t, time.Minute)
	ctx := context.Background()

	key := SettingsKey(types.GroupGeneral, "user-1")
	require.NoError(t, cache.Set(ctx, key, []byte(`{"blockCSAM":true}`)))

	data, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"blockCSAM":true}`, string(data))
}

func TestCacheServiceMissIsNotAnError(t *testing.T) {
	cache, _ := setupTestCache(t, time.Minute)

	data, err := cache.Get(context.Background(), "settings:general:missing")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestCacheServiceTTLExpiry(t *testing.T) {
	cache, mr := setupTestCache(t, 30*time.Second)
	ctx := context.Background()

	key := SettingsKey(types.GroupPrivacy, "user-1")
	require.NoError(t, cache.Set(ctx, key, []byte(`{}`)))

	mr.FastForward(31 * time.Second)

	data, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestCacheServiceInvalidateUser(t *testing.T) {
	cache, _ := setupTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, SettingsKey(types.GroupGeneral, "user-1"), []byte(`{}`)))
	require.NoError(t, cache.Set(ctx, SettingsKey(types.GroupParental, "user-1"), []byte(`{}`)))
	require.NoError(t, cache.Set(ctx, ListKey(types.ListAllow, "user-1"), []byte(`[]`)))
	require.NoError(t, cache.Set(ctx, SettingsKey(types.GroupGeneral, "user-2"), []byte(`{}`)))

	require.NoError(t, cache.InvalidateUser(ctx, "user-1"))

	for _, key := range []string{
		SettingsKey(types.GroupGeneral, "user-1"),
		SettingsKey(types.GroupParental, "user-1"),
		ListKey(types.ListAllow, "user-1"),
	} {
		data, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, data, "expected %s to be invalidated", key)
	}

	data, err := cache.Get(ctx, SettingsKey(types.GroupGeneral, "user-2"))
	require.NoError(t, err)
	assert.NotNil(t, data)
}
