package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-directory-service/internal/domain/user"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

func cachedTestUser() *domain.User {
	return &domain.User{
		ID:        1,
		FullName:  "Ana Souza",
		Email:     "ana@x.com",
		Phone:     "11999999999",
		BirthDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		UserType:  domain.TypeViewer,
	}
}

func TestRedisUserCache_SetAndGet(t *testing.T) {
	client, _ := setupTestRedis(t)
	logger := zaptest.NewLogger(t)
	cache := NewRedisUserCache(client, 5*time.Minute, logger)

	user := cachedTestUser()
	require.NoError(t, cache.Set(context.Background(), user))

	// Verify wire shape in Redis
	data, err := client.Get(context.Background(), "user:1").Bytes()
	require.NoError(t, err)

	var stored domain.User
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, user.Email, stored.Email)

	cached, err := cache.Get(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, user.ID, cached.ID)
	assert.Equal(t, user.FullName, cached.FullName)
	assert.Equal(t, user.UserType, cached.UserType)
	assert.True(t, user.BirthDate.Equal(cached.BirthDate))
}

func TestRedisUserCache_Set_NilUser(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))

	err := cache.Set(context.Background(), nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot cache nil user")
}

func TestRedisUserCache_Get_CacheMiss(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))

	cached, err := cache.Get(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestRedisUserCache_Get_TTLExpiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))

	require.NoError(t, cache.Set(context.Background(), cachedTestUser()))

	mr.FastForward(2 * time.Minute)

	cached, err := cache.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestRedisUserCache_Delete(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))

	require.NoError(t, cache.Set(context.Background(), cachedTestUser()))
	require.NoError(t, cache.Delete(context.Background(), 1))

	cached, err := cache.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestRedisUserCache_Delete_AbsentKey(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))

	assert.NoError(t, cache.Delete(context.Background(), 123))
}
