package redis_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/infrastructure/redis"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

func getRedisClient(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis no disponible: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestLocker_ExclusionEntreGoroutines(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	key := "test:" + t.Name()
	client.Del(ctx, "almacen:lock:"+key)

	locker := redis.NewLocker(client, 5*time.Second, 5*time.Millisecond, logger.Nop())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, key)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(2 * time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestLocker_NoLiberaBloqueoAjeno(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	key := "test:" + t.Name()
	redisKey := "almacen:lock:" + key
	client.Del(ctx, redisKey)

	locker := redis.NewLocker(client, 50*time.Millisecond, 5*time.Millisecond, logger.Nop())
	unlock, err := locker.Lock(ctx, key)
	require.NoError(t, err)

	// Vence el TTL y otro proceso toma la clave.
	time.Sleep(80 * time.Millisecond)
	require.NoError(t, client.Set(ctx, redisKey, "otro", time.Second).Err())

	unlock()
	val, err := client.Get(ctx, redisKey).Result()
	require.NoError(t, err)
	assert.Equal(t, "otro", val)
	client.Del(ctx, redisKey)
}

func TestLocker_RespetaCancelacion(t *testing.T) {
	client := getRedisClient(t)
	key := "test:" + t.Name()
	client.Del(context.Background(), "almacen:lock:"+key)

	locker := redis.NewLocker(client, time.Second, 5*time.Millisecond, logger.Nop())
	unlock, err := locker.Lock(context.Background(), key)
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, key)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
