// Package redis implementa ports.Locker sobre Redis para excluir operaciones entre instancias.
package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

const keyPrefix = "almacen:lock:"

var _ ports.Locker = (*Locker)(nil)

// Libera sólo si el token sigue siendo el nuestro: un bloqueo vencido y retomado por otro
// proceso no se borra.
var releaseScript = goredis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// Locker bloqueo distribuido con SET NX PX y token aleatorio por adquisición.
type Locker struct {
	client     *goredis.Client
	ttl        time.Duration
	retryDelay time.Duration
	log        *logger.Logger
}

// NewLocker construye el locker. ttl acota cuánto sobrevive un bloqueo si el proceso muere.
func NewLocker(client *goredis.Client, ttl, retryDelay time.Duration, log *logger.Logger) *Locker {
	return &Locker{client: client, ttl: ttl, retryDelay: retryDelay, log: log}
}

// Lock reintenta hasta obtener la clave o hasta que ctx termine.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := keyPrefix + key
	token := uuid.New().String()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			break
		}
		timer := time.NewTimer(l.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	var once sync.Once
	return func() { once.Do(func() { l.release(key, redisKey, token) }) }, nil
}

func (l *Locker) release(key, redisKey, token string) {
	// Contexto propio: la petición pudo cancelarse y aun así hay que soltar la clave.
	relCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(relCtx, l.client, []string{redisKey}, token).Err(); err != nil {
		l.log.Warn().Err(err).Str("key", key).Msg("liberar bloqueo redis")
	}
}
