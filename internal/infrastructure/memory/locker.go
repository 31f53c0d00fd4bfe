package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Almacen-api/internal/application/ports"
)

var _ ports.Locker = (*Locker)(nil)

// Locker bloqueo por clave dentro del proceso. Cada clave es un semáforo de capacidad 1, de modo
// que la espera respeta la cancelación del contexto. La clave se descarta cuando nadie la
// tiene ni la espera.
type Locker struct {
	mu   sync.Mutex
	keys map[string]*keyLock
}

type keyLock struct {
	sem  chan struct{}
	refs int // dueño + en espera
}

// NewLocker construye el locker en memoria.
func NewLocker() *Locker {
	return &Locker{keys: map[string]*keyLock{}}
}

func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	k, ok := l.keys[key]
	if !ok {
		k = &keyLock{sem: make(chan struct{}, 1)}
		l.keys[key] = k
	}
	k.refs++
	l.mu.Unlock()

	select {
	case k.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, k)
		return nil, ctx.Err()
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			<-k.sem
			l.release(key, k)
		})
	}, nil
}

func (l *Locker) release(key string, k *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	k.refs--
	if k.refs == 0 {
		delete(l.keys, key)
	}
}

// heldKeys claves vivas; lo usan los tests.
func (l *Locker) heldKeys() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.keys)
}
