package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker_DescartaClavesLiberadas(t *testing.T) {
	l := NewLocker()
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		unlock, err := l.Lock(ctx, fmt.Sprintf("shipment:item:%d", i))
		require.NoError(t, err)
		unlock()
	}
	assert.Zero(t, l.heldKeys())
}

func TestLocker_ClaveViveMientrasHayEspera(t *testing.T) {
	l := NewLocker()
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "space:zones")
	require.NoError(t, err)

	var wg sync.WaitGroup
	acquired := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		unlock2, err := l.Lock(ctx, "space:zones")
		if err != nil {
			return
		}
		close(acquired)
		unlock2()
	}()

	require.Eventually(t, func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		k := l.keys["space:zones"]
		return k != nil && k.refs == 2
	}, time.Second, time.Millisecond)

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("la espera no obtuvo el bloqueo")
	}
	wg.Wait()
	assert.Zero(t, l.heldKeys())
}

func TestLocker_CancelacionNoDejaClave(t *testing.T) {
	l := NewLocker()
	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "k")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()
	assert.Zero(t, l.heldKeys())
}
