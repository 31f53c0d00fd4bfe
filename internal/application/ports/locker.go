package ports

import "context"

// Locker exclusión mutua por clave entre peticiones concurrentes (y entre instancias si la
// implementación es distribuida). unlock debe llamarse siempre; es seguro llamarlo una sola vez.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
