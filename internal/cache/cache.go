// Package cache abstrae un key/value con TTL con dos drivers:
//
//   - memory: in-process sobre go-cache (desarrollo, tests)
//   - redis: compartido entre instancias
//
// El dev backend lo usa para las sesiones.
package cache

import (
	"context"
	"errors"
	"time"
)

// Client define las operaciones de cache.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe o venció.
	Get(ctx context.Context, key string) (string, error)

	// Set guarda un valor. ttl 0 usa el TTL por defecto del cliente.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	// Incr suma 1 al contador y lo devuelve. El ttl sólo se aplica cuando
	// el contador nace (ventana fija).
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Ping verifica la conexión.
	Ping(ctx context.Context) error

	Close() error
}

type Config struct {
	Driver     string // "memory" | "redis"
	Addr       string // host:port (redis)
	Password   string
	DB         int
	Prefix     string
	DefaultTTL time.Duration
}

var ErrNotFound = errors.New("cache: key not found")

// IsNotFound verifica si el error es porque la key no existe.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// New crea un cliente de cache según la configuración.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Driver {
	case "redis":
		return NewRedis(ctx, cfg)
	case "memory", "":
		return NewMemory(cfg.Prefix, cfg.DefaultTTL), nil
	default:
		return nil, errors.New("cache: driver desconocido " + cfg.Driver)
	}
}

func prefixed(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + ":" + k
}
