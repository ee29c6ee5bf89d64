// Package redis implementa la deduplicación de checkout con Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/jhoicas/gym-backoffice-api/internal/application/sales"
	"github.com/jhoicas/gym-backoffice-api/internal/domain"
	"github.com/jhoicas/gym-backoffice-api/pkg/config"
	"github.com/jhoicas/gym-backoffice-api/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
)

var _ sales.IdempotencyGuard = (*CheckoutGuard)(nil)

// lockTTL cubre la duración máxima de una liquidación.
const lockTTL = 30 * time.Second

// CheckoutGuard guarda por (empresa, Idempotency-Key) el id de la venta liquidada.
// Mientras una petición liquida, las demás con la misma clave reciben ErrConflict.
type CheckoutGuard struct {
	rdb    goredis.UniversalClient
	locker *redislock.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewClient abre el cliente y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// NewCheckoutGuard construye el guard. ttl es cuánto se recuerda una clave ya liquidada.
func NewCheckoutGuard(rdb goredis.UniversalClient, ttl time.Duration, log *logger.Logger) *CheckoutGuard {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CheckoutGuard{rdb: rdb, locker: redislock.New(rdb), ttl: ttl, log: log}
}

func saleKey(companyID, key string) string {
	return fmt.Sprintf("checkout:sale:%s:%s", companyID, key)
}

func lockKey(companyID, key string) string {
	return fmt.Sprintf("checkout:lock:%s:%s", companyID, key)
}

// Acquire implementa sales.IdempotencyGuard.
func (g *CheckoutGuard) Acquire(ctx context.Context, companyID, key string) (string, func(), error) {
	noop := func() {}
	if saleID, err := g.lookup(ctx, companyID, key); err != nil || saleID != "" {
		return saleID, noop, err
	}

	lock, err := g.locker.Obtain(ctx, lockKey(companyID, key), lockTTL, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return "", noop, fmt.Errorf("checkout en curso para la clave %q: %w", key, domain.ErrConflict)
	}
	if err != nil {
		return "", noop, fmt.Errorf("obtain checkout lock: %w", err)
	}
	release := func() {
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			g.log.Warn().Err(err).Str("key", key).Msg("no se pudo liberar el lock de checkout")
		}
	}

	// Otra petición pudo terminar entre la consulta y el lock.
	saleID, err := g.lookup(ctx, companyID, key)
	if err != nil {
		release()
		return "", noop, err
	}
	return saleID, release, nil
}

// Remember implementa sales.IdempotencyGuard.
func (g *CheckoutGuard) Remember(ctx context.Context, companyID, key, saleID string) error {
	if err := g.rdb.Set(ctx, saleKey(companyID, key), saleID, g.ttl).Err(); err != nil {
		return fmt.Errorf("remember checkout key: %w", err)
	}
	return nil
}

func (g *CheckoutGuard) lookup(ctx context.Context, companyID, key string) (string, error) {
	saleID, err := g.rdb.Get(ctx, saleKey(companyID, key)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup checkout key: %w", err)
	}
	return saleID, nil
}
