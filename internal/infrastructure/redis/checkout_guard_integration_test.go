//go:build integration

package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/jhoicas/gym-backoffice-api/internal/domain"
	infraredis "github.com/jhoicas/gym-backoffice-api/internal/infrastructure/redis"
	"github.com/jhoicas/gym-backoffice-api/pkg/config"
	"github.com/jhoicas/gym-backoffice-api/pkg/logger"
)

const (
	companyA = "6f1c7a52-4b0e-4f7e-9d5a-0c1b2a3d4e51"
	companyB = "7a2d8b63-5c1f-4a8e-8e6b-1d2c3b4e5f62"
)

func setupRedis(t *testing.T) *goredis.Client {
	t.Helper()
	ctx := context.Background()
	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := goredis.ParseURL(url)
	require.NoError(t, err)

	rdb, err := infraredis.NewClient(ctx, config.RedisConfig{Addr: opts.Addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestCheckoutGuard_CicloDeUnaClave(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()
	guard := infraredis.NewCheckoutGuard(rdb, time.Hour, logger.Nop())

	saleID, release, err := guard.Acquire(ctx, companyA, "caja-1-0001")
	require.NoError(t, err)
	assert.Empty(t, saleID, "clave nueva: la venta aún no existe")

	_, _, err = guard.Acquire(ctx, companyA, "caja-1-0001")
	assert.True(t, errors.Is(err, domain.ErrConflict), "otra petición con la misma clave está liquidando")

	require.NoError(t, guard.Remember(ctx, companyA, "caja-1-0001", "sale-123"))
	release()

	saleID, release, err = guard.Acquire(ctx, companyA, "caja-1-0001")
	require.NoError(t, err)
	release()
	assert.Equal(t, "sale-123", saleID)

	ttl, err := rdb.TTL(ctx, "checkout:sale:"+companyA+":caja-1-0001").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)
}

func TestCheckoutGuard_ClavesAisladasPorEmpresa(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()
	guard := infraredis.NewCheckoutGuard(rdb, 0, logger.Nop())

	_, releaseA, err := guard.Acquire(ctx, companyA, "k")
	require.NoError(t, err)
	defer releaseA()
	require.NoError(t, guard.Remember(ctx, companyA, "k", "sale-a"))

	saleID, releaseB, err := guard.Acquire(ctx, companyB, "k")
	require.NoError(t, err)
	defer releaseB()
	assert.Empty(t, saleID)
}

func TestNewClient_SinServidor(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := infraredis.NewClient(ctx, config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
