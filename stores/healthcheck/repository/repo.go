package repository

import (
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/domain"
	hcdomain "github.com/x-xyz/marketclient/domain/healthcheck"
	redisCache "github.com/x-xyz/marketclient/service/cache/provider/redis"
)

const pingTimeout = 2 * time.Second

type impl struct {
	ledger domain.EthClientRepo
	pool   redisCache.Pool
}

// New creates a HealthCheckRepo, pool may be nil when no shared cache is configured
func New(
	ledger domain.EthClientRepo,
	pool redisCache.Pool,
) hcdomain.HealthCheckRepo {
	return &impl{
		ledger: ledger,
		pool:   pool,
	}
}

func (im *impl) PingLedger(context ctx.Ctx) error {
	ctx, cancel := ctx.WithTimeout(context, pingTimeout)
	defer cancel()
	if _, err := im.ledger.BlockNumber(ctx); err != nil {
		context.WithField("err", err).Error("ledger.BlockNumber failed")
		return domain.NewError(domain.ErrLedgerUnavailable, err)
	}
	return nil
}

func (im *impl) PingCache(context ctx.Ctx) error {
	if im.pool == nil {
		return hcdomain.ErrCacheDisabled
	}
	ctx, cancel := ctx.WithTimeout(context, pingTimeout)
	defer cancel()
	conn, err := im.pool.GetContext(ctx)
	if err != nil {
		context.WithField("err", err).Error("pool.GetContext failed")
		return err
	}
	defer conn.Close()
	if _, err := redis.DoContext(conn, ctx, "PING"); err != nil {
		context.WithField("err", err).Error("redis PING failed")
		return err
	}
	return nil
}
