package redisclient

import (
	"context"
	"runtime"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/marketclient/base/backoff"
	"github.com/x-xyz/marketclient/base/log"
)

const (
	dialTimeout  = 2 * time.Second
	readTimeout  = 1500 * time.Millisecond
	writeTimeout = 1500 * time.Millisecond
)

// RedisParam is the optional param for redis connection
type RedisParam struct {
	PoolMultiplier float64
	// Retries is how many extra dial attempts are made before giving up
	Retries int
}

// ConnectRedis builds a pool for uri and checks that one connection can be made
func ConnectRedis(ctx context.Context, uri, password string, param ...RedisParam) (*redis.Pool, error) {
	maxIdle := 4
	maxActive := 32
	retries := 0
	if len(param) > 0 {
		cpu := float64(runtime.NumCPU())
		// allowing 25% idle connection
		maxIdle = int(cpu * param[0].PoolMultiplier / 4)
		maxActive = int(cpu * param[0].PoolMultiplier)
		retries = param[0].Retries
	}

	opts := []redis.DialOption{
		redis.DialConnectTimeout(dialTimeout),
		redis.DialReadTimeout(readTimeout),
		redis.DialWriteTimeout(writeTimeout),
	}
	if password != "" {
		opts = append(opts, redis.DialPassword(password))
	}
	p := &redis.Pool{
		MaxIdle:     maxIdle,
		MaxActive:   maxActive,
		Wait:        true,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", uri, opts...)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			// No need to test if it's been recycled less than 1 sec.
			if time.Since(t) < time.Second {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}

	attempt := 0
	err := backoff.Retry(ctx, backoff.NewExponential(500*time.Millisecond, 4*time.Second), retries, nil, func() error {
		attempt++
		c, err := p.GetContext(ctx)
		if err != nil {
			log.Log().WithFields(log.Fields{
				"redisURI": uri,
				"err":      err,
				"attempt":  attempt,
			}).Warn("fail to dial Redis")
			return err
		}
		defer c.Close()
		_, err = c.Do("PING")
		return err
	})
	if err != nil {
		log.Log().WithFields(log.Fields{
			"redisURI": uri,
			"err":      err,
		}).Error("fail to dial Redis")
		p.Close()
		return nil, err
	}

	log.Log().WithField("redisURI", uri).Info("redis connected")
	return p, nil
}
