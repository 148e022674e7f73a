package cache

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/base/metrics"
	"github.com/x-xyz/marketclient/domain/keys"
	"github.com/x-xyz/marketclient/service/cache/provider"
)

type impl struct {
	ttl         time.Duration
	pfx         string
	cache       provider.Provider
	serialize   Serializer
	deserialize Deserializer
	metrics     metrics.Service
}

func New(config ServiceConfig) Service {
	if config.Serialize == nil {
		config.Serialize = json.Marshal
	}

	if config.Deserialize == nil {
		config.Deserialize = json.Unmarshal
	}

	return &impl{
		ttl:         config.Ttl,
		pfx:         config.Pfx,
		cache:       config.Cache,
		serialize:   config.Serialize,
		deserialize: config.Deserialize,
		metrics:     config.Metrics,
	}
}

func (im *impl) GetByFunc(c ctx.Ctx, key string, container interface{}, getter OneTimeGetter) error {
	err := im.Get(c, key, container)
	if err == nil {
		return nil
	}
	if err != ErrNotFound {
		// a broken cache must not block the getter
		c.WithField("err", err).WithField("key", key).Warn("Get failed")
	}

	val, err := getter()
	if err != nil {
		return err
	}

	if err := im.Set(c, key, val); err != nil {
		c.WithField("err", err).WithField("key", key).Warn("Set failed")
	}

	rv := reflect.ValueOf(val)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	reflect.ValueOf(container).Elem().Set(rv)
	return nil
}

func (im *impl) Get(c ctx.Ctx, key string, container interface{}) error {
	key = im.key(key)

	val, _, err := im.cache.Get(c, key)
	if err == provider.ErrNotFound {
		im.bump("cache.miss", key)
		return ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("key", key).Error("cache.Get failed")
		return err
	}
	if err := im.deserialize(val, container); err != nil {
		c.WithField("err", err).WithField("key", key).Error("deserialize failed")
		return err
	}
	im.bump("cache.hit", key)
	return nil
}

func (im *impl) Set(c ctx.Ctx, key string, value interface{}) error {
	key = im.key(key)

	if val, err := im.serialize(value); err != nil {
		c.WithField("err", err).WithField("key", key).Error("serialize failed")
		return err
	} else if err := im.cache.Set(c, key, val, im.ttl); err != nil {
		c.WithField("err", err).WithField("key", key).Error("cache.Set failed")
		return err
	}

	return nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	key = im.key(key)

	if err := im.cache.Del(c, key); err != nil {
		c.WithField("err", err).WithField("key", key).Error("cache.Del failed")
		return err
	}

	return nil
}

// key prefixes k with the configured prefix, keys built by domain/keys are used as is
func (im *impl) key(k string) string {
	if im.pfx == "" {
		return k
	}
	return keys.RedisKey(im.pfx, k)
}

func (im *impl) bump(name, key string) {
	if im.metrics == nil {
		return
	}
	im.metrics.BumpSum(name, 1, "pfx:"+keys.GetPrefix(key))
}
