package primitive

import (
	"time"

	"github.com/coocood/freecache"
	"github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/base/log"
	"github.com/x-xyz/marketclient/service/cache/provider"
)

type impl struct {
	name  string
	cache *freecache.Cache
}

// NewPrimitive returns an in-process cache of sizeMb megabytes
func NewPrimitive(name string, sizeMb int) provider.Provider {
	return &impl{name, freecache.NewCache(sizeMb * 1024 * 1024)}
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	val, expireAt, err := im.cache.GetWithExpiration([]byte(key))
	if err == freecache.ErrNotFound {
		return nil, 0, provider.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("key", key).Error("cache.GetWithExpiration failed")
		return nil, 0, err
	}
	if expireAt == 0 {
		return val, 0, nil
	}
	return val, time.Until(time.Unix(int64(expireAt), 0)), nil
}

// Set rounds ttl up to whole seconds, a zero ttl never expires
func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	if err := im.cache.Set([]byte(key), value, seconds(ttl)); err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"key":   key,
			"cache": im.name,
		}).Error("cache.Set failed")
		return err
	}
	return nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	im.cache.Del([]byte(key))
	return nil
}

// seconds keeps a positive sub-second ttl from turning into freecache's "no expiry"
func seconds(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	return int((ttl + time.Second - 1) / time.Second)
}
