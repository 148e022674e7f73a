package compound

import (
	"time"

	"github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/base/log"
	"github.com/x-xyz/marketclient/service/cache/provider"
)

type impl struct {
	layers []provider.Provider
}

// NewCompound stacks layers, fastest first. Get returns on the first hit and
// backfills the layers in front of it with the remaining ttl. A failing layer
// is skipped on Get, so a shared cache outage only costs its hits.
func NewCompound(layers []provider.Provider) provider.Provider {
	return &impl{layers}
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	for idx, lyr := range im.layers {
		val, ttl, err := lyr.Get(c, key)
		if err == provider.ErrNotFound {
			continue
		} else if err != nil {
			c.WithFields(log.Fields{"err": err, "key": key, "layer": idx}).Warn("layer.Get failed")
			continue
		}
		im.backfill(c, idx, key, val, ttl)
		return val, ttl, nil
	}
	return nil, 0, provider.ErrNotFound
}

func (im *impl) backfill(c ctx.Ctx, hitIdx int, key string, val []byte, ttl time.Duration) {
	for idx := 0; idx < hitIdx; idx++ {
		if err := im.layers[idx].Set(c, key, val, ttl); err != nil {
			c.WithFields(log.Fields{"err": err, "key": key, "layer": idx}).Warn("backfill failed")
		}
	}
}

// Set writes every layer and returns the first failure
func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	var first error
	for _, lyr := range im.layers {
		if err := lyr.Set(c, key, value, ttl); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	var first error
	for _, lyr := range im.layers {
		if err := lyr.Del(c, key); err != nil && first == nil {
			first = err
		}
	}
	return first
}
