package cache

import (
	"errors"
	"time"

	"github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/base/metrics"
	"github.com/x-xyz/marketclient/service/cache/provider"
)

var (
	ErrNotFound = errors.New("Cache not found")
)

// OneTimeGetter produces the value for a missing key, its result is cached only on success
type OneTimeGetter func() (interface{}, error)

type Serializer func(interface{}) ([]byte, error)

type Deserializer func([]byte, interface{}) error

// Service stores typed values on top of a raw provider
type Service interface {
	// GetByFunc fills container from cache, calling getter on a miss.
	// A failing getter leaves the cache untouched.
	GetByFunc(c ctx.Ctx, key string, container interface{}, getter OneTimeGetter) error
	Get(c ctx.Ctx, key string, container interface{}) error
	Set(c ctx.Ctx, key string, value interface{}) error
	Del(c ctx.Ctx, key string) error
}

type ServiceConfig struct {
	Ttl time.Duration
	// Pfx is prepended to every key, keys built by domain/keys already carry one
	Pfx   string
	Cache provider.Provider
	// Serialize and Deserialize default to encoding/json
	Serialize   Serializer
	Deserialize Deserializer
	// Metrics receives cache.hit and cache.miss tagged with the prefix, optional
	Metrics metrics.Service
}
