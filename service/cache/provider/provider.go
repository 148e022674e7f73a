package provider

import (
	"errors"
	"time"

	"github.com/x-xyz/marketclient/base/ctx"
)

var (
	ErrNotFound = errors.New("Cache not found")
)

// Provider stores raw bytes. Get reports the remaining ttl, 0 when the entry never expires.
// Set with a zero ttl keeps the entry until it is evicted or deleted.
type Provider interface {
	Get(c ctx.Ctx, key string) ([]byte, time.Duration, error)
	Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error
	Del(c ctx.Ctx, key string) error
}
