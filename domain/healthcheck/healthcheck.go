package healthcheck

import (
	"errors"
	"time"

	"github.com/x-xyz/marketclient/base/ctx"
)

const (
	StatusUp       = "up"
	StatusDown     = "down"
	StatusDisabled = "disabled"
)

// ErrCacheDisabled is returned by PingCache when no shared cache is configured
var ErrCacheDisabled = errors.New("cache disabled")

// Report is the state of every dependency the client talks to
type Report struct {
	Healthy bool   `json:"healthy"`
	Ledger  string `json:"ledger"`
	Cache   string `json:"cache"`
	// Listings is "loading" before the first refresh, "stale" after a purchase until the next one
	Listings    string     `json:"listings"`
	RefreshedAt *time.Time `json:"refreshedAt,omitempty"`
}

type HealthCheckUsecase interface {
	// Check fails only when the ledger is unreachable, a cache outage degrades the report
	Check(context ctx.Ctx) (*Report, error)
}

// HealthCheckRepo is repository layer of healthCheck
type HealthCheckRepo interface {
	// PingLedger checks the read endpoint answers
	PingLedger(context ctx.Ctx) error
	// PingCache checks the shared cache, ErrCacheDisabled without one
	PingCache(context ctx.Ctx) error
}
