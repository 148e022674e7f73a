package usecase

import (
	"errors"

	"github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/domain"
	hcdomain "github.com/x-xyz/marketclient/domain/healthcheck"
)

type impl struct {
	repo        hcdomain.HealthCheckRepo
	marketplace domain.MarketplaceUseCase
}

// New builds the health check, marketplace may be nil
func New(repo hcdomain.HealthCheckRepo, marketplace domain.MarketplaceUseCase) hcdomain.HealthCheckUsecase {
	return &impl{
		repo:        repo,
		marketplace: marketplace,
	}
}

func (im *impl) Check(c ctx.Ctx) (*hcdomain.Report, error) {
	r := &hcdomain.Report{
		Healthy:  true,
		Ledger:   hcdomain.StatusUp,
		Cache:    hcdomain.StatusUp,
		Listings: "loading",
	}

	ledgerErr := im.repo.PingLedger(c)
	if ledgerErr != nil {
		r.Healthy = false
		r.Ledger = hcdomain.StatusDown
	}

	if err := im.repo.PingCache(c); errors.Is(err, hcdomain.ErrCacheDisabled) {
		r.Cache = hcdomain.StatusDisabled
	} else if err != nil {
		r.Cache = hcdomain.StatusDown
	}

	if im.marketplace != nil {
		if snap := im.marketplace.Current(); snap != nil {
			r.Listings = "fresh"
			if snap.Stale {
				r.Listings = "stale"
			}
			at := snap.RefreshedAt
			r.RefreshedAt = &at
		}
	}

	return r, ledgerErr
}
