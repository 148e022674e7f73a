package repository

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/viney-shih/goroutines"
	bCtx "github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/base/log"
	"github.com/x-xyz/marketclient/domain"
	"golang.org/x/xerrors"
)

type LedgerRepoCfg struct {
	Marketplace domain.MarketplaceContract
	Asset       domain.AssetContract
	// AssetFilter keeps only listings of this asset contract when set
	AssetFilter common.Address
	Timeout     time.Duration
	// Concurrency bounds the number of tokenURI calls in flight
	Concurrency int
}

type ledgerRepo struct {
	marketplace domain.MarketplaceContract
	asset       domain.AssetContract
	assetFilter common.Address
	timeout     time.Duration
	concurrency int
}

func NewLedgerRepo(cfg *LedgerRepoCfg) domain.LedgerRepo {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}
	return &ledgerRepo{
		marketplace: cfg.Marketplace,
		asset:       cfg.Asset,
		assetFilter: cfg.AssetFilter,
		timeout:     cfg.Timeout,
		concurrency: concurrency,
	}
}

func (r *ledgerRepo) FetchActiveListings(c bCtx.Ctx) ([]*domain.RawListing, error) {
	if r.timeout > 0 {
		var cancel func()
		c, cancel = bCtx.WithTimeout(c, r.timeout)
		defer cancel()
	}

	items, err := r.marketplace.FetchMarketItems(c)
	if err != nil {
		c.WithField("err", err).Error("marketplace.FetchMarketItems failed")
		return nil, asLedgerErr(c, err)
	}

	listings := make([]*domain.RawListing, 0, len(items))
	for _, item := range items {
		if item.Sold {
			continue
		}
		if r.assetFilter != (common.Address{}) && item.NftContract != r.assetFilter {
			continue
		}
		raw, err := toRawListing(item)
		if err != nil {
			c.WithFields(log.Fields{
				"err":    err,
				"itemId": item.ItemId,
			}).Error("toRawListing failed")
			return nil, err
		}
		listings = append(listings, raw)
	}

	if err := r.resolveTokenUris(c, listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// resolveTokenUris fills TokenUri of every listing, the first failure aborts
func (r *ledgerRepo) resolveTokenUris(c bCtx.Ctx, listings []*domain.RawListing) error {
	if len(listings) == 0 {
		return nil
	}

	b := goroutines.NewBatch(r.concurrency, goroutines.WithBatchSize(len(listings)))
	defer b.Close()
	for _, l := range listings {
		l := l
		b.Queue(func() (interface{}, error) {
			uri, err := r.asset.TokenURI(c, l.AssetContract.ToCommon(), l.AssetId)
			if err != nil {
				return nil, err
			}
			l.TokenUri = uri
			return nil, nil
		})
	}
	b.QueueComplete()

	var firstErr error
	for ret := range b.Results() {
		if ret.Error() != nil && firstErr == nil {
			firstErr = ret.Error()
		}
	}
	if firstErr != nil {
		c.WithField("err", firstErr).Error("asset.TokenURI failed")
		return asLedgerErr(c, firstErr)
	}
	return nil
}

func toRawListing(item domain.MarketItem) (*domain.RawListing, error) {
	switch {
	case item.ItemId == nil || item.ItemId.Sign() <= 0:
		return nil, domain.NewError(domain.ErrLedgerMalformedResponse, xerrors.Errorf("invalid item id %v", item.ItemId))
	case item.TokenId == nil:
		return nil, domain.NewError(domain.ErrLedgerMalformedResponse, xerrors.Errorf("item %v has no token id", item.ItemId))
	case item.Price == nil || item.Price.Sign() < 0:
		return nil, domain.NewError(domain.ErrLedgerMalformedResponse, xerrors.Errorf("item %v has invalid price %v", item.ItemId, item.Price))
	}
	return &domain.RawListing{
		ListingId:     item.ItemId,
		AssetId:       item.TokenId,
		AssetContract: domain.AddressFromCommon(item.NftContract),
		Seller:        domain.AddressFromCommon(item.Seller),
		Owner:         domain.AddressFromCommon(item.Owner),
		PriceAtomic:   item.Price,
	}, nil
}

// asLedgerErr keeps classified errors and reports anything else as the ledger being unavailable
func asLedgerErr(c bCtx.Ctx, err error) error {
	if xerrors.Is(err, domain.ErrLedgerUnavailable) || xerrors.Is(err, domain.ErrLedgerMalformedResponse) {
		return err
	}
	if c.Err() != nil {
		return domain.NewError(domain.ErrLedgerUnavailable, c.Err())
	}
	return domain.NewError(domain.ErrLedgerUnavailable, err)
}
