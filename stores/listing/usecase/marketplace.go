package usecase

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viney-shih/goroutines"
	bCtx "github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/base/goroutine"
	"github.com/x-xyz/marketclient/base/log"
	"github.com/x-xyz/marketclient/base/metrics"
	"github.com/x-xyz/marketclient/domain"
	"golang.org/x/sync/singleflight"
	"golang.org/x/xerrors"
)

const refreshKey = "refresh"

type MarketplaceUseCaseCfg struct {
	Ledger    domain.LedgerRepo
	Metadata  domain.MetadataUseCase
	Assembler domain.ListingAssembler
	Purchaser domain.PurchaseUseCase
	Policy    domain.MetadataPolicy
	// Concurrency bounds the number of metadata fetches in flight
	Concurrency int
	// RefreshTimeout bounds a whole refresh, it runs detached from any single caller
	RefreshTimeout time.Duration
	Currency       string
	Metrics        metrics.Service
}

type marketplaceUseCase struct {
	ledger         domain.LedgerRepo
	metadata       domain.MetadataUseCase
	assembler      domain.ListingAssembler
	purchaser      domain.PurchaseUseCase
	policy         domain.MetadataPolicy
	concurrency    int
	refreshTimeout time.Duration
	currency       string
	metrics        metrics.Service

	group singleflight.Group
	// seq numbers flights in start order
	seq uint64

	mu         sync.RWMutex
	snapshot   *domain.Snapshot
	appliedSeq uint64
	// flights numbered up to staleUntil started before the last purchase
	staleUntil uint64
}

func NewMarketplaceUseCase(cfg *MarketplaceUseCaseCfg) domain.MarketplaceUseCase {
	policy := cfg.Policy
	if policy == "" {
		policy = domain.MetadataPolicyExclude
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.New("marketplace")
	}
	return &marketplaceUseCase{
		ledger:         cfg.Ledger,
		metadata:       cfg.Metadata,
		assembler:      cfg.Assembler,
		purchaser:      cfg.Purchaser,
		policy:         policy,
		concurrency:    concurrency,
		refreshTimeout: cfg.RefreshTimeout,
		currency:       cfg.Currency,
		metrics:        m,
	}
}

// RefreshListings joins the refresh in flight or starts one. The refresh keeps running when c is
// done so other callers still receive its result.
func (u *marketplaceUseCase) RefreshListings(c bCtx.Ctx) ([]*domain.Listing, error) {
	ch := u.group.DoChan(refreshKey, func() (interface{}, error) {
		seq := atomic.AddUint64(&u.seq, 1)
		rc := bCtx.WithValue(bCtx.Detach(c), "refreshSeq", seq)
		if u.refreshTimeout > 0 {
			var cancel func()
			rc, cancel = bCtx.WithTimeout(rc, u.refreshTimeout)
			defer cancel()
		}
		snap, err := u.refresh(rc)
		if err != nil {
			return nil, err
		}
		return u.apply(rc, seq, snap), nil
	})

	select {
	case <-c.Done():
		return nil, c.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Snapshot).Listings, nil
	}
}

type fanResult struct {
	idx     int
	listing *domain.Listing
	skipped *domain.SkippedListing
}

func (u *marketplaceUseCase) refresh(c bCtx.Ctx) (*domain.Snapshot, error) {
	defer u.metrics.BumpTime("refresh.time").End()

	raws, err := u.ledger.FetchActiveListings(c)
	if err != nil {
		c.WithField("err", err).Error("ledger.FetchActiveListings failed")
		u.metrics.BumpSum("refresh.err", 1, "code:"+domain.ErrorCode(err))
		return nil, err
	}

	results := make([]fanResult, len(raws))
	if len(raws) > 0 {
		b := goroutines.NewBatch(u.concurrency, goroutines.WithBatchSize(len(raws)))
		defer b.Close()
		for i, raw := range raws {
			idx, raw := i, raw
			b.Queue(func() (interface{}, error) {
				return u.build(c, idx, raw), nil
			})
		}
		b.QueueComplete()
		for ret := range b.Results() {
			r := ret.Value().(fanResult)
			results[r.idx] = r
		}
	}

	if err := c.Err(); err != nil {
		// fetches cut short by the deadline went through the metadata policy in build
		c.WithField("err", err).Warn("refresh deadline hit during metadata fan-out")
		u.metrics.BumpSum("refresh.partial", 1)
	}

	snap := &domain.Snapshot{
		Listings:    []*domain.Listing{},
		Skipped:     []*domain.SkippedListing{},
		Currency:    u.currency,
		RefreshedAt: time.Now(),
	}
	for _, r := range results {
		if r.listing != nil {
			snap.Listings = append(snap.Listings, r.listing)
		} else {
			snap.Skipped = append(snap.Skipped, r.skipped)
		}
	}
	u.metrics.BumpAvg("refresh.listings", float64(len(snap.Listings)))
	u.metrics.BumpSum("refresh.skipped", float64(len(snap.Skipped)))
	return snap, nil
}

// build produces either a listing or the reason it was left out
func (u *marketplaceUseCase) build(c bCtx.Ctx, idx int, raw *domain.RawListing) fanResult {
	c = bCtx.WithValues(c, map[string]interface{}{
		"listingId": raw.ListingId.String(),
		"assetId":   raw.AssetId.String(),
	})

	var meta *domain.MetadataRecord
	err := c.Err()
	if err == nil {
		meta, err = u.metadata.Fetch(c, raw.TokenUri)
	}
	if err != nil && c.Err() != nil && !errors.Is(err, domain.ErrMetadataUnreachable) {
		err = domain.NewError(domain.ErrMetadataUnreachable, xerrors.Errorf("metadata fetch unfinished: %w", err))
	}
	var listing *domain.Listing
	switch {
	case err == nil:
		listing, err = u.assembler.Assemble(raw, meta)
	case u.policy == domain.MetadataPolicyPlaceholder:
		c.WithField("err", err).Warn("metadata.Fetch failed, using placeholder")
		listing, err = u.assembler.Placeholder(raw)
	}
	if err != nil {
		c.WithField("err", err).Warn("listing skipped")
		return fanResult{idx: idx, skipped: &domain.SkippedListing{
			ListingId: raw.ListingId.String(),
			AssetId:   raw.AssetId.String(),
			Code:      domain.ErrorCode(err),
			Reason:    err.Error(),
		}}
	}
	return fanResult{idx: idx, listing: listing}
}

// apply installs snap unless a later flight already did, it returns the snapshot in effect
func (u *marketplaceUseCase) apply(c bCtx.Ctx, seq uint64, snap *domain.Snapshot) *domain.Snapshot {
	u.mu.Lock()
	defer u.mu.Unlock()
	if seq < u.appliedSeq {
		c.WithFields(log.Fields{
			"seq":        seq,
			"appliedSeq": u.appliedSeq,
		}).Info("discarding outdated refresh")
		return u.snapshot
	}
	if seq <= u.staleUntil {
		snap.Stale = true
	}
	u.appliedSeq = seq
	u.snapshot = snap
	return snap
}

func (u *marketplaceUseCase) Purchase(c bCtx.Ctx, listing *domain.Listing) (*domain.Receipt, error) {
	receipt, err := u.purchaser.Purchase(c, listing)
	if err != nil {
		c.WithField("err", err).Error("purchaser.Purchase failed")
		return nil, err
	}

	u.invalidate()
	// a refresh in flight started before the sale, the next caller must not join it
	u.group.Forget(refreshKey)
	rc := bCtx.Detach(c)
	goroutine.RecoverableGo(func() {
		if _, err := u.RefreshListings(rc); err != nil {
			rc.WithField("err", err).Warn("refresh after purchase failed")
		}
	}, goroutine.WithName("refreshAfterPurchase"), goroutine.WithLogger(rc.Logger))

	return receipt, nil
}

func (u *marketplaceUseCase) invalidate() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.staleUntil = atomic.LoadUint64(&u.seq)
	if u.snapshot == nil || u.snapshot.Stale {
		return
	}
	stale := *u.snapshot
	stale.Stale = true
	u.snapshot = &stale
}

func (u *marketplaceUseCase) Current() *domain.Snapshot {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.snapshot
}

// Find matches on the listing id, asset ids repeat across contracts
func (u *marketplaceUseCase) Find(listingId int64) (*domain.Listing, error) {
	snap := u.Current()
	if snap == nil {
		return nil, domain.ErrNotFound
	}
	for _, l := range snap.Listings {
		if l.ListingId == listingId {
			return l, nil
		}
	}
	return nil, domain.ErrNotFound
}
