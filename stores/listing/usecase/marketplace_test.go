package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	bCtx "github.com/x-xyz/marketclient/base/ctx"
	pricefomatter "github.com/x-xyz/marketclient/base/price_fomatter"
	"github.com/x-xyz/marketclient/domain"
	"github.com/x-xyz/marketclient/domain/mocks"
)

var mockCtx = bCtx.Background()

type marketplaceSuite struct {
	suite.Suite

	ledger    *mocks.LedgerRepo
	metadata  *mocks.MetadataUseCase
	purchaser *mocks.PurchaseUseCase
}

func TestMarketplaceSuite(t *testing.T) {
	suite.Run(t, new(marketplaceSuite))
}

func (s *marketplaceSuite) SetupTest() {
	s.ledger = &mocks.LedgerRepo{}
	s.metadata = &mocks.MetadataUseCase{}
	s.purchaser = &mocks.PurchaseUseCase{}
}

func (s *marketplaceSuite) TearDownTest() {
	s.ledger.AssertExpectations(s.T())
	s.metadata.AssertExpectations(s.T())
	s.purchaser.AssertExpectations(s.T())
}

func (s *marketplaceSuite) newUseCase(policy domain.MetadataPolicy) *marketplaceUseCase {
	return NewMarketplaceUseCase(&MarketplaceUseCaseCfg{
		Ledger:         s.ledger,
		Metadata:       s.metadata,
		Assembler:      NewAssembler(pricefomatter.NativeDecimals),
		Purchaser:      s.purchaser,
		Policy:         policy,
		Concurrency:    2,
		RefreshTimeout: time.Second,
		Currency:       "MATIC",
	}).(*marketplaceUseCase)
}

func (s *marketplaceSuite) expectMetadata(raws ...*domain.RawListing) {
	for _, r := range raws {
		s.metadata.On("Fetch", mock.Anything, r.TokenUri).
			Return(&domain.MetadataRecord{Name: "asset " + r.AssetId.String(), ImageRef: "ipfs://img"}, nil)
	}
}

func threeRaws() []*domain.RawListing {
	return []*domain.RawListing{
		rawListing(1, 11, "1500000000000000000"),
		rawListing(2, 12, "0"),
		rawListing(3, 13, "2000000000000000000"),
	}
}

func (s *marketplaceSuite) TestRefreshAll() {
	raws := threeRaws()
	s.ledger.On("FetchActiveListings", mock.Anything).Return(raws, nil).Once()
	s.expectMetadata(raws...)
	u := s.newUseCase(domain.MetadataPolicyExclude)

	s.Nil(u.Current())
	_, err := u.Find(1)
	s.Equal(domain.ErrNotFound, err)

	listings, err := u.RefreshListings(mockCtx)
	s.Require().NoError(err)
	s.Require().Len(listings, 3)
	s.Equal(int64(11), listings[0].Id)
	s.Equal("1.5", listings[0].Price.String())
	s.Equal("asset 11", listings[0].Name)
	s.Equal("0", listings[1].Price.String())
	s.Equal(int64(13), listings[2].Id)

	snap := u.Current()
	s.Require().NotNil(snap)
	s.Equal(listings, snap.Listings)
	s.Empty(snap.Skipped)
	s.Equal("MATIC", snap.Currency)
	s.False(snap.Stale)

	found, err := u.Find(2)
	s.NoError(err)
	s.Equal(int64(12), found.Id)
	_, err = u.Find(99)
	s.Equal(domain.ErrNotFound, err)
}

func (s *marketplaceSuite) TestFindSharedTokenId() {
	first := rawListing(1, 7, "1000000000000000000")
	first.AssetContract = "0x00000000000000000000000000000000000000aa"
	second := rawListing(2, 7, "2000000000000000000")
	second.AssetContract = "0x00000000000000000000000000000000000000bb"
	second.TokenUri = "ipfs://other/7"
	raws := []*domain.RawListing{first, second}
	s.ledger.On("FetchActiveListings", mock.Anything).Return(raws, nil).Once()
	s.expectMetadata(raws...)
	u := s.newUseCase(domain.MetadataPolicyExclude)

	_, err := u.RefreshListings(mockCtx)
	s.Require().NoError(err)

	found, err := u.Find(1)
	s.Require().NoError(err)
	s.Equal(domain.Address("0x00000000000000000000000000000000000000aa"), found.AssetContract)
	s.Equal("1", found.Price.String())

	found, err = u.Find(2)
	s.Require().NoError(err)
	s.Equal(domain.Address("0x00000000000000000000000000000000000000bb"), found.AssetContract)
	s.Equal("2", found.Price.String())
	s.Equal(int64(7), found.Id)
}

func (s *marketplaceSuite) TestRefreshEmpty() {
	s.ledger.On("FetchActiveListings", mock.Anything).Return([]*domain.RawListing{}, nil).Once()
	u := s.newUseCase(domain.MetadataPolicyExclude)

	listings, err := u.RefreshListings(mockCtx)
	s.NoError(err)
	s.Empty(listings)
	s.Require().NotNil(u.Current())
	s.Empty(u.Current().Listings)
}

func (s *marketplaceSuite) TestMetadataFailureExcluded() {
	raws := threeRaws()
	s.ledger.On("FetchActiveListings", mock.Anything).Return(raws, nil).Once()
	s.expectMetadata(raws[0], raws[2])
	s.metadata.On("Fetch", mock.Anything, raws[1].TokenUri).
		Return(nil, domain.NewError(domain.ErrMetadataUnreachable, errors.New("404"))).Once()
	u := s.newUseCase(domain.MetadataPolicyExclude)

	listings, err := u.RefreshListings(mockCtx)
	s.Require().NoError(err)
	s.Require().Len(listings, 2)
	s.Equal(int64(11), listings[0].Id)
	s.Equal(int64(13), listings[1].Id)

	skipped := u.Current().Skipped
	s.Require().Len(skipped, 1)
	s.Equal("2", skipped[0].ListingId)
	s.Equal("12", skipped[0].AssetId)
	s.Equal("MetadataUnreachable", skipped[0].Code)
}

func (s *marketplaceSuite) TestMetadataFailurePlaceholder() {
	raws := threeRaws()
	s.ledger.On("FetchActiveListings", mock.Anything).Return(raws, nil).Once()
	s.expectMetadata(raws[0], raws[2])
	s.metadata.On("Fetch", mock.Anything, raws[1].TokenUri).
		Return(nil, domain.NewError(domain.ErrMetadataInvalid, errors.New("not json"))).Once()
	u := s.newUseCase(domain.MetadataPolicyPlaceholder)

	listings, err := u.RefreshListings(mockCtx)
	s.Require().NoError(err)
	s.Require().Len(listings, 3)
	s.True(listings[1].MetadataUnavailable)
	s.Equal(PlaceholderName, listings[1].Name)
	s.False(listings[0].MetadataUnavailable)
	s.Empty(u.Current().Skipped)
}

func (s *marketplaceSuite) TestDeadlineDuringFanOutKeepsFinished() {
	raws := threeRaws()
	s.ledger.On("FetchActiveListings", mock.Anything).Return(raws, nil).Once()
	s.expectMetadata(raws[0], raws[2])
	s.metadata.On("Fetch", mock.Anything, raws[1].TokenUri).Return(nil, context.DeadlineExceeded).Run(func(args mock.Arguments) {
		<-args.Get(0).(bCtx.Ctx).Done()
	}).Once()
	u := s.newUseCase(domain.MetadataPolicyExclude)
	u.refreshTimeout = 100 * time.Millisecond

	listings, err := u.RefreshListings(mockCtx)
	s.Require().NoError(err)
	s.Require().Len(listings, 2)
	s.Equal(int64(11), listings[0].Id)
	s.Equal(int64(13), listings[1].Id)

	snap := u.Current()
	s.Require().NotNil(snap)
	s.Require().Len(snap.Skipped, 1)
	s.Equal("2", snap.Skipped[0].ListingId)
	s.Equal("MetadataUnreachable", snap.Skipped[0].Code)
}

func (s *marketplaceSuite) TestIdOutOfRangeSkipped() {
	raws := threeRaws()
	raws[2].AssetId = bigFromString("9007199254740992")
	s.ledger.On("FetchActiveListings", mock.Anything).Return(raws, nil).Once()
	s.expectMetadata(raws...)
	u := s.newUseCase(domain.MetadataPolicyExclude)

	listings, err := u.RefreshListings(mockCtx)
	s.Require().NoError(err)
	s.Len(listings, 2)
	s.Require().Len(u.Current().Skipped, 1)
	s.Equal("IdOutOfRange", u.Current().Skipped[0].Code)
}

func (s *marketplaceSuite) TestLedgerFailureKeepsSnapshot() {
	raws := threeRaws()
	s.ledger.On("FetchActiveListings", mock.Anything).Return(raws, nil).Once()
	s.ledger.On("FetchActiveListings", mock.Anything).
		Return(nil, domain.NewError(domain.ErrLedgerUnavailable, context.DeadlineExceeded)).Once()
	s.expectMetadata(raws...)
	u := s.newUseCase(domain.MetadataPolicyExclude)

	_, err := u.RefreshListings(mockCtx)
	s.Require().NoError(err)
	before := u.Current()

	_, err = u.RefreshListings(mockCtx)
	s.True(errors.Is(err, domain.ErrLedgerUnavailable))
	s.Equal(before, u.Current())
}

func (s *marketplaceSuite) TestLedgerFailureBeforeFirstRefresh() {
	s.ledger.On("FetchActiveListings", mock.Anything).
		Return(nil, domain.NewError(domain.ErrLedgerUnavailable, errors.New("refused"))).Once()
	u := s.newUseCase(domain.MetadataPolicyExclude)

	_, err := u.RefreshListings(mockCtx)
	s.True(errors.Is(err, domain.ErrLedgerUnavailable))
	s.Nil(u.Current())
}

func (s *marketplaceSuite) TestConcurrentRefreshesShareFlight() {
	raws := threeRaws()
	started := make(chan struct{})
	release := make(chan struct{})
	s.ledger.On("FetchActiveListings", mock.Anything).Return(raws, nil).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Once()
	s.expectMetadata(raws...)
	u := s.newUseCase(domain.MetadataPolicyExclude)

	const callers = 4
	results := make([][]*domain.Listing, callers)
	wg := sync.WaitGroup{}
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			listings, err := u.RefreshListings(mockCtx)
			s.NoError(err)
			results[i] = listings
		}(i)
	}
	<-started
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 1; i < callers; i++ {
		s.Equal(results[0], results[i])
	}
	s.Len(results[0], 3)
}

func (s *marketplaceSuite) TestCallerCancelDoesNotAbortRefresh() {
	raws := threeRaws()
	release := make(chan struct{})
	s.ledger.On("FetchActiveListings", mock.Anything).Return(raws, nil).Run(func(mock.Arguments) {
		<-release
	}).Once()
	s.expectMetadata(raws...)
	u := s.newUseCase(domain.MetadataPolicyExclude)

	c, cancel := bCtx.WithTimeout(mockCtx, 10*time.Millisecond)
	defer cancel()
	_, err := u.RefreshListings(c)
	s.Equal(context.DeadlineExceeded, err)

	close(release)
	s.Eventually(func() bool {
		return u.Current() != nil
	}, time.Second, 5*time.Millisecond)
	s.Len(u.Current().Listings, 3)
}

func (s *marketplaceSuite) TestPurchaseInvalidatesAndRefreshes() {
	raws := threeRaws()
	s.ledger.On("FetchActiveListings", mock.Anything).Return(raws, nil).Once()
	s.ledger.On("FetchActiveListings", mock.Anything).Return(raws[1:], nil).Once()
	s.expectMetadata(raws...)
	u := s.newUseCase(domain.MetadataPolicyExclude)

	listings, err := u.RefreshListings(mockCtx)
	s.Require().NoError(err)

	receipt := &domain.Receipt{TxHash: "0x01", BlockNumber: 5, ListingId: 1, AssetId: 11}
	s.purchaser.On("Purchase", mock.Anything, listings[0]).Return(receipt, nil).Once()

	got, err := u.Purchase(mockCtx, listings[0])
	s.Require().NoError(err)
	s.Equal(receipt, got)

	s.Eventually(func() bool {
		snap := u.Current()
		return len(snap.Listings) == 2 && !snap.Stale
	}, time.Second, 5*time.Millisecond)
	_, err = u.Find(1)
	s.Equal(domain.ErrNotFound, err)
}

func (s *marketplaceSuite) TestPurchaseMarksStale() {
	raws := threeRaws()
	release := make(chan struct{})
	s.ledger.On("FetchActiveListings", mock.Anything).Return(raws, nil).Once()
	s.ledger.On("FetchActiveListings", mock.Anything).Return(raws[1:], nil).Run(func(mock.Arguments) {
		<-release
	}).Once()
	s.expectMetadata(raws...)
	u := s.newUseCase(domain.MetadataPolicyExclude)

	listings, err := u.RefreshListings(mockCtx)
	s.Require().NoError(err)
	s.purchaser.On("Purchase", mock.Anything, listings[0]).Return(&domain.Receipt{}, nil).Once()

	_, err = u.Purchase(mockCtx, listings[0])
	s.Require().NoError(err)
	s.True(u.Current().Stale)
	s.Len(u.Current().Listings, 3)

	close(release)
	s.Eventually(func() bool {
		return !u.Current().Stale
	}, time.Second, 5*time.Millisecond)
}

func (s *marketplaceSuite) TestPreSaleFlightStaysStale() {
	raws := threeRaws()
	started := make(chan struct{})
	release := make(chan struct{})
	releaseAfterSale := make(chan struct{})
	s.ledger.On("FetchActiveListings", mock.Anything).Return(raws, nil).Once()
	s.ledger.On("FetchActiveListings", mock.Anything).Return(raws, nil).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Once()
	s.ledger.On("FetchActiveListings", mock.Anything).Return(raws[1:], nil).Run(func(mock.Arguments) {
		<-releaseAfterSale
	}).Once()
	s.expectMetadata(raws...)
	u := s.newUseCase(domain.MetadataPolicyExclude)

	listings, err := u.RefreshListings(mockCtx)
	s.Require().NoError(err)

	done := make(chan []*domain.Listing)
	go func() {
		listings, err := u.RefreshListings(mockCtx)
		s.NoError(err)
		done <- listings
	}()
	<-started

	s.purchaser.On("Purchase", mock.Anything, listings[0]).Return(&domain.Receipt{}, nil).Once()
	_, err = u.Purchase(mockCtx, listings[0])
	s.Require().NoError(err)

	// the flight read the ledger before the sale landed
	close(release)
	s.Len(<-done, 3)
	s.True(u.Current().Stale)
	s.Len(u.Current().Listings, 3)

	close(releaseAfterSale)
	s.Eventually(func() bool {
		snap := u.Current()
		return !snap.Stale && len(snap.Listings) == 2
	}, time.Second, 5*time.Millisecond)
}

func (s *marketplaceSuite) TestPurchaseFailureSurfaces() {
	raws := threeRaws()
	s.ledger.On("FetchActiveListings", mock.Anything).Return(raws, nil).Once()
	s.expectMetadata(raws...)
	u := s.newUseCase(domain.MetadataPolicyExclude)

	listings, err := u.RefreshListings(mockCtx)
	s.Require().NoError(err)

	reverted := domain.NewError(domain.ErrTransactionReverted, errors.New("execution reverted"))
	s.purchaser.On("Purchase", mock.Anything, listings[0]).Return(nil, reverted).Once()

	_, err = u.Purchase(mockCtx, listings[0])
	s.Equal(reverted, err)
	s.False(u.Current().Stale)
}

func (s *marketplaceSuite) TestOutdatedFlightDiscarded() {
	old := threeRaws()
	fresh := old[1:]
	started := make(chan struct{})
	release := make(chan struct{})
	s.ledger.On("FetchActiveListings", mock.Anything).Return(old, nil).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Once()
	s.ledger.On("FetchActiveListings", mock.Anything).Return(fresh, nil).Once()
	s.expectMetadata(old...)
	s.purchaser.On("Purchase", mock.Anything, mock.Anything).Return(&domain.Receipt{}, nil).Once()
	u := s.newUseCase(domain.MetadataPolicyExclude)

	done := make(chan []*domain.Listing)
	go func() {
		listings, err := u.RefreshListings(mockCtx)
		s.NoError(err)
		done <- listings
	}()
	<-started

	// the purchase starts a second flight that overtakes the first
	_, err := u.Purchase(mockCtx, &domain.Listing{Id: 11})
	s.Require().NoError(err)
	s.Eventually(func() bool {
		snap := u.Current()
		return snap != nil && len(snap.Listings) == 2
	}, time.Second, 5*time.Millisecond)

	close(release)
	listings := <-done
	s.Len(listings, 2)
	s.Len(u.Current().Listings, 2)
}
