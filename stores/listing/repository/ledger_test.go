package repository

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	baseabi "github.com/x-xyz/marketclient/base/abi"
	bCtx "github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/domain"
	"github.com/x-xyz/marketclient/domain/mocks"
	"github.com/x-xyz/marketclient/service/chain"
	"github.com/x-xyz/marketclient/service/chain/chaintest"
	"github.com/x-xyz/marketclient/service/chain/contract"
)

var (
	mockCtx   = bCtx.Background()
	nftAddr   = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	otherNft  = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	sellerAdr = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	price     = func() *big.Int { p, _ := new(big.Int).SetString("1500000000000000000", 10); return p }()
)

func item(id, tokenId int64, sold bool) domain.MarketItem {
	return domain.MarketItem{
		ItemId:      big.NewInt(id),
		NftContract: nftAddr,
		TokenId:     big.NewInt(tokenId),
		Seller:      sellerAdr,
		Price:       price,
		Sold:        sold,
	}
}

type ledgerSuite struct {
	suite.Suite

	market *mocks.MarketplaceContract
	asset  *mocks.AssetContract
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(ledgerSuite))
}

func (s *ledgerSuite) SetupTest() {
	s.market = &mocks.MarketplaceContract{}
	s.asset = &mocks.AssetContract{}
}

func (s *ledgerSuite) TearDownTest() {
	s.market.AssertExpectations(s.T())
	s.asset.AssertExpectations(s.T())
}

func (s *ledgerSuite) repo(filter common.Address) domain.LedgerRepo {
	return NewLedgerRepo(&LedgerRepoCfg{
		Marketplace: s.market,
		Asset:       s.asset,
		AssetFilter: filter,
		Timeout:     time.Second,
		Concurrency: 2,
	})
}

func (s *ledgerSuite) TestSkipsSoldAndResolvesUris() {
	s.market.On("FetchMarketItems", mock.Anything).Return([]domain.MarketItem{
		item(1, 11, false),
		item(2, 12, true),
		item(3, 13, false),
	}, nil).Once()
	s.asset.On("TokenURI", mock.Anything, nftAddr, big.NewInt(11)).Return("ipfs://cid/11", nil).Once()
	s.asset.On("TokenURI", mock.Anything, nftAddr, big.NewInt(13)).Return("ipfs://cid/13", nil).Once()

	got, err := s.repo(common.Address{}).FetchActiveListings(mockCtx)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(int64(1), got[0].ListingId.Int64())
	s.Equal("ipfs://cid/11", got[0].TokenUri)
	s.Equal(int64(13), got[1].AssetId.Int64())
	s.Equal("ipfs://cid/13", got[1].TokenUri)
	s.Equal(domain.AddressFromCommon(sellerAdr), got[1].Seller)
	s.Equal(0, got[1].PriceAtomic.Cmp(price))
}

func (s *ledgerSuite) TestEmpty() {
	s.market.On("FetchMarketItems", mock.Anything).Return([]domain.MarketItem{}, nil).Once()

	got, err := s.repo(common.Address{}).FetchActiveListings(mockCtx)
	s.NoError(err)
	s.Empty(got)
}

func (s *ledgerSuite) TestAssetFilter() {
	other := item(2, 12, false)
	other.NftContract = otherNft
	s.market.On("FetchMarketItems", mock.Anything).Return([]domain.MarketItem{item(1, 11, false), other}, nil).Once()
	s.asset.On("TokenURI", mock.Anything, nftAddr, big.NewInt(11)).Return("ipfs://cid/11", nil).Once()

	got, err := s.repo(nftAddr).FetchActiveListings(mockCtx)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(int64(11), got[0].AssetId.Int64())
}

func (s *ledgerSuite) TestMissingPrice() {
	broken := item(1, 11, false)
	broken.Price = nil
	s.market.On("FetchMarketItems", mock.Anything).Return([]domain.MarketItem{broken}, nil).Once()

	_, err := s.repo(common.Address{}).FetchActiveListings(mockCtx)
	s.True(errors.Is(err, domain.ErrLedgerMalformedResponse))
}

func (s *ledgerSuite) TestMarketplaceFailure() {
	s.market.On("FetchMarketItems", mock.Anything).Return(nil, errors.New("dial tcp: connection refused")).Once()

	_, err := s.repo(common.Address{}).FetchActiveListings(mockCtx)
	s.True(errors.Is(err, domain.ErrLedgerUnavailable))
}

func (s *ledgerSuite) TestTimeout() {
	s.market.On("FetchMarketItems", mock.Anything).Return(nil, context.DeadlineExceeded).Run(func(args mock.Arguments) {
		<-args.Get(0).(bCtx.Ctx).Done()
	}).Once()
	r := NewLedgerRepo(&LedgerRepoCfg{Marketplace: s.market, Asset: s.asset, Timeout: 10 * time.Millisecond})

	_, err := r.FetchActiveListings(mockCtx)
	s.True(errors.Is(err, domain.ErrLedgerUnavailable))
	s.True(errors.Is(err, context.DeadlineExceeded))
}

func (s *ledgerSuite) TestTokenUriFailureAborts() {
	s.market.On("FetchMarketItems", mock.Anything).Return([]domain.MarketItem{item(1, 11, false), item(2, 12, false)}, nil).Once()
	s.asset.On("TokenURI", mock.Anything, nftAddr, big.NewInt(11)).Return("ipfs://cid/11", nil).Maybe()
	s.asset.On("TokenURI", mock.Anything, nftAddr, big.NewInt(12)).
		Return("", domain.NewError(domain.ErrLedgerMalformedResponse, errors.New("bad string"))).Once()

	_, err := s.repo(common.Address{}).FetchActiveListings(mockCtx)
	s.True(errors.Is(err, domain.ErrLedgerMalformedResponse))
}

// TestSimulatedLedger reads through the abi wrappers against deployed bytecode
func (s *ledgerSuite) TestSimulatedLedger() {
	key, err := crypto.GenerateKey()
	s.Require().NoError(err)
	backend := chaintest.NewBackend(crypto.PubkeyToAddress(key.PublicKey))
	defer backend.Close()

	uri, err := baseabi.ERC721TokenABI.Methods["tokenURI"].Outputs.Pack("ipfs://cid/meta.json")
	s.Require().NoError(err)
	nft, err := backend.Deploy(key, chaintest.ReturnRuntime(uri))
	s.Require().NoError(err)

	listed := item(7, 42, false)
	listed.NftContract = nft
	sold := item(8, 43, true)
	sold.NftContract = nft
	out, err := baseabi.MarketplaceABI.Methods["fetchMarketItems"].Outputs.Pack([]domain.MarketItem{listed, sold})
	s.Require().NoError(err)
	market, err := backend.Deploy(key, chaintest.ReturnRuntime(out))
	s.Require().NoError(err)

	client := chain.NewClientWithBackend(backend, chaintest.ChainId)
	r := NewLedgerRepo(&LedgerRepoCfg{
		Marketplace: contract.NewMarketplace(client, market),
		Asset:       contract.NewErc721(client),
		Timeout:     time.Second,
	})

	got, err := r.FetchActiveListings(mockCtx)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(int64(7), got[0].ListingId.Int64())
	s.Equal(int64(42), got[0].AssetId.Int64())
	s.Equal(domain.AddressFromCommon(nft), got[0].AssetContract)
	s.Equal("ipfs://cid/meta.json", got[0].TokenUri)
}
