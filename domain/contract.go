package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/x-xyz/marketclient/base/ctx"
)

// MarketItem mirrors the tuple returned by fetchMarketItems
type MarketItem struct {
	ItemId      *big.Int
	NftContract common.Address
	TokenId     *big.Int
	Seller      common.Address
	Owner       common.Address
	Price       *big.Int
	Sold        bool
}

type MarketplaceContract interface {
	Address() common.Address
	FetchMarketItems(ctx.Ctx) ([]MarketItem, error)
	CreateMarketSale(c ctx.Ctx, opts *bind.TransactOpts, assetContract common.Address, saleId *big.Int) (*types.Transaction, error)
}

type AssetContract interface {
	TokenURI(c ctx.Ctx, assetContract common.Address, tokenId *big.Int) (string, error)
}
