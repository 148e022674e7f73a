package domain

import (
	"github.com/x-xyz/marketclient/base/ctx"
)

type Receipt struct {
	TxHash      TxHash    `json:"txHash"`
	BlockNumber uint64    `json:"blockNumber"`
	BlockHash   BlockHash `json:"blockHash"`
	From        Address   `json:"from"`
	GasUsed     uint64    `json:"gasUsed"`
	ListingId   int64     `json:"listingId"`
	AssetId     int64     `json:"assetId"`
}

type PurchaseUseCase interface {
	Purchase(ctx.Ctx, *Listing) (*Receipt, error)
}
