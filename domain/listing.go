package domain

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
	"github.com/x-xyz/marketclient/base/ctx"
)

// MaxSafeId is the largest integer every client of the listing API can represent exactly
const MaxSafeId = 1<<53 - 1

// RawListing is an active listing as read from the marketplace contract
type RawListing struct {
	ListingId     *big.Int
	AssetId       *big.Int
	AssetContract Address
	Seller        Address
	Owner         Address
	PriceAtomic   *big.Int
	TokenUri      string
}

type Listing struct {
	Id                  int64           `json:"id"`
	ListingId           int64           `json:"listingId"`
	AssetContract       Address         `json:"assetContract"`
	Seller              Address         `json:"seller"`
	Owner               Address         `json:"owner"`
	Price               decimal.Decimal `json:"price"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	ImageRef            string          `json:"image"`
	MetadataUnavailable bool            `json:"metadataUnavailable,omitempty"`
}

// SkippedListing reports a listing left out of a refresh and why
type SkippedListing struct {
	ListingId string `json:"listingId"`
	AssetId   string `json:"assetId"`
	Code      string `json:"code"`
	Reason    string `json:"reason"`
}

type Snapshot struct {
	Listings    []*Listing        `json:"listings"`
	Skipped     []*SkippedListing `json:"skipped"`
	Currency    string            `json:"currency"`
	RefreshedAt time.Time         `json:"refreshedAt"`
	// Stale is set once a purchase went through after RefreshedAt
	Stale bool `json:"stale"`
}

type MetadataPolicy string

const (
	MetadataPolicyExclude     MetadataPolicy = "exclude"
	MetadataPolicyPlaceholder MetadataPolicy = "placeholder"
)

// SaleIdentifier selects which id is passed to createMarketSale
type SaleIdentifier string

const (
	SaleIdentifierAsset   SaleIdentifier = "asset"
	SaleIdentifierListing SaleIdentifier = "listing"
)

type LedgerRepo interface {
	// FetchActiveListings returns unsold listings with their token uri resolved
	FetchActiveListings(ctx.Ctx) ([]*RawListing, error)
}

type ListingAssembler interface {
	Assemble(*RawListing, *MetadataRecord) (*Listing, error)
	// Placeholder builds a listing for an asset whose metadata could not be retrieved
	Placeholder(*RawListing) (*Listing, error)
}

type MarketplaceUseCase interface {
	RefreshListings(ctx.Ctx) ([]*Listing, error)
	Purchase(ctx.Ctx, *Listing) (*Receipt, error)
	// Current returns the last snapshot, nil before the first successful refresh
	Current() *Snapshot
	// Find looks up a listing by listing id in the current snapshot
	Find(listingId int64) (*Listing, error)
}
