package usecase

import (
	"math/big"

	pricefomatter "github.com/x-xyz/marketclient/base/price_fomatter"
	"github.com/x-xyz/marketclient/domain"
	"golang.org/x/xerrors"
)

// PlaceholderName is shown in place of the name of an asset without metadata
const PlaceholderName = "Metadata unavailable"

var maxSafeId = big.NewInt(domain.MaxSafeId)

type assembler struct {
	decimals int32
}

// NewAssembler converts prices with the given number of decimals of the ledger currency
func NewAssembler(decimals int32) domain.ListingAssembler {
	return &assembler{decimals: decimals}
}

func (a *assembler) Assemble(raw *domain.RawListing, meta *domain.MetadataRecord) (*domain.Listing, error) {
	l, err := a.base(raw)
	if err != nil {
		return nil, err
	}
	if meta != nil {
		l.Name = meta.Name
		l.Description = meta.Description
		l.ImageRef = meta.ImageRef
	}
	return l, nil
}

func (a *assembler) Placeholder(raw *domain.RawListing) (*domain.Listing, error) {
	l, err := a.base(raw)
	if err != nil {
		return nil, err
	}
	l.Name = PlaceholderName
	l.MetadataUnavailable = true
	return l, nil
}

func (a *assembler) base(raw *domain.RawListing) (*domain.Listing, error) {
	id, err := safeId(raw.AssetId)
	if err != nil {
		return nil, err
	}
	listingId, err := safeId(raw.ListingId)
	if err != nil {
		return nil, err
	}
	if raw.PriceAtomic == nil || raw.PriceAtomic.Sign() < 0 {
		return nil, domain.NewError(domain.ErrPriceConversion, xerrors.Errorf("invalid price %v", raw.PriceAtomic))
	}
	return &domain.Listing{
		Id:            id,
		ListingId:     listingId,
		AssetContract: raw.AssetContract,
		Seller:        raw.Seller,
		Owner:         raw.Owner,
		Price:         pricefomatter.AtomicToHuman(raw.PriceAtomic, a.decimals),
	}, nil
}

func safeId(v *big.Int) (int64, error) {
	if v == nil || v.Sign() < 0 || v.Cmp(maxSafeId) > 0 {
		return 0, domain.NewError(domain.ErrIdOutOfRange, xerrors.Errorf("id %v", v))
	}
	return v.Int64(), nil
}
