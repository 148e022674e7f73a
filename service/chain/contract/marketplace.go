package contract

import (
	"errors"
	"math/big"
	"strings"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	baseabi "github.com/x-xyz/marketclient/base/abi"
	bCtx "github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/domain"
	"github.com/x-xyz/marketclient/service/chain"
	"golang.org/x/xerrors"
)

type Marketplace struct {
	chainService chain.Client
	abi          ethabi.ABI
	address      common.Address
	bound        *bind.BoundContract
}

func NewMarketplace(chainService chain.Client, address common.Address) *Marketplace {
	backend := chainService.Backend()
	return &Marketplace{
		chainService: chainService,
		abi:          baseabi.MarketplaceABI,
		address:      address,
		bound:        bind.NewBoundContract(address, baseabi.MarketplaceABI, backend, backend, backend),
	}
}

func (m *Marketplace) Address() common.Address {
	return m.address
}

func (m *Marketplace) FetchMarketItems(ctx bCtx.Ctx) ([]domain.MarketItem, error) {
	method := "fetchMarketItems"
	unpacked, err := m.chainService.Call(ctx, m.address, m.abi, method)
	if err != nil {
		return nil, err
	}
	return toMarketItems(unpacked)
}

func toMarketItems(unpacked []interface{}) (items []domain.MarketItem, err error) {
	if len(unpacked) != 1 {
		return nil, domain.NewError(domain.ErrLedgerMalformedResponse, xerrors.Errorf("expect 1 output, got %d", len(unpacked)))
	}
	defer func() {
		// abi.ConvertType panics on a shape mismatch
		if r := recover(); r != nil {
			items = nil
			err = domain.NewError(domain.ErrLedgerMalformedResponse, xerrors.Errorf("convert market items: %v", r))
		}
	}()
	items = *ethabi.ConvertType(unpacked[0], new([]domain.MarketItem)).(*[]domain.MarketItem)
	return items, nil
}

// CreateMarketSale submits the purchase, the returned transaction is broadcast but not yet mined
func (m *Marketplace) CreateMarketSale(ctx bCtx.Ctx, opts *bind.TransactOpts, assetContract common.Address, saleId *big.Int) (*types.Transaction, error) {
	o := *opts
	o.Context = ctx
	tx, err := m.bound.Transact(&o, "createMarketSale", assetContract, saleId)
	if err != nil {
		return nil, classifyTransactErr(err)
	}
	return tx, nil
}

// classifyTransactErr maps errors of bind.BoundContract.Transact to the domain taxonomy.
// Gas estimation errors are flattened to strings by bind, so reverts are matched by message.
func classifyTransactErr(err error) error {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		// raised by the signer
		return err
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "execution reverted"):
		return domain.NewError(domain.ErrTransactionReverted, err)
	case strings.Contains(msg, "insufficient funds"):
		return domain.NewError(domain.ErrTransactionRejected, err)
	}
	return domain.NewError(domain.ErrLedgerUnavailable, err)
}
