package usecase

import (
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/x-xyz/marketclient/base/backoff"
	bCtx "github.com/x-xyz/marketclient/base/ctx"
	baseeth "github.com/x-xyz/marketclient/base/ethereum"
	"github.com/x-xyz/marketclient/base/log"
	"github.com/x-xyz/marketclient/base/metrics"
	pricefomatter "github.com/x-xyz/marketclient/base/price_fomatter"
	"github.com/x-xyz/marketclient/domain"
	"github.com/x-xyz/marketclient/service/chain"
	"golang.org/x/xerrors"
)

type PurchaseUseCaseCfg struct {
	Chain          chain.Client
	Marketplace    domain.MarketplaceContract
	Wallet         domain.WalletConnector
	SaleIdentifier domain.SaleIdentifier
	Decimals       int32
	// GasLimit skips estimation when set
	GasLimit uint64
	// Confirmations is the number of blocks, the inclusion block counted, a purchase waits for
	Confirmations uint64
	// Timeout bounds the wait for finalization
	Timeout      time.Duration
	PollInterval time.Duration
	Metrics      metrics.Service
}

type purchaseUseCase struct {
	backend        domain.EthClientRepo
	chainId        *big.Int
	marketplace    domain.MarketplaceContract
	wallet         domain.WalletConnector
	saleIdentifier domain.SaleIdentifier
	decimals       int32
	gasLimit       uint64
	confirmations  uint64
	timeout        time.Duration
	pollInterval   time.Duration
	metrics        metrics.Service
}

func NewPurchaseUseCase(cfg *PurchaseUseCaseCfg) domain.PurchaseUseCase {
	saleIdentifier := cfg.SaleIdentifier
	if saleIdentifier == "" {
		saleIdentifier = domain.SaleIdentifierAsset
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.New("purchase")
	}
	return &purchaseUseCase{
		backend:        cfg.Chain.Backend(),
		chainId:        cfg.Chain.ChainId(),
		marketplace:    cfg.Marketplace,
		wallet:         cfg.Wallet,
		saleIdentifier: saleIdentifier,
		decimals:       cfg.Decimals,
		gasLimit:       cfg.GasLimit,
		confirmations:  cfg.Confirmations,
		timeout:        timeout,
		pollInterval:   pollInterval,
		metrics:        m,
	}
}

func (u *purchaseUseCase) Purchase(c bCtx.Ctx, listing *domain.Listing) (*domain.Receipt, error) {
	c = bCtx.WithValues(c, map[string]interface{}{
		"attemptId": uuid.NewString(),
		"listingId": listing.ListingId,
		"assetId":   listing.Id,
	})
	defer u.metrics.BumpTime("purchase.time").End()

	receipt, err := u.purchase(c, listing)
	if err != nil {
		c.WithField("err", err).Error("purchase failed")
		u.metrics.BumpSum("purchase.err", 1, "code:"+domain.ErrorCode(err))
		return nil, err
	}
	c.WithFields(log.Fields{
		"txHash":      receipt.TxHash,
		"blockNumber": receipt.BlockNumber,
	}).Info("purchase finalized")
	return receipt, nil
}

func (u *purchaseUseCase) purchase(c bCtx.Ctx, listing *domain.Listing) (*domain.Receipt, error) {
	value, err := pricefomatter.HumanToAtomic(listing.Price, u.decimals)
	if err != nil {
		return nil, domain.NewError(domain.ErrPriceConversion, xerrors.Errorf("price %s: %w", listing.Price, err))
	}

	conn, err := u.wallet.Connect(c)
	if err != nil {
		c.WithField("err", err).Warn("wallet.Connect failed")
		if errors.Is(err, domain.ErrNoSigningIdentity) {
			return nil, err
		}
		return nil, domain.NewError(domain.ErrNoSigningIdentity, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			c.WithField("err", err).Warn("conn.Close failed")
		}
	}()

	opts := u.transactOpts(c, conn, value)
	tx, err := u.marketplace.CreateMarketSale(c, opts, listing.AssetContract.ToCommon(), u.saleId(listing))
	if err != nil {
		c.WithField("err", err).Error("marketplace.CreateMarketSale failed")
		return nil, err
	}

	c = bCtx.WithValue(c, "txHash", tx.Hash().Hex())
	c.Info("transaction broadcast")

	r, err := u.waitFinalized(c, tx.Hash())
	if err != nil {
		return nil, err
	}
	return &domain.Receipt{
		TxHash:      domain.TxHash(r.TxHash.Hex()),
		BlockNumber: r.BlockNumber.Uint64(),
		BlockHash:   domain.BlockHash(r.BlockHash.Hex()),
		From:        domain.AddressFromCommon(conn.Account()),
		GasUsed:     r.GasUsed,
		ListingId:   listing.ListingId,
		AssetId:     listing.Id,
	}, nil
}

func (u *purchaseUseCase) saleId(listing *domain.Listing) *big.Int {
	if u.saleIdentifier == domain.SaleIdentifierListing {
		return big.NewInt(listing.ListingId)
	}
	return big.NewInt(listing.Id)
}

// transactOpts signs through conn and checks the signature it hands back
func (u *purchaseUseCase) transactOpts(c bCtx.Ctx, conn domain.WalletConnection, value *big.Int) *bind.TransactOpts {
	account := conn.Account()
	return &bind.TransactOpts{
		From:     account,
		Value:    value,
		GasLimit: u.gasLimit,
		Context:  c,
		Signer: func(addr common.Address, tx *types.Transaction) (*types.Transaction, error) {
			if addr != account {
				return nil, domain.NewError(domain.ErrTransactionRejected, bind.ErrNotAuthorized)
			}
			signed, err := conn.SignTx(c, tx, u.chainId)
			if err != nil {
				if errors.Is(err, domain.ErrTransactionRejected) {
					return nil, err
				}
				return nil, domain.NewError(domain.ErrTransactionRejected, err)
			}
			if err := baseeth.ValidateTxSigner(signed, u.chainId, account); err != nil {
				return nil, domain.NewError(domain.ErrTransactionRejected, err)
			}
			return signed, nil
		},
	}
}

// waitFinalized polls until hash is mined with the configured confirmations.
// A done c abandons the wait with ErrTransactionTimeout, the transaction itself stays broadcast.
func (u *purchaseUseCase) waitFinalized(c bCtx.Ctx, hash common.Hash) (*types.Receipt, error) {
	wc, cancel := bCtx.WithTimeout(c, u.timeout)
	defer cancel()

	b := backoff.NewConstant(u.pollInterval)
	for {
		r, err := u.backend.TransactionReceipt(wc, hash)
		switch {
		case err == nil && r != nil:
			if r.Status == types.ReceiptStatusFailed {
				return nil, domain.NewError(domain.ErrTransactionReverted, xerrors.Errorf("tx %s reverted in block %v", hash.Hex(), r.BlockNumber))
			}
			final, err := u.isFinal(wc, r)
			if err != nil {
				c.WithField("err", err).Warn("backend.BlockNumber failed")
			} else if final {
				return r, nil
			}
		case err != nil && err != ethereum.NotFound:
			c.WithField("err", err).Warn("backend.TransactionReceipt failed")
		}

		if err := b.Backoff(wc); err != nil {
			if c.Err() != nil {
				// still pending on chain, only the wait ends here
				return nil, domain.NewError(domain.ErrTransactionTimeout, xerrors.Errorf("stopped waiting for tx %s: %w", hash.Hex(), c.Err()))
			}
			return nil, domain.NewError(domain.ErrTransactionTimeout, xerrors.Errorf("tx %s not final after %v", hash.Hex(), u.timeout))
		}
	}
}

func (u *purchaseUseCase) isFinal(c bCtx.Ctx, r *types.Receipt) (bool, error) {
	if u.confirmations <= 1 {
		return true, nil
	}
	head, err := u.backend.BlockNumber(c)
	if err != nil {
		return false, err
	}
	return head+1 >= r.BlockNumber.Uint64()+u.confirmations, nil
}
