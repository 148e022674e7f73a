package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	bCtx "github.com/x-xyz/marketclient/base/ctx"
	baseeth "github.com/x-xyz/marketclient/base/ethereum"
	"github.com/x-xyz/marketclient/base/log"
	"github.com/x-xyz/marketclient/domain"
	"golang.org/x/xerrors"
)

type ClientCfg struct {
	RpcUrl string
	// Throttle bounds concurrent rpc calls
	Throttle int
}

type Client interface {
	// Call runs a read-only contract method against the latest block
	Call(bCtx.Ctx, common.Address, abi.ABI, string, ...interface{}) ([]interface{}, error)
	Backend() domain.EthClientRepo
	ChainId() *big.Int
}

type clientImpl struct {
	backend domain.EthClientRepo
	chainId *big.Int
}

func NewClient(ctx bCtx.Ctx, cfg *ClientCfg) (Client, error) {
	client, err := baseeth.Dial(ctx, cfg.RpcUrl, cfg.Throttle)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"url": cfg.RpcUrl,
		}).Error("baseeth.Dial failed")
		return nil, domain.NewError(domain.ErrLedgerUnavailable, err)
	}
	chainId, err := client.ChainID(ctx)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"url": cfg.RpcUrl,
		}).Error("client.ChainID failed")
		client.Close()
		return nil, domain.NewError(domain.ErrLedgerUnavailable, err)
	}
	ctx.WithFields(log.Fields{
		"url":     cfg.RpcUrl,
		"chainId": chainId,
	}).Info("rpc connected")
	return NewClientWithBackend(client, chainId), nil
}

func NewClientWithBackend(backend domain.EthClientRepo, chainId *big.Int) Client {
	return &clientImpl{
		backend: backend,
		chainId: chainId,
	}
}

func (c *clientImpl) Backend() domain.EthClientRepo {
	return c.backend
}

func (c *clientImpl) ChainId() *big.Int {
	return new(big.Int).Set(c.chainId)
}

func (c *clientImpl) Call(ctx bCtx.Ctx, addr common.Address, _abi abi.ABI, method string, params ...interface{}) ([]interface{}, error) {
	data, err := _abi.Pack(method, params...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"params": params,
			"err":    err,
		}).Error("abi.Pack failed")
		return nil, xerrors.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{
		To:   &addr,
		Data: data,
	}
	res, err := c.backend.CallContract(ctx, msg, nil)
	if err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"err":    err,
		}).Error("client.CallContract failed")
		return nil, domain.NewError(domain.ErrLedgerUnavailable, err)
	}
	unpacked, err := _abi.Unpack(method, res)
	if err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"err":    err,
		}).Error("abi.Unpack failed")
		return nil, domain.NewError(domain.ErrLedgerMalformedResponse, err)
	}
	return unpacked, nil
}
