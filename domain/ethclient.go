package domain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// just using go-ethereum/ethclient
type EthClientRepo interface {
	bind.ContractBackend
	ChainID(context.Context) (*big.Int, error)
	BlockNumber(context.Context) (uint64, error)
	TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error)
}
