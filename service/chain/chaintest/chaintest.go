// Package chaintest runs contracts on an in-memory ledger for tests.
package chaintest

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/backends"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/types"
)

// ChainId of the simulated ledger
var ChainId = big.NewInt(1337)

var (
	// RevertRuntime reverts every call
	RevertRuntime = hexutil.MustDecode("0x60006000fd")
	// SellOnceRuntime accepts the first state changing call and reverts afterwards
	SellOnceRuntime = hexutil.MustDecode("0x60005415600c5760006000fd5b600160005500")
)

// Backend mines a block for every accepted transaction
type Backend struct {
	*backends.SimulatedBackend
}

// NewBackend funds every account with 1000 whole units
func NewBackend(funded ...common.Address) *Backend {
	alloc := core.GenesisAlloc{}
	balance := new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18))
	for _, a := range funded {
		alloc[a] = core.GenesisAccount{Balance: balance}
	}
	return &Backend{SimulatedBackend: backends.NewSimulatedBackend(alloc, 30_000_000)}
}

func (b *Backend) ChainID(context.Context) (*big.Int, error) {
	return new(big.Int).Set(ChainId), nil
}

func (b *Backend) BlockNumber(context.Context) (uint64, error) {
	return b.Blockchain().CurrentBlock().NumberU64(), nil
}

func (b *Backend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := b.SimulatedBackend.SendTransaction(ctx, tx); err != nil {
		return err
	}
	b.Commit()
	return nil
}

func (b *Backend) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	r, err := b.SimulatedBackend.TransactionReceipt(ctx, hash)
	if err == nil && r == nil {
		return nil, ethereum.NotFound
	}
	return r, err
}

// Deploy installs runtime at a new address
func (b *Backend) Deploy(key *ecdsa.PrivateKey, runtime []byte) (common.Address, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(key, ChainId)
	if err != nil {
		return common.Address{}, err
	}
	addr, _, _, err := bind.DeployContract(opts, abi.ABI{}, InitCode(runtime), b)
	return addr, err
}

// InitCode wraps runtime into creation code that returns it
func InitCode(runtime []byte) []byte {
	l := len(runtime)
	header := []byte{
		0x61, byte(l >> 8), byte(l), // PUSH2 len
		0x60, 0x0e, // PUSH1 offset
		0x60, 0x00, // PUSH1 0
		0x39,                        // CODECOPY
		0x61, byte(l >> 8), byte(l), // PUSH2 len
		0x60, 0x00, // PUSH1 0
		0xf3, // RETURN
	}
	return append(header, runtime...)
}

// ReturnRuntime answers every call with data
func ReturnRuntime(data []byte) []byte {
	l := len(data)
	header := []byte{
		0x61, byte(l >> 8), byte(l), // PUSH2 len
		0x61, 0x00, 0x0f, // PUSH2 offset
		0x60, 0x00, // PUSH1 0
		0x39,                        // CODECOPY
		0x61, byte(l >> 8), byte(l), // PUSH2 len
		0x60, 0x00, // PUSH1 0
		0xf3, // RETURN
	}
	return append(header, data...)
}
