package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/x-xyz/marketclient/base/ctx"
)

// WalletConnection is an unlocked signing identity
type WalletConnection interface {
	Account() common.Address
	SignTx(ctx.Ctx, *types.Transaction, *big.Int) (*types.Transaction, error)
	Close() error
}

type WalletConnector interface {
	Name() string
	// Connect asks the user for an identity, ErrNoSigningIdentity if none is granted
	Connect(ctx.Ctx) (WalletConnection, error)
}
