package repository

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/external"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	bCtx "github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/base/log"
	"github.com/x-xyz/marketclient/domain"
	"golang.org/x/xerrors"
)

// externalSigner is the part of clef's api a connection needs
type externalSigner interface {
	Accounts() []accounts.Account
	SignTx(account accounts.Account, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

type externalConnector struct {
	endpoint string
	account  common.Address
	dial     func(endpoint string) (externalSigner, error)
}

// NewExternalConnector signs through a clef compatible signer at endpoint,
// approval of every request happens in the signer's own ui
func NewExternalConnector(endpoint string, account common.Address) domain.WalletConnector {
	return &externalConnector{
		endpoint: endpoint,
		account:  account,
		dial: func(endpoint string) (externalSigner, error) {
			return external.NewExternalSigner(endpoint)
		},
	}
}

func (e *externalConnector) Name() string {
	return ProviderExternal
}

func (e *externalConnector) Connect(c bCtx.Ctx) (domain.WalletConnection, error) {
	signer, err := e.dial(e.endpoint)
	if err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"endpoint": e.endpoint,
		}).Warn("external.NewExternalSigner failed")
		return nil, domain.NewError(domain.ErrNoSigningIdentity, err)
	}

	// clef asks the user which accounts to disclose
	all := signer.Accounts()
	for _, a := range all {
		if e.account == (common.Address{}) || a.Address == e.account {
			return &externalConnection{signer: signer, account: a}, nil
		}
	}
	return nil, domain.NewError(domain.ErrNoSigningIdentity, xerrors.Errorf("signer disclosed %d accounts, none usable", len(all)))
}

type externalConnection struct {
	signer  externalSigner
	account accounts.Account
}

func (e *externalConnection) Account() common.Address {
	return e.account.Address
}

func (e *externalConnection) SignTx(c bCtx.Ctx, tx *types.Transaction, chainId *big.Int) (*types.Transaction, error) {
	signed, err := e.signer.SignTx(e.account, tx, chainId)
	if err != nil {
		c.WithField("err", err).Warn("signer.SignTx failed")
		return nil, domain.NewError(domain.ErrTransactionRejected, err)
	}
	return signed, nil
}

func (e *externalConnection) Close() error {
	return nil
}
