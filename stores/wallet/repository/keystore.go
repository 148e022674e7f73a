package repository

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	bCtx "github.com/x-xyz/marketclient/base/ctx"
	pricefomatter "github.com/x-xyz/marketclient/base/price_fomatter"
	"github.com/x-xyz/marketclient/domain"
	"golang.org/x/xerrors"
)

type KeystoreConnectorCfg struct {
	Dir string
	// Account selects one of the keys in Dir, the first key when empty
	Account  common.Address
	Prompter Prompter
	// ConfirmSign asks the user before every signature
	ConfirmSign bool
	// Decimals scales the value shown in the confirmation prompt
	Decimals int32
	// ScryptN and ScryptP default to the standard keystore parameters
	ScryptN int
	ScryptP int
}

type keystoreConnector struct {
	ks          *keystore.KeyStore
	account     common.Address
	prompter    Prompter
	confirmSign bool
	decimals    int32
}

// NewKeystoreConnector unlocks existing encrypted keys in cfg.Dir, it never creates keys
func NewKeystoreConnector(cfg *KeystoreConnectorCfg) domain.WalletConnector {
	n, p := cfg.ScryptN, cfg.ScryptP
	if n == 0 || p == 0 {
		n, p = keystore.StandardScryptN, keystore.StandardScryptP
	}
	return &keystoreConnector{
		ks:          keystore.NewKeyStore(cfg.Dir, n, p),
		account:     cfg.Account,
		prompter:    cfg.Prompter,
		confirmSign: cfg.ConfirmSign,
		decimals:    cfg.Decimals,
	}
}

func (k *keystoreConnector) Name() string {
	return ProviderKeystore
}

func (k *keystoreConnector) Connect(c bCtx.Ctx) (domain.WalletConnection, error) {
	account, err := k.pick()
	if err != nil {
		c.WithField("err", err).Warn("no keystore account")
		return nil, domain.NewError(domain.ErrNoSigningIdentity, err)
	}

	pass, err := k.prompter.PromptPassword(fmt.Sprintf("Passphrase for %s: ", account.Address.Hex()))
	if err != nil {
		return nil, domain.NewError(domain.ErrNoSigningIdentity, err)
	}
	if err := k.ks.Unlock(account, pass); err != nil {
		c.WithField("err", err).Warn("ks.Unlock failed")
		return nil, domain.NewError(domain.ErrNoSigningIdentity, err)
	}
	return &keystoreConnection{connector: k, account: account}, nil
}

func (k *keystoreConnector) pick() (accounts.Account, error) {
	all := k.ks.Accounts()
	if len(all) == 0 {
		return accounts.Account{}, xerrors.New("keystore is empty")
	}
	if k.account == (common.Address{}) {
		return all[0], nil
	}
	for _, a := range all {
		if a.Address == k.account {
			return a, nil
		}
	}
	return accounts.Account{}, xerrors.Errorf("account %s not in keystore", k.account.Hex())
}

type keystoreConnection struct {
	connector *keystoreConnector
	account   accounts.Account
}

func (k *keystoreConnection) Account() common.Address {
	return k.account.Address
}

func (k *keystoreConnection) SignTx(c bCtx.Ctx, tx *types.Transaction, chainId *big.Int) (*types.Transaction, error) {
	if k.connector.confirmSign {
		ok, err := k.connector.prompter.PromptConfirm(describeTx(tx, k.connector.decimals))
		if err != nil {
			return nil, domain.NewError(domain.ErrTransactionRejected, err)
		}
		if !ok {
			return nil, domain.NewError(domain.ErrTransactionRejected, xerrors.New("declined by user"))
		}
	}
	signed, err := k.connector.ks.SignTx(k.account, tx, chainId)
	if err != nil {
		c.WithField("err", err).Warn("ks.SignTx failed")
		return nil, domain.NewError(domain.ErrTransactionRejected, err)
	}
	return signed, nil
}

func (k *keystoreConnection) Close() error {
	return k.connector.ks.Lock(k.account.Address)
}

func describeTx(tx *types.Transaction, decimals int32) string {
	to := "contract creation"
	if tx.To() != nil {
		to = tx.To().Hex()
	}
	value := pricefomatter.AtomicToHuman(tx.Value(), decimals)
	return strings.Join([]string{
		"Sign transaction",
		"  to:    " + to,
		"  value: " + value.String(),
		"Proceed?",
	}, "\n")
}
