package ethereum

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/xerrors"
)

// GenerateKey returns a fresh secp256k1 key pair and its address
func GenerateKey() (*ecdsa.PrivateKey, common.Address, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, common.Address{}, err
	}
	return privateKey, crypto.PubkeyToAddress(privateKey.PublicKey), nil
}

// TxSender recovers the account that signed tx
func TxSender(tx *types.Transaction, chainId *big.Int) (common.Address, error) {
	return types.Sender(types.LatestSignerForChainID(chainId), tx)
}

// ValidateTxSigner checks that tx carries a valid signature of expected for chainId
func ValidateTxSigner(tx *types.Transaction, chainId *big.Int, expected common.Address) error {
	sender, err := TxSender(tx, chainId)
	if err != nil {
		return err
	}
	if sender != expected {
		return xerrors.Errorf("tx signed by %s, expected %s", sender.Hex(), expected.Hex())
	}
	return nil
}
