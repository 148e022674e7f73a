package contract

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	baseabi "github.com/x-xyz/marketclient/base/abi"
	bCtx "github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/domain"
	"github.com/x-xyz/marketclient/service/chain"
	"golang.org/x/xerrors"
)

// Erc721 reads token metadata pointers of any ERC-721 contract
type Erc721 struct {
	chainService chain.Client
	abi          ethabi.ABI
}

func NewErc721(chainService chain.Client) *Erc721 {
	return &Erc721{
		abi:          baseabi.ERC721TokenABI,
		chainService: chainService,
	}
}

func (e *Erc721) TokenURI(ctx bCtx.Ctx, addr common.Address, tokenId *big.Int) (string, error) {
	unpacked, err := e.chainService.Call(ctx, addr, e.abi, "tokenURI", tokenId)
	if err != nil {
		return "", err
	}
	if len(unpacked) != 1 {
		return "", domain.NewError(domain.ErrLedgerMalformedResponse, xerrors.Errorf("tokenURI of %s #%v: %d outputs", addr.Hex(), tokenId, len(unpacked)))
	}
	uri, ok := unpacked[0].(string)
	if !ok {
		return "", domain.NewError(domain.ErrLedgerMalformedResponse, xerrors.Errorf("tokenURI of %s #%v: got %T", addr.Hex(), tokenId, unpacked[0]))
	}
	return uri, nil
}
