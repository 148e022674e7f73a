package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var MarketplaceABI abi.ABI

var marketplaceABI = `[{"type":"function","name":"fetchMarketItems","constant":true,"stateMutability":"view","payable":false,"inputs":[],"outputs":[{"type":"tuple[]","name":"","components":[{"type":"uint256","name":"itemId"},{"type":"address","name":"nftContract"},{"type":"uint256","name":"tokenId"},{"type":"address","name":"seller"},{"type":"address","name":"owner"},{"type":"uint256","name":"price"},{"type":"bool","name":"sold"}]}]},{"type":"function","name":"createMarketSale","constant":false,"stateMutability":"payable","payable":true,"inputs":[{"type":"address","name":"nftContract"},{"type":"uint256","name":"itemId"}],"outputs":[]},{"type":"event","anonymous":false,"name":"MarketItemCreated","inputs":[{"type":"uint256","name":"itemId","indexed":true},{"type":"address","name":"nftContract","indexed":true},{"type":"uint256","name":"tokenId","indexed":true},{"type":"address","name":"seller"},{"type":"address","name":"owner"},{"type":"uint256","name":"price"},{"type":"bool","name":"sold"}]}]`

func init() {
	_abi, err := abi.JSON(strings.NewReader(marketplaceABI))
	if err != nil {
		panic("Failed to parse marketplace abi")
	}
	MarketplaceABI = _abi
}
