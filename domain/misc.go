package domain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Address is a lowercased hex address as exposed to the presentation layer
type Address string

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToCommon() common.Address {
	return common.HexToAddress(string(a))
}

// AddressFromCommon lowercases the hex form of a
func AddressFromCommon(a common.Address) Address {
	return Address(a.Hex()).ToLower()
}

type TxHash string

type BlockHash string
