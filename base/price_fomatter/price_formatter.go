package pricefomatter

import (
	"math/big"

	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"
)

// NativeDecimals is the scale of the ledger's native currency
const NativeDecimals = 18

var (
	errNegative   = xerrors.New("negative amount")
	errFractional = xerrors.New("amount finer than the smallest unit")
)

// AtomicToHuman scales an amount in the smallest unit down to whole units, exactly
func AtomicToHuman(value *big.Int, decimals int32) decimal.Decimal {
	if value == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(value, -decimals)
}

// HumanToAtomic is the inverse of AtomicToHuman. It fails on negative amounts and on
// amounts that cannot be expressed in whole smallest units.
func HumanToAtomic(value decimal.Decimal, decimals int32) (*big.Int, error) {
	if value.IsNegative() {
		return nil, errNegative
	}
	shifted := value.Shift(decimals)
	if !shifted.Equal(shifted.Truncate(0)) {
		return nil, errFractional
	}
	return shifted.BigInt(), nil
}

// ParseHuman reads a whole-unit amount such as "1.5"
func ParseHuman(s string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return HumanToAtomic(d, decimals)
}
