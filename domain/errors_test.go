package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func TestNewError(t *testing.T) {
	req := require.New(t)

	req.Equal(ErrLedgerUnavailable, NewError(ErrLedgerUnavailable, nil))

	err := NewError(ErrLedgerUnavailable, context.DeadlineExceeded)
	req.True(errors.Is(err, ErrLedgerUnavailable))
	req.True(errors.Is(err, context.DeadlineExceeded))
	req.False(errors.Is(err, ErrLedgerMalformedResponse))
	req.Equal("ledger unavailable: context deadline exceeded", err.Error())

	wrapped := xerrors.Errorf("refresh failed: %w", err)
	req.True(errors.Is(wrapped, ErrLedgerUnavailable))
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrTransactionReverted, "TransactionReverted"},
		{NewError(ErrNoSigningIdentity, errors.New("cancelled")), "NoSigningIdentity"},
		{NewError(ErrPriceConversion, errors.New("fractional")), "PriceConversionError"},
		{xerrors.Errorf("outer: %w", NewError(ErrTransactionTimeout, context.DeadlineExceeded)), "TransactionTimeout"},
		{errors.New("boom"), "Internal"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ErrorCode(tt.err))
	}
}
