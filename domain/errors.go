package domain

import "errors"

var (
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput     = errors.New("Given Param is not valid")
	ErrUnsupportedSchema = errors.New("Unsupported schema")
	ErrInvalidJsonFormat = errors.New("invalid JSON format")

	// ledger read
	ErrLedgerUnavailable       = errors.New("ledger unavailable")
	ErrLedgerMalformedResponse = errors.New("ledger malformed response")

	// metadata
	ErrMetadataUnreachable = errors.New("metadata unreachable")
	ErrMetadataInvalid     = errors.New("metadata invalid")

	// assembling
	ErrIdOutOfRange    = errors.New("id out of range")
	ErrPriceConversion = errors.New("price conversion error")

	// purchase
	ErrNoSigningIdentity   = errors.New("no signing identity")
	ErrTransactionRejected = errors.New("transaction rejected")
	ErrTransactionReverted = errors.New("transaction reverted")
	ErrTransactionTimeout  = errors.New("transaction timeout")
)

// Error pairs one of the sentinel kinds above with the error that caused it.
// errors.Is matches both the kind and anything in the cause chain.
type Error struct {
	Kind error
	Err  error
}

// NewError wraps err with kind, a nil err yields the bare kind
func NewError(kind, err error) error {
	if err == nil {
		return kind
	}
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrLedgerUnavailable, "LedgerUnavailable"},
	{ErrLedgerMalformedResponse, "LedgerMalformedResponse"},
	{ErrMetadataUnreachable, "MetadataUnreachable"},
	{ErrMetadataInvalid, "MetadataInvalid"},
	{ErrIdOutOfRange, "IdOutOfRange"},
	{ErrPriceConversion, "PriceConversionError"},
	{ErrNoSigningIdentity, "NoSigningIdentity"},
	{ErrTransactionRejected, "TransactionRejected"},
	{ErrTransactionReverted, "TransactionReverted"},
	{ErrTransactionTimeout, "TransactionTimeout"},
	{ErrNotFound, "NotFound"},
	{ErrBadParamInput, "BadParamInput"},
}

// ErrorCode returns a stable code for the presentation layer, "Internal" for unknown errors
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "Internal"
}
