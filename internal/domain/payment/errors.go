package payment

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind classifies every error the payment engine can produce. The set is
// closed; handlers map kinds to HTTP statuses and treat anything else as
// internal.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindConflict
	KindInvalidState
	KindInternal
)

// Error is the tagged error carried out of the payment engine. A Conflict
// error additionally reports the amount the visit was already paid with.
type Error struct {
	Kind       Kind
	Message    string
	PaidAmount *decimal.Decimal
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound reports a missing visit or contract.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// AlreadyPaid reports that the visit has a payment row; amount is the
// recorded total.
func AlreadyPaid(amount decimal.Decimal) *Error {
	return &Error{Kind: KindConflict, Message: "visit already paid", PaidAmount: &amount}
}

// InvalidState reports a configuration that makes the visit unpayable
// (no billable services, or an employed patient without an active
// contract).
func InvalidState(msg string) *Error {
	return &Error{Kind: KindInvalidState, Message: msg}
}

// Internal wraps an unexpected failure. The cause is kept for logging but
// never surfaced to the caller.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf extracts the kind from err, or KindInternal if err is not a
// payment error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindInternal
}
