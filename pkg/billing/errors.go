package billing

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrMissingAPIKey        = errors.New("billing: provider API key is required")
	ErrNotConfigured        = errors.New("billing: provider is not configured")
	ErrBillingUnavailable   = errors.New("billing: no billing backend on this platform")
	ErrPurchaseNotSupported = errors.New("billing: purchases must originate from a store client")
)

// Code classifies a provider failure. The class, not the underlying error,
// decides retry behavior and the user-facing message.
type Code string

const (
	CodeNetwork            Code = "network_error"
	CodeStoreProblem       Code = "store_problem"
	CodeBackendError       Code = "unexpected_backend_response"
	CodePurchaseCancelled  Code = "purchase_cancelled"
	CodePurchaseNotAllowed Code = "purchase_not_allowed"
	CodePurchaseInvalid    Code = "purchase_invalid"
	CodeAlreadyPurchased   Code = "product_already_purchased"
	CodeReceiptInvalid     Code = "invalid_receipt"
	CodeReceiptMissing     Code = "missing_receipt"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeUnknown            Code = "unknown_error"
)

// Error is a classified billing failure.
type Error struct {
	Code Code
	Err  error
}

// NewError wraps err under the given class.
func NewError(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("billing: %s", e.Code)
	}
	return fmt.Sprintf("billing: %s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether another attempt could plausibly succeed.
// Unknown errors default to retryable: a transient blip is the common case
// and the attempt budget bounds the damage.
func (e *Error) Retryable() bool {
	switch e.Code {
	case CodeNetwork, CodeStoreProblem, CodeBackendError,
		CodeReceiptInvalid, CodeReceiptMissing, CodeUnknown:
		return true
	default:
		return false
	}
}

// UserMessage returns the message shown to the user for this class. It
// deliberately contains no technical detail.
func (e *Error) UserMessage() string {
	switch e.Code {
	case CodeNetwork:
		return "Please check your internet connection and try again."
	case CodeStoreProblem, CodeBackendError:
		return "The store had a problem. Please try again in a moment."
	case CodePurchaseCancelled:
		return "Purchase cancelled."
	case CodePurchaseNotAllowed:
		return "Purchases are not allowed on this device."
	case CodePurchaseInvalid:
		return "This purchase could not be completed. Please check your payment method."
	case CodeAlreadyPurchased:
		return "You already own this subscription. Restore your purchase instead."
	case CodeReceiptInvalid, CodeReceiptMissing:
		return "Your receipt could not be verified. Please try again."
	case CodeInvalidCredentials:
		return "Something is wrong with the store configuration. Please contact support."
	default:
		return "Something went wrong. Please try again."
	}
}

// ActionLabel returns the single follow-up action to offer, or "".
func (e *Error) ActionLabel() string {
	switch e.Code {
	case CodeAlreadyPurchased:
		return "Restore"
	case CodeInvalidCredentials:
		return "Contact support"
	default:
		return ""
	}
}

// Classify normalizes any error into *Error. Already-classified errors pass
// through unchanged, context cancellation maps to a user cancel, deadline
// expiry to a network problem, and everything else to the retryable unknown
// class.
func Classify(err error) *Error {
	var berr *Error
	if errors.As(err, &berr) {
		return berr
	}
	switch {
	case errors.Is(err, context.Canceled):
		return NewError(CodePurchaseCancelled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewError(CodeNetwork, err)
	case errors.Is(err, ErrBillingUnavailable), errors.Is(err, ErrPurchaseNotSupported):
		return NewError(CodePurchaseNotAllowed, err)
	case errors.Is(err, ErrMissingAPIKey), errors.Is(err, ErrNotConfigured):
		return NewError(CodeInvalidCredentials, err)
	default:
		return NewError(CodeUnknown, err)
	}
}
