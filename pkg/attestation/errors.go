package attestation

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("attestation validation failed")
	ErrLookup     = errors.New("attestation lookup failed")
)

// ValidationError reports a topic or value that cannot be encoded. It is
// never transient and is never retried.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (errorValue *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", errorValue.Field, errorValue.Reason)
}

// Is matches ErrValidation.
func (errorValue *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(field string, value string, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// LookupError wraps a failure returned by the ledger while reading one
// claim of a multi-claim request.
type LookupError struct {
	Holder string
	Issuer string
	Topic  string
	Err    error
}

func (errorValue *LookupError) Error() string {
	if errorValue.Issuer == "" && errorValue.Topic == "" {
		return fmt.Sprintf("failed to look up claims for holder %s: %v", errorValue.Holder, errorValue.Err)
	}
	return fmt.Sprintf(
		"failed to look up claim %q from issuer %s for holder %s: %v",
		errorValue.Topic,
		errorValue.Issuer,
		errorValue.Holder,
		errorValue.Err,
	)
}

func (errorValue *LookupError) Unwrap() error {
	return errorValue.Err
}

// Is matches ErrLookup.
func (errorValue *LookupError) Is(target error) bool {
	return target == ErrLookup
}
