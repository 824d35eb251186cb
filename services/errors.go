package services

import (
	"errors"
	"fmt"
)

// Configuration gaps surface as "not deliverable" quote results, never as
// hard failures. Handlers map ValidationError to 400.
var (
	ErrZoneNotFound         = errors.New("no zone entry configured for pincode")
	ErrNoSlabsConfigured    = errors.New("no weight slabs configured for courier")
	ErrRateNotFound         = errors.New("no rate configured for courier, slab and zone")
	ErrOverageNotConfigured = errors.New("chargeable weight exceeds top slab and no overage rate is configured")
	ErrNoOptionsAvailable   = errors.New("no delivery options available")
)

// ValidationError rejects malformed input before any lookup happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err is a request validation failure
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConfigurationMissing reports whether err is a configuration gap that
// should degrade to a non-deliverable quote instead of a server error.
func IsConfigurationMissing(err error) bool {
	return errors.Is(err, ErrZoneNotFound) ||
		errors.Is(err, ErrNoSlabsConfigured) ||
		errors.Is(err, ErrRateNotFound) ||
		errors.Is(err, ErrOverageNotConfigured)
}
