package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the service; callers match with errors.Is.
var (
	// ErrAlreadyExists signals a create for a userId that already has a record
	ErrAlreadyExists = errors.New("record already exists")
	// ErrNotFound signals a fetch-or-fail lookup that found nothing
	ErrNotFound = errors.New("record not found")
	// ErrConsentRequired signals a profile update touching protected fields
	// without an explicit consent flag
	ErrConsentRequired = errors.New("consent required for preference or contact update")
	// ErrStorageUnavailable signals a transient storage failure, safe to retry
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrCorruptRecord signals a stored record that could not be decoded;
	// distinct from absent so callers can decide between data-loss handling
	// and reinitialization
	ErrCorruptRecord = errors.New("corrupt stored record")
	// ErrPartialErasure signals an erasure that did not complete across all
	// record families and must be retried or escalated
	ErrPartialErasure = errors.New("partial erasure")
)

// ValidationError rejects malformed input before any write
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
