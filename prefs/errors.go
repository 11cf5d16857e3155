// ABOUTME: Error types surfaced by the preference store
// ABOUTME: ValidationError for rejected uploads, StorageQuotaError for refused writes
package prefs

import "fmt"

// ValidationError reports a rejected audio upload or asset reference.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageQuotaError reports that the underlying store refused a write.
type StorageQuotaError struct {
	Key string
	Err error
}

func (e *StorageQuotaError) Error() string {
	return fmt.Sprintf("storage quota exceeded writing %s: %v", e.Key, e.Err)
}

func (e *StorageQuotaError) Unwrap() error {
	return e.Err
}
