package apperr

import "errors"

// Sentinel errors for the catalog core. Handlers map these to HTTP statuses;
// nothing in this module retries on its own.
var (
	// ErrValidation marks malformed caller input.
	ErrValidation = errors.New("validation failed")

	// ErrSourceUnavailable marks a timeout or 5xx from the external catalog.
	// The caller may retry.
	ErrSourceUnavailable = errors.New("external source unavailable")

	// ErrNotFoundInSource means the external catalog affirmatively has no such id.
	ErrNotFoundInSource = errors.New("not found in external source")

	// ErrNotFound is the generic local not-found.
	ErrNotFound = errors.New("not found")

	// ErrProfileNotFound means the user's profile row was never provisioned.
	// Provisioning is owned by an external collaborator, so this is a server fault.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrQuotaExceeded rejects an attach that would pass the profile's maximum.
	ErrQuotaExceeded = errors.New("quota exceeded")

	ErrAlreadyAttached = errors.New("already attached")
	ErrNotAttached     = errors.New("not attached")

	// ErrForbidden marks an operation on an entity the user does not own.
	ErrForbidden = errors.New("forbidden")
)
