package service

import "errors"

// Error kinds surfaced to callers. Services wrap these with
// fmt.Errorf("%w: ...") so the API layer can map them with errors.Is
// while keeping the specific message.
var (
	// ErrValidation marks malformed or inconsistent input.
	ErrValidation = errors.New("validation failed")
	// ErrPermissionDenied marks an operation on a resource the caller
	// can see but may not modify.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound marks a resource that is absent or invisible to the
	// caller. Cross-owner access is reported as not-found so resource
	// IDs cannot be probed.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState marks a lifecycle operation that is not legal in
	// the resource's current state.
	ErrInvalidState = errors.New("invalid state")
	// ErrStoreUnavailable marks a transient infrastructure fault. Only
	// the profile service converts it into a degraded success; every
	// other component fails the request.
	ErrStoreUnavailable = errors.New("store unavailable")
)
