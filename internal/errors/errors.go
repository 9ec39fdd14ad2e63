package errors

import "errors"

// This package defines the application's sentinel errors. Services return
// these without knowing anything about HTTP; callers classify them with
// `errors.Is()` and decide how to react. The UI convention from the original
// application is preserved: only ErrNotAuthenticated gets special treatment
// (the caller defers to a route guard instead of redirecting itself), every
// other failure is shown to the user as-is.

var (
	// ErrNotAuthenticated signifies that an operation requiring a logged-in
	// session was called without one.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotFound signifies that a chat or user is absent from the store.
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists signifies a uniqueness conflict, e.g. registering an
	// email that is already taken.
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrValidation signifies that client-provided input failed validation.
	ErrValidation = errors.New("validation failed")

	// ErrOperationFailed is the generic failure surfaced for any network or
	// server error on the underlying GET/PUT calls. Nothing is retried.
	ErrOperationFailed = errors.New("operation failed")
)
