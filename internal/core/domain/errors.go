package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the user lacks permission for this action
	ErrForbidden = errors.New("forbidden")

	// ErrSyncInProgress indicates a sync for the same connection and date is already running
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrAuthenticationFailed indicates the ERP rejected the connection credentials.
	// Distinct from transport failures: the call completed, the backend said no.
	ErrAuthenticationFailed = errors.New("erp authentication failed")

	// ErrCredentialUnavailable indicates the stored API key could not be decrypted.
	// The cipher returns an empty string for tampered or malformed blobs, so an
	// empty key is treated as a precondition failure before any ERP call is made.
	ErrCredentialUnavailable = errors.New("credential unavailable")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrSessionNotFound indicates the session does not exist
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidCredentials indicates wrong email/password combination
	ErrInvalidCredentials = errors.New("invalid credentials")
)
