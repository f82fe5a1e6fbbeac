package guard

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	// TextCodeUserNotFound signals no user resolves for a uid, id, or
	// remember token.
	TextCodeUserNotFound = "USER_NOT_FOUND"
	// TextCodeInvalidCreds signals password verification failed.
	TextCodeInvalidCreds = "INVALID_CREDENTIALS"
	// TextCodeAlreadyAuthenticated signals Login was called while a user
	// was already set on the guard.
	TextCodeAlreadyAuthenticated = "ALREADY_AUTHENTICATED"
	// TextCodeMissingIdentifier signals Login was called with a user that
	// has no usable primary key value.
	TextCodeMissingIdentifier = "MISSING_IDENTIFIER"
	// TextCodeTooManyAttempts signals the provider refused verification
	// while the account cools down.
	TextCodeTooManyAttempts = "TOO_MANY_LOGIN_ATTEMPTS"
)

// ErrIdentityNotFound is returned when no user resolves for a lookup key.
// Callers get the key name and value in the error metadata.
var ErrIdentityNotFound = goerrors.New("identity not found", goerrors.CategoryAuth).
	WithTextCode(TextCodeUserNotFound).
	WithCode(goerrors.CodeUnauthorized)

// ErrPasswordMismatch is returned when a password does not verify against
// the stored hash.
var ErrPasswordMismatch = goerrors.New("invalid credentials provided", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// ErrAlreadyAuthenticated is returned when Login is invoked on a guard
// that already holds a user. Calling Login twice without an intervening
// Logout is a programming error, not a recoverable auth failure.
var ErrAlreadyAuthenticated = goerrors.New("guard already has an authenticated user", goerrors.CategoryConflict).
	WithTextCode(TextCodeAlreadyAuthenticated).
	WithCode(goerrors.CodeConflict)

// ErrMissingIdentifier is returned when Login is invoked with a user that
// cannot be keyed into a session.
var ErrMissingIdentifier = goerrors.New("user has no primary key identifier", goerrors.CategoryValidation).
	WithTextCode(TextCodeMissingIdentifier).
	WithCode(goerrors.CodeBadRequest)

// ErrTooManyLoginAttempts is surfaced by providers that track failed
// logins; the guard propagates it unchanged.
var ErrTooManyLoginAttempts = goerrors.New("too many login attempts", goerrors.CategoryAuth).
	WithTextCode(TextCodeTooManyAttempts).
	WithCode(goerrors.CodeUnauthorized)

// IsUserNotFound reports whether err means a user failed to resolve,
// either as the guard's own ErrIdentityNotFound or as a repository
// record-not-found.
func IsUserNotFound(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.IsNotFound(err) {
		return true
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode == TextCodeUserNotFound
	}
	return false
}

// IsPasswordMismatch reports whether err is a credential verification
// failure.
func IsPasswordMismatch(err error) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode == TextCodeInvalidCreds
	}
	return false
}

// IsAlreadyAuthenticated reports whether err came from a double Login.
func IsAlreadyAuthenticated(err error) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode == TextCodeAlreadyAuthenticated
	}
	return false
}

// IsMissingIdentifier reports whether err came from logging in a user
// without a primary key.
func IsMissingIdentifier(err error) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode == TextCodeMissingIdentifier
	}
	return false
}
