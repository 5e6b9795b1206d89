package service

import (
	"errors"
	"fmt"
)

// User-facing errors of the identity and registration flows. Messages match
// the public API contract, so handlers surface them verbatim.
var (
	// ErrInvalidCredentials is deliberately generic: it covers both an
	// unknown username and a wrong password, so usernames cannot be
	// enumerated through the login endpoint.
	ErrInvalidCredentials = errors.New("Invalid credentials")

	ErrPasswordRequired     = errors.New("Password is required")
	ErrRegistrationDisabled = errors.New("Register action is currently disabled")
	ErrNotSeller            = errors.New("User is not a seller")
	ErrAlreadyHasOutlet     = errors.New("User already has outlets")
)

// ConflictError reports an outlet username collision, naming the value.
type ConflictError struct {
	Username string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("Username '%s' is already taken. Please choose a different username.", e.Username)
}

// DuplicateError reports a platform-user uniqueness violation. The message
// always names the offending value.
type DuplicateError struct {
	Message string
}

func (e *DuplicateError) Error() string { return e.Message }

func emailTaken(email string) error {
	return &DuplicateError{Message: fmt.Sprintf("Email '%s' is already registered", email)}
}

func usernameTaken(username string) error {
	return &DuplicateError{Message: fmt.Sprintf("Username '%s' is already taken", username)}
}
