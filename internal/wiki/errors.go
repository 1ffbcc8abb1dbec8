// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wiki

import (
	"errors"
	"fmt"
)

// Sentinel errors for the page repository. Callers match them with errors.Is.
var (
	// ErrNotFound means the remote system has no page with the given ID.
	ErrNotFound = errors.New("page not found")

	// ErrForbidden means the session is not allowed to read or write the page.
	ErrForbidden = errors.New("access forbidden")

	// ErrConflict means the page version changed between fetch and write.
	// The remote system is the sole authority on conflict detection; the
	// repository never reconciles or retries.
	ErrConflict = errors.New("version conflict")
)

// AuthReason classifies an authentication failure.
type AuthReason string

const (
	ReasonInvalidCredentials AuthReason = "invalid_credentials"
	ReasonVerificationFailed AuthReason = "verification_failed"
	ReasonNetworkError       AuthReason = "network_error"
)

// AuthError reports a failed authentication attempt. It is fatal to the
// run; callers must not retry with the same credentials.
type AuthError struct {
	Reason AuthReason
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication failed (%s)", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }
