package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredential signals the provider rejected or could not
	// validate the assertion. Terminal for the login attempt; provider
	// detail is never attached to it.
	ErrInvalidCredential = errors.New("identity: invalid credential")

	// ErrSessionNotFound signals a missing or expired server-side session.
	ErrSessionNotFound = errors.New("identity: session not found")
)

// EnrichmentError reports a recoverable failure inside the enrichment
// pipeline. Callers log or ignore it; it must never fail authentication.
type EnrichmentError struct {
	Step string
	Err  error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("enrichment %s: %v", e.Step, e.Err)
}

func (e *EnrichmentError) Unwrap() error { return e.Err }

// ReferralPostError reports a failed referral completion POST. Recoverable:
// the callback redirect proceeds unaffected.
type ReferralPostError struct {
	Err error
}

func (e *ReferralPostError) Error() string {
	return fmt.Sprintf("referral post: %v", e.Err)
}

func (e *ReferralPostError) Unwrap() error { return e.Err }
