// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"errors"
	"fmt"
)

// FetchError is a transport-level failure: either a non-OK status or a
// failure before any response arrived. Retry policy belongs to the caller.
type FetchError struct {
	// Target is the URL or store collection that was requested.
	Target string

	// Status is the response status, or 0 when no response arrived.
	Status int

	// Err is the underlying network or store error, if any.
	Err error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching %s: HTTP %d", e.Target, e.Status)
	}
	return fmt.Sprintf("fetching %s: %v", e.Target, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsNetworkFailure reports whether the request failed before a status
// was received.
func (e *FetchError) IsNetworkFailure() bool { return e.Status == 0 }

// AsFetchError unwraps err to a *FetchError.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
