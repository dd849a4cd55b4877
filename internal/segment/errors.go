// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"errors"
	"fmt"
)

// ErrMalformedPage matches every MalformedPageError through errors.Is.
var ErrMalformedPage = errors.New("malformed page")

// MalformedPageError reports a page whose line structure does not have the
// shape of a daily entry. Content quirks never produce it; only missing
// structure does.
type MalformedPageError struct {
	// Page is the zero-based page index, or -1 when the lines were not
	// taken from a known page.
	Page int

	// Reason describes the failed checkpoint.
	Reason string
}

func malformed(format string, args ...any) *MalformedPageError {
	return &MalformedPageError{Page: -1, Reason: fmt.Sprintf(format, args...)}
}

func (e *MalformedPageError) Error() string {
	if e.Page < 0 {
		return fmt.Sprintf("malformed page: %s", e.Reason)
	}
	return fmt.Sprintf("malformed page %d: %s", e.Page, e.Reason)
}

// Is reports whether target is ErrMalformedPage.
func (e *MalformedPageError) Is(target error) bool {
	return target == ErrMalformedPage
}
