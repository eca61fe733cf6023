package latticeerr

import "errors"

// KindOf extracts the Kind from err if it (or something it wraps) is
// an *Error, defaulting to KindGeneral otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind()
	}
	return KindGeneral
}

// ExitCodeFor returns the CLI exit code err maps to.
func ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	return KindOf(err).ExitCode()
}
