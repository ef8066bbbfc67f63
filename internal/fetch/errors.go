package fetch

import (
	"errors"
	"fmt"
)

// FetchError reports that an artifact could not be retrieved or written.
type FetchError struct {
	URL  string
	Dest string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s -> %s: %v", e.URL, e.Dest, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError reports whether err (or anything it wraps) is a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
