package pages

import (
	"errors"
	"fmt"
)

// ErrPageIDRequired is returned for calls without a page identifier.
var ErrPageIDRequired = errors.New("pages: page id required")

// NotFoundError reports a missing page.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("page %q not found", e.Key)
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
