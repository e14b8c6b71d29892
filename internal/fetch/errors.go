package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Terminal marks an error that retrying cannot fix (malformed payload,
// client-side misuse). Wrap with it to stop the retry loop immediately.
var Terminal = errors.New("terminal")

// Terminalf wraps a formatted error so IsRetryable reports false.
func Terminalf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{Terminal}, args...)...)
}

// StatusError carries a non-2xx HTTP status. 5xx and 429 are retryable;
// other client errors are not.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("status %d", e.Code) }

// IsRetryable classifies an error for the retry loop. Timeouts and
// transient network failures retry; terminal errors propagate.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, Terminal) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500 || se.Code == 429
	}

	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}

	// Unclassified transport errors get the benefit of the doubt.
	return true
}
