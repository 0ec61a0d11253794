package download

import (
	"errors"
	"fmt"
)

// ErrInsufficientSpace means the save directory cannot hold the announced
// download size.
var ErrInsufficientSpace = errors.New("not enough free disk space")

// NotFoundError means the service answered 404 for a track. It is terminal:
// a missing track will not appear on retry.
type NotFoundError struct {
	TrackID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("track %s does not exist", e.TrackID)
}

// TransientError covers failures that may go away on retry: non-200 probe
// statuses, timeouts, refused connections and interrupted transfers.
type TransientError struct {
	Op         string // "probe", "fetch", "metadata", "api"
	StatusCode int    // HTTP status code, 0 for non-HTTP errors
	Err        error  // Underlying error, if any
}

func (e *TransientError) Error() string {
	switch {
	case e.StatusCode > 0 && e.Err != nil:
		return fmt.Sprintf("%s failed (HTTP %d): %v", e.Op, e.StatusCode, e.Err)
	case e.StatusCode > 0:
		return fmt.Sprintf("%s failed (HTTP %d)", e.Op, e.StatusCode)
	default:
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// LocalIOError is a disk failure while writing a download. It is retried
// like a TransientError; the partial file has already been removed.
type LocalIOError struct {
	Path string
	Err  error
}

func (e *LocalIOError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *LocalIOError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is an unparseable JSON body from a list, detail or
// search endpoint.
type MalformedResponseError struct {
	Source string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %v", e.Source, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsTransient reports whether err is a failure that a retry may fix.
func IsTransient(err error) bool {
	var te *TransientError
	var le *LocalIOError
	return errors.As(err, &te) || errors.As(err, &le)
}
