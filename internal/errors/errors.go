// Package errors defines typed errors with categories for user-friendly reporting.
// It gives machine-readable error kinds and human-friendly messages so callers
// can tell a network failure from a server rejection without string matching.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// NetworkFailure means the request never completed against the server.
	NetworkFailure Kind = "network_failure"
	// ServerFailure means the server answered with a non-2xx status.
	ServerFailure Kind = "server_failure"
	// Usage means the API was used outside its valid scope.
	Usage Kind = "usage"
	// StorageFailure means the token store could not be read or written.
	StorageFailure Kind = "storage_failure"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf reports the kind of the first *E in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
