package executor

import (
	"fmt"
	"time"
)

// ErrorKind classifies platform failures
type ErrorKind int

// enum of platform error kinds
const (
	KindTransient   ErrorKind = iota // rate limit, timeout, network, retried
	KindAlreadyDone                  // message already gone or sender already restricted, a success
	KindRejected                     // terminal, e.g. no admin rights, not retried
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindAlreadyDone:
		return "already done"
	case KindRejected:
		return "rejected"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// PlatformError is a classified platform call failure
type PlatformError struct {
	Kind       ErrorKind
	Err        error
	RetryAfter time.Duration // platform requested delay, transient only
}

func (e *PlatformError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s platform error (retry after %v): %v", e.Kind, e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("%s platform error: %v", e.Kind, e.Err)
}

func (e *PlatformError) Unwrap() error { return e.Err }
