package forum

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can react without inspecting messages
type Kind int

const (
	KindUnknown Kind = iota
	// Unauthorized: no identity for a write, or the caller may not edit the target
	Unauthorized
	// NotFound: the thread, comment or tag vanished
	NotFound
	// Conflict: tag slug collision on creation. TagResolver recovers from it.
	Conflict
	// Busy: a vote toggle is already in flight for the target
	Busy
	// Validation: the request was rejected before reaching the authority
	Validation
	// NetworkFailure: transport errors and timeouts
	NetworkFailure
	// ProtocolViolation: the authority answered with a malformed payload
	ProtocolViolation
)

func (k Kind) String() string {
	switch k {
	case Unauthorized:
		return "unauthorized"
	case NotFound:
		return "not found"
	case Conflict:
		return "conflict"
	case Busy:
		return "busy"
	case Validation:
		return "validation"
	case NetworkFailure:
		return "network failure"
	case ProtocolViolation:
		return "protocol violation"
	default:
		return "unknown"
	}
}

// Error is the typed failure returned by every core operation
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// NewError builds an Error. A nil err is allowed.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind sentinels below, so errors.Is(err, ErrBusy) works
// for any Busy error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Op != "" || t.Err != nil {
		return false
	}
	return e.Kind == t.Kind
}

// Kind sentinels for errors.Is
var (
	ErrUnauthorized      = &Error{Kind: Unauthorized}
	ErrNotFound          = &Error{Kind: NotFound}
	ErrConflict          = &Error{Kind: Conflict}
	ErrBusy              = &Error{Kind: Busy}
	ErrValidation        = &Error{Kind: Validation}
	ErrNetworkFailure    = &Error{Kind: NetworkFailure}
	ErrProtocolViolation = &Error{Kind: ProtocolViolation}
)

// ErrSuperseded is returned by a load whose result was discarded because a
// newer load for the same target was issued, or the view was torn down.
var ErrSuperseded = errors.New("forum: superseded by a newer request")

// KindOf returns the Kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func errorf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// wrap tags an untyped collaborator error as a network failure and keeps
// typed errors as they are, adding op when missing
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Op == "" {
			return &Error{Kind: e.Kind, Op: op, Err: e.Err}
		}
		return err
	}
	return &Error{Kind: NetworkFailure, Op: op, Err: err}
}
