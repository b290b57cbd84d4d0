package client

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrMalformedResponse = errors.New("malformed response")
)

// Kind classifies a failure so callers can tell a rejected credential from
// an unreachable server or a refused request.
type Kind int

const (
	KindUnknown Kind = iota
	KindAuth
	KindValidation
	KindRemote
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindRemote:
		return "remote"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is returned by every Client method.
type Error struct {
	Kind       Kind
	StatusCode int
	// Reason is the human readable cause reported by the server, if any.
	Reason string
	Err    error
}

// ErrNoCredential is returned when an operation needs a session but none is
// stored.
var ErrNoCredential = &Error{Kind: KindAuth, Reason: "no session credential"}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(" error")
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets auth failures match ErrUnauthorized and transport failures match
// ErrUnavailable.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Kind == KindAuth
	case ErrUnavailable:
		return e.Kind == KindTransport
	}
	return false
}

// Validation wraps a local input error so it reports KindValidation.
func Validation(err error) *Error {
	return &Error{Kind: KindValidation, Reason: err.Error(), Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// ReasonOr returns the server supplied reason carried by err, or fallback
// when there is none.
func ReasonOr(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Reason != "" {
		return e.Reason
	}
	return fallback
}

func kindForStatus(code int) Kind {
	switch {
	case code == 401 || code == 403:
		return KindAuth
	case code == 422:
		return KindValidation
	default:
		return KindRemote
	}
}
