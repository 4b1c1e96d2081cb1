package content

import (
	"errors"
	"fmt"
)

// Kind classifies why a document could not be used.
type Kind int

const (
	// KindFetch covers transport errors and non-2xx responses.
	KindFetch Kind = iota + 1
	// KindDecode means the body was not the expected JSON shape.
	KindDecode
	// KindNotFound means a referenced entity has no match and nothing to fall back to.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindFetch:
		return "fetch"
	case KindDecode:
		return "decode"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks against *Error values.
var (
	ErrFetch    = errors.New("fetch failed")
	ErrDecode   = errors.New("decode failed")
	ErrNotFound = errors.New("not found")
)

// Error describes a failed load of one resource.
type Error struct {
	Kind     Kind
	Resource string
	Status   int // HTTP status when the server answered, 0 otherwise
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s", e.Kind, e.Resource)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel matching e.Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrFetch:
		return e.Kind == KindFetch
	case ErrDecode:
		return e.Kind == KindDecode
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

// NotFound returns a KindNotFound error for the named entity.
func NotFound(resource string) error {
	return &Error{Kind: KindNotFound, Resource: resource}
}
