package errs

import "errors"

// Kind classifies a domain failure so the boundary can switch on it.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindInvalidParameter: caller input violates a precondition.
	KindInvalidParameter
	// KindNotFound: a referenced account does not exist where it must.
	KindNotFound
	// KindInsufficientFunds: a withdrawal exceeds the available balance.
	KindInsufficientFunds
)

func (k Kind) String() string {
	switch k {
	case KindInvalidParameter:
		return "invalid_parameter"
	case KindNotFound:
		return "not_found"
	case KindInsufficientFunds:
		return "insufficient_funds"
	default:
		return "unknown"
	}
}

// Error is a domain error tagged with its Kind.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Msg
}

// Is matches any *Error of the same kind when target carries no message,
// so errors.Is(err, ErrNotFound) works regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Msg == "" {
		return t.Kind == e.Kind
	}
	return t.Kind == e.Kind && t.Msg == e.Msg
}

// Common sentinel errors for cross-layer signaling.
var (
	ErrInvalidParameter  = &Error{Kind: KindInvalidParameter}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds}
)

func Invalid(msg string) error           { return &Error{Kind: KindInvalidParameter, Msg: msg} }
func NotFound(msg string) error          { return &Error{Kind: KindNotFound, Msg: msg} }
func InsufficientFunds(msg string) error { return &Error{Kind: KindInsufficientFunds, Msg: msg} }

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
