package utils

import "errors"

// ErrorRecordNotFound mirrors gorm.ErrRecordNotFound for lookups made
// outside a direct gorm call site.
var ErrorRecordNotFound = errors.New("record not found")

// ErrKind enumerates the failure taxonomy the ingestion engine surfaces at
// component boundaries. Each kind carries a distinct propagation policy.
type ErrKind int

const (
	SourceUnreachable ErrKind = iota
	SourceProtocolError
	SourceLogicalError
	ParseError
	InvariantViolation
	WarehouseError
	ConfigError
)

func (k ErrKind) String() string {
	switch k {
	case SourceUnreachable:
		return "SourceUnreachable"
	case SourceProtocolError:
		return "SourceProtocolError"
	case SourceLogicalError:
		return "SourceLogicalError"
	case ParseError:
		return "ParseError"
	case InvariantViolation:
		return "InvariantViolation"
	case WarehouseError:
		return "WarehouseError"
	case ConfigError:
		return "ConfigError"
	default:
		return "UnknownError"
	}
}

// Error is a typed error carrying one of the seven failure kinds, so
// callers can branch with errors.As instead of string matching.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Msg + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// IsKind reports whether err (or anything it wraps) is an *Error of kind k.
func IsKind(err error, k ErrKind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == k
}

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
