package query

import "fmt"

// Kind classifies a query failure.
type Kind int

const (
	// KindInvalidArgument marks a caller-supplied bound that does not parse
	// or an inverted range. Recoverable by the caller.
	KindInvalidArgument Kind = iota
	// KindInternal marks an unexpected fault during query evaluation.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a query failure tagged with a kind. Param names the offending
// request parameter when one is to blame.
type Error struct {
	Kind    Kind
	Param   string
	Message string
}

func (e *Error) Error() string { return e.Message }

// InvalidArgumentf builds an InvalidArgument error for the given parameter.
func InvalidArgumentf(param, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Param: param, Message: fmt.Sprintf(format, args...)}
}

// Internalf builds an Internal error.
func Internalf(format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}
