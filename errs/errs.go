// Package errs defines the single typed error union shared by every
// Trueno-DB component, per the engine's error taxonomy.
package errs

import "fmt"

// Kind classifies a failure. Components never invent ad hoc error types;
// they construct an *Error with one of these kinds.
type Kind uint8

const (
	// Unknown is the zero value and should never be constructed directly.
	Unknown Kind = iota
	// SchemaMismatch: an appended batch's schema disagrees with the store's.
	SchemaMismatch
	// Unsupported: a caller asked for something the engine will never do
	// (row updates, GROUP BY hash aggregation). Never retried.
	Unsupported
	// InvalidInput: a caller error such as an out-of-range Top-K column
	// index or k=0, or an unknown SQL column at execution time.
	InvalidInput
	// ParseError: the SQL text does not match the restricted grammar, or a
	// filter literal could not be typed against its column's runtime type.
	ParseError
	// BackendMismatch: SIMD and GPU disagreed on a result. Diagnostic only;
	// no package in this module constructs it. Always surfaced, never swallowed.
	BackendMismatch
	// GpuInitFailed: GPU device creation failed. Recoverable by falling
	// back to SIMD at the dispatcher layer.
	GpuInitFailed
	// VramExhausted: should be unreachable under correct morsel sizing;
	// treated as a critical defect if it occurs.
	VramExhausted
	// QueueClosed: enqueue attempted after the consumer side closed the
	// transfer queue.
	QueueClosed
	// NotImplemented: a backend deliberately declines an operation (e.g.
	// GPU F32 sum) rather than risk a silently wrong result.
	NotImplemented
	// IO: a wrapped I/O failure from a peripheral collaborator (Parquet
	// loader, KV store, compression codec).
	IO
)

func (k Kind) String() string {
	switch k {
	case SchemaMismatch:
		return "SchemaMismatch"
	case Unsupported:
		return "Unsupported"
	case InvalidInput:
		return "InvalidInput"
	case ParseError:
		return "ParseError"
	case BackendMismatch:
		return "BackendMismatch"
	case GpuInitFailed:
		return "GpuInitFailed"
	case VramExhausted:
		return "VramExhausted"
	case QueueClosed:
		return "QueueClosed"
	case NotImplemented:
		return "NotImplemented"
	case IO:
		return "IO"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// Error is the shared tagged error carried across every component boundary.
// It names the offending column, operator, and/or backend where applicable,
// per the engine's user-visible failure contract.
type Error struct {
	Kind     Kind
	Msg      string
	Column   string
	Operator string
	Backend  string
	Err      error // wrapped cause, if any
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	if e.Column != "" {
		s += fmt.Sprintf(" (column=%s)", e.Column)
	}
	if e.Operator != "" {
		s += fmt.Sprintf(" (operator=%s)", e.Operator)
	}
	if e.Backend != "" {
		s += fmt.Sprintf(" (backend=%s)", e.Backend)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is supports errors.Is(err, &Error{Kind: SomeKind}) by comparing Kind only.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New constructs an *Error with no wrapped cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf constructs an *Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap constructs an *Error around an existing cause.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// WithColumn returns a copy of e annotated with the offending column name.
func (e *Error) WithColumn(name string) *Error {
	c := *e
	c.Column = name
	return &c
}

// WithOperator returns a copy of e annotated with the offending operator.
func (e *Error) WithOperator(op string) *Error {
	c := *e
	c.Operator = op
	return &c
}

// WithBackend returns a copy of e annotated with the offending backend.
func (e *Error) WithBackend(backend string) *Error {
	c := *e
	c.Backend = backend
	return &c
}

// Of reports whether err is (or wraps) an *Error of the given kind.
func Of(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if te, ok := err.(*Error); ok {
			e = te
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return e != nil && e.Kind == kind
}
