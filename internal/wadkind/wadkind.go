// Package wadkind defines the error taxonomy shared by every codec and by the
// merge driver (spec §7): InvalidFormat, CorruptHeader, IntegrityError, IO and
// UserAbort. It lives below the codec packages so each of them can return a
// typed error without importing the merge driver itself.
package wadkind

// Kind identifies which of the fixed error categories an Error belongs to.
type Kind int

const (
	InvalidFormat Kind = iota
	CorruptHeader
	Integrity
	IO
	UserAbort
)

func (k Kind) String() string {
	switch k {
	case InvalidFormat:
		return "invalid format"
	case CorruptHeader:
		return "corrupt header"
	case Integrity:
		return "integrity error"
	case IO:
		return "io error"
	case UserAbort:
		return "user abort"
	default:
		return "unknown error"
	}
}

// Error wraps an underlying error with one of the fixed Kinds and the
// operation that produced it, so callers can both errors.Is/As against Kind
// and get a useful message.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.String()
	}
	return e.Op + ": " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an *Error for the given kind, operation label and cause.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Sentinels for errors.Is(err, wadkind.ErrInvalidFormat) style checks; only
// the Kind field is compared (see Error.Is below).
var (
	ErrInvalidFormat = &Error{Kind: InvalidFormat}
	ErrCorruptHeader = &Error{Kind: CorruptHeader}
	ErrIntegrity     = &Error{Kind: Integrity}
	ErrIO            = &Error{Kind: IO}
	ErrUserAbort     = &Error{Kind: UserAbort}
)

// Is allows errors.Is(err, wadkind.ErrInvalidFormat) style matching by
// comparing Kind when the target is itself an *Error, such as one of the
// sentinels above.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
