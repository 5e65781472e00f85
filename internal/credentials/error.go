package credentials

type ErrorKind int

const (
	KindNotFound ErrorKind = iota
	KindAccessDenied
	KindMalformed
	KindUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAccessDenied:
		return "access_denied"
	case KindMalformed:
		return "malformed"
	case KindUnsupported:
		return "unsupported"
	}
	return "unknown"
}

// Error classifies a failed credential resolution. Hint is a user-facing
// remediation message; the token value never appears in it.
type Error struct {
	Kind  ErrorKind
	Hint  string
	cause error
}

func newError(kind ErrorKind, hint string, cause error) *Error {
	return &Error{Kind: kind, Hint: hint, cause: cause}
}

func (e *Error) Error() string { return e.Hint }

func (e *Error) Unwrap() error { return e.cause }
