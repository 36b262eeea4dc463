package plantuml

import "fmt"

// Kind classifies renderer failures.
type Kind int

const (
	// JavaNotFound means no usable Java runtime could be resolved or run.
	JavaNotFound Kind = iota + 1

	// JarNotFound means plantuml.jar could not be located.
	JarNotFound

	// Render covers execution failures, timeouts and missing output files.
	Render

	// UnsupportedFormat is a Render failure detected before any subprocess
	// is started.
	UnsupportedFormat
)

func (k Kind) String() string {
	switch k {
	case JavaNotFound:
		return "java not found"
	case JarNotFound:
		return "plantuml.jar not found"
	case Render:
		return "render failed"
	case UnsupportedFormat:
		return "unsupported format"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the single error type produced by this package. Use errors.As to
// get at the Kind, or errors.Is against the sentinels below.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Sentinels for errors.Is. Matching is by Kind only.
var (
	ErrJavaNotFound      = &Error{Kind: JavaNotFound}
	ErrJarNotFound       = &Error{Kind: JarNotFound}
	ErrRender            = &Error{Kind: Render}
	ErrUnsupportedFormat = &Error{Kind: UnsupportedFormat}
)

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a sentinel of the same kind. An unsupported
// format also matches ErrRender.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Msg != "" || t.Err != nil {
		return false
	}
	if t.Kind == e.Kind {
		return true
	}
	return t.Kind == Render && e.Kind == UnsupportedFormat
}
