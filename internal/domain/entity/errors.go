package entity

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind string

const (
	KindNavigation ErrorKind = "NavigationError"
	KindReadiness  ErrorKind = "ReadinessTimeout"
	KindDownload   ErrorKind = "DownloadTimeout"
	KindPersist    ErrorKind = "PersistError"
	KindSession    ErrorKind = "SessionError"
)

func (k ErrorKind) String() string {
	return string(k)
}

// RenderError is the only error type a render pipeline returns.
type RenderError struct {
	Kind        ErrorKind
	Op          string
	Err         error
	Diagnostics []string
}

func NewRenderError(kind ErrorKind, op string, err error, diagnostics ...string) *RenderError {
	return &RenderError{
		Kind:        kind,
		Op:          op,
		Err:         err,
		Diagnostics: diagnostics,
	}
}

func (e *RenderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Kind, e.Op)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if len(e.Diagnostics) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Diagnostics, "; "))
		b.WriteString(")")
	}
	return b.String()
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of the first RenderError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var re *RenderError
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return "", false
}
