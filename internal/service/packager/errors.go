package packager

import (
	"errors"
	"fmt"
)

// Kind classifies builder failures.
type Kind int

const (
	// KindMissingBinary means the browser binary was not found in the build output.
	KindMissingBinary Kind = iota + 1
	// KindStagingFailure covers filesystem errors while staging or archiving.
	KindStagingFailure
	// KindToolInvocationFailure covers missing, failing or unimplemented external tools.
	KindToolInvocationFailure
)

var (
	// ErrMissingBinary matches errors of KindMissingBinary.
	ErrMissingBinary = errors.New("missing binary")
	// ErrStagingFailure matches errors of KindStagingFailure.
	ErrStagingFailure = errors.New("staging failure")
	// ErrToolInvocationFailure matches errors of KindToolInvocationFailure.
	ErrToolInvocationFailure = errors.New("tool invocation failure")

	// ErrAppImageUnsupported is returned by the AppImage builder.
	ErrAppImageUnsupported = errors.New("AppImage creation is not implemented")
	// ErrDebToolMissing is returned when dpkg-deb is not on the search path.
	ErrDebToolMissing = errors.New("dpkg-deb not found")
	// ErrPackagerRunning is returned when another packager process holds the run marker.
	ErrPackagerRunning = errors.New("another packager run is using this root directory")

	errPackageMismatch = errors.New("built package has unexpected control data")
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMissingBinary:
		return "MissingBinary"
	case KindStagingFailure:
		return "StagingFailure"
	case KindToolInvocationFailure:
		return "ToolInvocationFailure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindMissingBinary:
		return ErrMissingBinary
	case KindStagingFailure:
		return ErrStagingFailure
	case KindToolInvocationFailure:
		return ErrToolInvocationFailure
	default:
		return nil
	}
}

// Error is a failed packaging step.
type Error struct {
	// Kind classifies the failure.
	Kind Kind
	// Step is the package format being built.
	Step Format
	// Err is the underlying cause.
	Err error
}

func newError(kind Kind, step Format, err error) *Error {
	return &Error{Kind: kind, Step: step, Err: err}
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Step, e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrMissingBinary) and friends match by kind.
func (e *Error) Is(target error) bool {
	sentinel := e.Kind.sentinel()
	return sentinel != nil && target == sentinel
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var pkgErr *Error
	if errors.As(err, &pkgErr) {
		return pkgErr.Kind, true
	}

	return 0, false
}
