package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when a parameter fails a shape or
	// type precondition. Checks happen before any mutation.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMissingColumn is returned when a named column is absent from the
	// Table at the point of use.
	ErrMissingColumn = errors.New("missing column")
)

func invalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func missingColumn(name string) error {
	return fmt.Errorf("%w: %q", ErrMissingColumn, name)
}

// InvalidArgument wraps msg so that errors.Is(err, ErrInvalidArgument) holds.
// Packages that decode untyped input (config files, flags) use it to report
// values that cannot become a typed option.
func InvalidArgument(format string, args ...interface{}) error {
	return invalidArgument(format, args...)
}
