package workflow

import "errors"

// ErrJarNotDefined is returned when no server artifact location is known.
var ErrJarNotDefined = errors.New("jar location is not defined")

// unknownTargetError reports a target name missing from the configuration.
type unknownTargetError struct{ name string }

func (e unknownTargetError) Error() string { return "unknown target: " + e.name }

// ErrUnknownTarget constructs the error for a target that is not configured.
func ErrUnknownTarget(name string) error { return unknownTargetError{name: name} }

// IsUnknownTarget reports whether err names an unconfigured target.
func IsUnknownTarget(err error) bool {
	var e unknownTargetError
	return errors.As(err, &e)
}
