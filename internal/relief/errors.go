package relief

import (
	"errors"
	"fmt"
)

// Kind classifies a conversion failure by the stage that rejected it.
type Kind int

const (
	// KindInput marks malformed or missing input data (bad grids, unreadable images).
	KindInput Kind = iota + 1
	// KindConfiguration marks parameter values outside their allowed ranges.
	KindConfiguration
	// KindGeometry marks mesh construction failures.
	KindGeometry
	// KindEstimation marks failures inside a depth source.
	KindEstimation
	// KindExport marks failures of the external geometry renderer.
	KindExport
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindConfiguration:
		return "configuration"
	case KindGeometry:
		return "geometry"
	case KindEstimation:
		return "estimation"
	case KindExport:
		return "export"
	default:
		return "unknown"
	}
}

// Sentinel errors for matching with errors.Is. Every *Error matches
// ErrConversion plus the sentinel of its own kind.
var (
	ErrConversion    = errors.New("conversion failure")
	ErrInput         = errors.New("invalid input")
	ErrConfiguration = errors.New("invalid configuration")
	ErrGeometry      = errors.New("geometry failure")
	ErrEstimation    = errors.New("depth estimation failure")
	ErrExport        = errors.New("export failure")
)

var kindSentinels = map[Kind]error{
	KindInput:         ErrInput,
	KindConfiguration: ErrConfiguration,
	KindGeometry:      ErrGeometry,
	KindEstimation:    ErrEstimation,
	KindExport:        ErrExport,
}

// Error is the error type returned by every conversion stage.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "heightfield.Normalize"
	Msg  string
	Err  error // underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.Op == "" {
		return fmt.Sprintf("%s error: %s", e.Kind, msg)
	}
	return fmt.Sprintf("%s: %s error: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is ErrConversion or the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	if target == ErrConversion {
		return true
	}
	return kindSentinels[e.Kind] == target
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return 0
}

func newError(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// InputError returns an input-kind error.
func InputError(op, format string, args ...interface{}) error {
	return newError(KindInput, op, format, args...)
}

// ConfigurationError returns a configuration-kind error.
func ConfigurationError(op, format string, args ...interface{}) error {
	return newError(KindConfiguration, op, format, args...)
}

// GeometryError returns a geometry-kind error.
func GeometryError(op, format string, args ...interface{}) error {
	return newError(KindGeometry, op, format, args...)
}

// EstimationError wraps cause as an estimation-kind error.
func EstimationError(op string, cause error, format string, args ...interface{}) error {
	e := newError(KindEstimation, op, format, args...)
	e.Err = cause
	return e
}

// ExportError wraps cause as an export-kind error.
func ExportError(op string, cause error, format string, args ...interface{}) error {
	e := newError(KindExport, op, format, args...)
	e.Err = cause
	return e
}

// Wrap attaches kind and op to cause. An existing *Error is returned unchanged.
func Wrap(kind Kind, op string, cause error) error {
	if cause == nil {
		return nil
	}
	var re *Error
	if errors.As(cause, &re) {
		return cause
	}
	return &Error{Kind: kind, Op: op, Err: cause}
}
