// Package errs defines the error taxonomy shared by the linking,
// orientation and readout layers. Each condition that callers must be
// able to distinguish gets its own type, compatible with errors.As.
package errs

import (
	"errors"
	"fmt"
)

// ErrNoReferenceData is returned when a link look-up runs against an
// empty collection.
var ErrNoReferenceData = errors.New("No reference data for link look-up")

// InvalidParameterError reports a bad enum value for an operation
// parameter. It is always surfaced immediately and never recovered.
type InvalidParameterError struct {
	Param string
	Value string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid %s=%q", e.Param, e.Value)
}

// NewInvalidParameter creates an InvalidParameterError for the named
// parameter.
func NewInvalidParameter(param, value string) *InvalidParameterError {
	return &InvalidParameterError{Param: param, Value: value}
}

// MissingCoordinateFrameError reports a dataset lacking the WCS needed
// for a requested link scheme. The message names "valid WCS" so callers
// can distinguish it from other parameter errors.
type MissingCoordinateFrameError struct {
	Label string
}

func (e *MissingCoordinateFrameError) Error() string {
	return fmt.Sprintf("%q: WCS linking is only possible if all data have valid WCS", e.Label)
}

// LinkLookupError reports a query naming a dataset or pair absent from
// the current link graph.
type LinkLookupError struct {
	Labels []string
}

func (e *LinkLookupError) Error() string {
	switch len(e.Labels) {
	case 1:
		return fmt.Sprintf("%s not found in data collection external links", e.Labels[0])
	case 2:
		return fmt.Sprintf("%s and %s combo not found in data collection external links",
			e.Labels[0], e.Labels[1])
	default:
		return "link not found in data collection external links"
	}
}

// UnsafeStateTransitionError reports an operation rejected because it
// would invalidate existing state, e.g. changing link type while markers
// are present. The operation must have had no partial effect.
type UnsafeStateTransitionError struct {
	Reason string
}

func (e *UnsafeStateTransitionError) Error() string {
	return e.Reason
}

// IsInvalidParameter reports whether err is an InvalidParameterError.
func IsInvalidParameter(err error) bool {
	var e *InvalidParameterError
	return errors.As(err, &e)
}

// IsMissingCoordinateFrame reports whether err is a
// MissingCoordinateFrameError.
func IsMissingCoordinateFrame(err error) bool {
	var e *MissingCoordinateFrameError
	return errors.As(err, &e)
}

// IsLinkLookup reports whether err is a LinkLookupError or the
// no-reference sentinel.
func IsLinkLookup(err error) bool {
	var e *LinkLookupError
	return errors.As(err, &e) || errors.Is(err, ErrNoReferenceData)
}

// IsUnsafeStateTransition reports whether err is an
// UnsafeStateTransitionError.
func IsUnsafeStateTransition(err error) bool {
	var e *UnsafeStateTransitionError
	return errors.As(err, &e)
}
