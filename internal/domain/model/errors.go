package model

import (
	"errors"
	"fmt"

	"github.com/twinrisk/twinrisk/internal/domain/valueobject"
)

// ErrArtifactNotFound is returned by artifact sources that hold no usable artifact.
var ErrArtifactNotFound = errors.New("model artifact not found")

// ErrorKind classifies the errors a prediction can fail with.
type ErrorKind string

const (
	KindUnknown                ErrorKind = ""
	KindMissingField           ErrorKind = "missing_field"
	KindInvalidType            ErrorKind = "invalid_type"
	KindOutOfRange             ErrorKind = "out_of_range"
	KindInferenceFailed        ErrorKind = "inference_failed"
	KindExplanationUnavailable ErrorKind = "explanation_unavailable"
)

// FieldError is implemented by validation errors tied to a single feature.
type FieldError interface {
	error
	Field() string
	Kind() ErrorKind
}

// MissingFieldError reports a required feature that is absent, null or blank.
type MissingFieldError struct {
	Feature string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Feature)
}

func (e *MissingFieldError) Field() string   { return e.Feature }
func (e *MissingFieldError) Kind() ErrorKind { return KindMissingField }

// TypeError reports a value that is not a finite number.
type TypeError struct {
	Feature  string
	RawValue any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("field %s: value %v is not a finite number", e.Feature, e.RawValue)
}

func (e *TypeError) Field() string   { return e.Feature }
func (e *TypeError) Kind() ErrorKind { return KindInvalidType }

// RangeError reports a numeric value outside its feature's domain.
type RangeError struct {
	Feature string
	Value   float64
	Domain  valueobject.ValueDomain
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("field %s: value %g outside domain %s", e.Feature, e.Value, e.Domain)
}

func (e *RangeError) Field() string   { return e.Feature }
func (e *RangeError) Kind() ErrorKind { return KindOutOfRange }

// InferenceError reports a failure of the underlying model. It is fatal for the
// request and never retried.
type InferenceError struct {
	Reason string
	Err    error
}

func (e *InferenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("inference failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("inference failed: %s", e.Reason)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// ExplanationUnavailableError reports that attributions cannot be computed for
// the loaded model. A prediction still succeeds without them.
type ExplanationUnavailableError struct {
	Reason string
}

func (e *ExplanationUnavailableError) Error() string {
	return fmt.Sprintf("explanation unavailable: %s", e.Reason)
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var fe FieldError
	if errors.As(err, &fe) {
		return fe.Kind()
	}
	var ie *InferenceError
	if errors.As(err, &ie) {
		return KindInferenceFailed
	}
	var ee *ExplanationUnavailableError
	if errors.As(err, &ee) {
		return KindExplanationUnavailable
	}
	return KindUnknown
}
