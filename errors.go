package veil

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrInvalidFilter indicates a filter declaration cannot produce a rule.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrUnknownProperty indicates a filter names a property its type does not declare.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrMissingMasker indicates no masker is registered for a mask type.
	ErrMissingMasker = errors.New("missing masker")

	// ErrMaskerInit indicates a masker factory failed to produce an instance.
	ErrMaskerInit = errors.New("masker init failed")

	// ErrMask indicates a masker failed while masking a value.
	ErrMask = errors.New("mask failed")

	// ErrProperty indicates a property value could not be read.
	ErrProperty = errors.New("property access failed")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")

	// ErrSink indicates the output sink rejected a write.
	ErrSink = errors.New("sink failed")

	// ErrWrite indicates rendered output could not be written to its destination.
	ErrWrite = errors.New("write failed")

	// ErrCycle indicates the walk exceeded its nesting limit.
	ErrCycle = errors.New("nesting too deep")

	// ErrInvalidCodec indicates a codec cannot serve as the default serializer.
	ErrInvalidCodec = errors.New("invalid codec")
)

// ConfigError represents a declaration or configuration error.
// It wraps a sentinel error with additional context about the field and type.
type ConfigError struct {
	Err   error  // Underlying sentinel error (ErrInvalidFilter, etc.)
	Field string // Property name that triggered the error
	Type  string // Struct type or mask type that was missing/invalid
}

func (e *ConfigError) Error() string {
	if e.Field != "" && e.Type != "" {
		return fmt.Sprintf("%s for %q (field %s)", e.Err.Error(), e.Type, e.Field)
	}
	if e.Type != "" {
		return fmt.Sprintf("%s for %q", e.Err.Error(), e.Type)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s (field %s)", e.Err.Error(), e.Field)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// FieldError represents a failure while writing one property of a filtered object.
type FieldError struct {
	Err   error  // Underlying sentinel error (ErrProperty, ErrMarshal, etc.)
	Field string // Property that failed
	Path  string // Path of the object that owns the property
	Cause error  // Original error or recovered panic
}

func (e *FieldError) Error() string {
	field := e.Field
	if e.Path != "" {
		field = e.Path + "." + e.Field
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: field %s: %v", e.Err.Error(), field, e.Cause)
	}
	return fmt.Sprintf("%s: field %s", e.Err.Error(), field)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// newConfigError creates a ConfigError.
func newConfigError(sentinel error, typ, field string) error {
	return &ConfigError{
		Err:   sentinel,
		Type:  typ,
		Field: field,
	}
}

// newFieldError creates a FieldError for a failed property.
func newFieldError(sentinel error, field, path string, cause error) error {
	return &FieldError{
		Err:   sentinel,
		Field: field,
		Path:  path,
		Cause: cause,
	}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
