package deepclone

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrPoisoned indicates a Guarded value was poisoned by a panic while its
	// lock was held. The guarded value can no longer be trusted.
	ErrPoisoned = errors.New("guarded value poisoned")

	// ErrCodec indicates a codec-backed clone failed to encode or decode.
	ErrCodec = errors.New("codec clone failed")
)

// PoisonError is raised when a clone touches a poisoned Guarded value.
// Clone and CloneFrom raise it as a panic value. Guarded.Lock returns it.
type PoisonError struct {
	Type string // Guarded element type name
}

func (e *PoisonError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s (%s)", ErrPoisoned.Error(), e.Type)
	}
	return ErrPoisoned.Error()
}

func (e *PoisonError) Unwrap() error {
	return ErrPoisoned
}

// CodecError represents a failed encode or decode inside Through.
type CodecError struct {
	Op          string // "marshal" or "unmarshal"
	ContentType string // codec content type
	Cause       error  // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %s: %v", ErrCodec.Error(), e.ContentType, e.Op, e.Cause)
	}
	return fmt.Sprintf("%s: %s %s", ErrCodec.Error(), e.ContentType, e.Op)
}

func (e *CodecError) Unwrap() error {
	return ErrCodec
}

// newPoisonError creates a PoisonError for the given element type.
func newPoisonError(typeName string) error {
	return &PoisonError{Type: typeName}
}

// newCodecError creates a CodecError for encode/decode failures.
func newCodecError(op, contentType string, cause error) error {
	return &CodecError{
		Op:          op,
		ContentType: contentType,
		Cause:       cause,
	}
}

// Recover runs fn and converts a PoisonError or CodecError panic raised by a
// clone into a returned error. Any other panic is re-raised unchanged.
//
// Clone and CloneFrom never recover these failures themselves; Recover is
// for callers that would rather handle them as errors at their own boundary.
func Recover(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		var pe *PoisonError
		var ce *CodecError
		if e, ok := r.(error); ok && (errors.As(e, &pe) || errors.As(e, &ce)) {
			err = e
			return
		}
		panic(r)
	}()
	fn()
	return nil
}
