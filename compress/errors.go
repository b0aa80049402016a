package compress

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrAllocation is matched by every *AllocationError.
	ErrAllocation = errors.New("engine resource allocation failed")

	// ErrCompression is matched by every *CompressionError.
	ErrCompression = errors.New("compression failed")

	// ErrDecompression is matched by every *DecompressionError.
	ErrDecompression = errors.New("decompression failed")

	// ErrCorruptData marks errors reporting a block that does not decode to its
	// declared length. Use IsCorruptData to test for it.
	ErrCorruptData = errors.New("corrupt data")

	// ErrClosed is returned when a released context or dictionary is used.
	ErrClosed = errors.New("codec is closed")
)

// AllocationError reports that the engine could not create a context or dictionary.
type AllocationError struct {
	Resource string
	Err      error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("allocate %s: %v", e.Resource, e.Err)
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}

func (e *AllocationError) Is(target error) bool {
	return target == ErrAllocation
}

// CompressionError reports an engine compression failure. Msg holds the engine's
// own error text.
type CompressionError struct {
	Msg string
	Err error
}

func (e *CompressionError) Error() string {
	return "compression failed: " + e.Msg
}

func (e *CompressionError) Unwrap() error {
	return e.Err
}

func (e *CompressionError) Is(target error) bool {
	return target == ErrCompression
}

// DecompressionError reports an engine decompression failure. Msg holds the
// engine's own error text.
type DecompressionError struct {
	Msg string
	Err error
}

func (e *DecompressionError) Error() string {
	return "decompression failed: " + e.Msg
}

func (e *DecompressionError) Unwrap() error {
	return e.Err
}

func (e *DecompressionError) Is(target error) bool {
	return target == ErrDecompression
}

// IsCorruptData reports whether err describes a corrupt block.
func IsCorruptData(err error) bool {
	return errors.Is(err, ErrCorruptData)
}

// CorruptDataf returns a corruption error with the given message.
func CorruptDataf(format string, args ...any) error {
	return errors.Mark(errors.Wrap(errors.Newf(format, args...), "corrupt block"), ErrCorruptData)
}

// markCorrupt wraps err as a corruption error.
func markCorrupt(err error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(err, "corrupt block: "+format, args...), ErrCorruptData)
}
