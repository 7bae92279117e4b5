// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bytestream

import (
	"context"
	"errors"
	"slices"
	"strings"
)

// Error taxonomy:
//   - ErrClosed: an operation other than Close on a closed stream. Always a
//     programming error; never retry.
//   - ErrInvalidRange: a bad byte range at file open time. Reported before
//     any read is attempted.
//   - I/O errors from the os package are returned as-is.
//   - Cancellation (context.Canceled, context.DeadlineExceeded) is not a data
//     error. Close paths discard it instead of aggregating it.
//   - Broken internal accounting panics.

// ErrClosed is returned by any stream operation other than Close once the
// stream has been closed.
var ErrClosed = errors.New("bytestream: stream closed")

// ErrInvalidRange is returned when a file input stream is opened with a byte
// range that is malformed or lies outside the file.
var ErrInvalidRange = errors.New("bytestream: invalid range")

// ErrShortWrite means an output stream accepted no bytes from a non-empty
// buffer. Helpers report it instead of spinning.
var ErrShortWrite = errors.New("bytestream: short write")

// ErrTooLarge is returned when an in-memory sink cannot grow any further.
var ErrTooLarge = errors.New("bytestream: too large")

// ErrWouldBlock means "no further progress without waiting".
// Adapters over non-blocking io.Reader/io.Writer values treat it as a signal
// to back off and retry.
var ErrWouldBlock = errors.New("bytestream: would block")

// ErrMore means "this operation remains active; more completions will
// follow". Adapters treat it as progress.
var ErrMore = errors.New("bytestream: expect more")

// IsCancellation reports whether err carries a context cancellation or
// deadline signal.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// MultiError is a primary failure with secondary failures attached to it.
//
// Secondary failures come from cleanup that ran after the primary failure
// was already in flight, such as a Close inside Use. They never replace the
// primary: errors.Is and errors.As see only Primary through Unwrap.
type MultiError struct {
	Primary    error
	Suppressed []error
}

func (e *MultiError) Error() string {
	if len(e.Suppressed) == 0 {
		return e.Primary.Error()
	}
	var sb strings.Builder
	sb.WriteString(e.Primary.Error())
	sb.WriteString(" (suppressed: ")
	for i, s := range e.Suppressed {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(s.Error())
	}
	sb.WriteString(")")
	return sb.String()
}

func (e *MultiError) Unwrap() error { return e.Primary }

// Suppress attaches secondary to primary and returns the combined error.
// If primary already is a *MultiError, the result carries its secondary
// failures followed by secondary; primary itself is not modified.
// A nil secondary returns primary unchanged.
func Suppress(primary, secondary error) error {
	if secondary == nil {
		return primary
	}
	if primary == nil {
		return secondary
	}
	if me, ok := primary.(*MultiError); ok {
		return &MultiError{Primary: me.Primary, Suppressed: append(slices.Clip(me.Suppressed), secondary)}
	}
	return &MultiError{Primary: primary, Suppressed: []error{secondary}}
}

// Suppressed returns the secondary failures attached to err, or nil.
func Suppressed(err error) []error {
	var me *MultiError
	if errors.As(err, &me) {
		return me.Suppressed
	}
	return nil
}
