// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bytestream

import (
	"context"
)

// Closer is implemented by values that own a releasable resource.
//
// Close must be idempotent: a second call is a no-op returning nil. It must
// release the resource even if ctx is already cancelled or gets cancelled
// while closing; an implementation may report the cancellation in its
// result, but the release itself is not abortable.
type Closer interface {
	Close(ctx context.Context) error
}

// Use runs fn with c and then closes c exactly once, whether fn returns
// normally, returns an error, or panics.
//
// If fn failed, a close failure is attached to fn's error as a secondary
// failure (see Suppress). If fn succeeded, a close failure becomes the
// result error. In both cases a cancellation signal returned by Close is
// discarded. If fn panics, c is closed and the panic continues.
func Use[C Closer, R any](ctx context.Context, c C, fn func(C) (R, error)) (result R, err error) {
	panicking := true
	defer func() {
		cerr := c.Close(ctx)
		switch {
		case cerr == nil:
		case IsCancellation(cerr):
			logger().Debug().Err(cerr).Msg("discarded cancellation from close")
		case panicking:
			logger().Warn().Err(cerr).Msg("close failed while panicking")
		case err != nil:
			err = Suppress(err, cerr)
		default:
			err = cerr
		}
	}()
	result, err = fn(c)
	panicking = false
	return result, err
}

// CloseAll closes every element of cs in order, continuing past failures.
//
// The first failure that is not a cancellation signal is returned, with
// every later such failure attached to it as a secondary failure.
// Cancellation signals are discarded. CloseAll returns nil if all closes
// succeed.
func CloseAll(ctx context.Context, cs ...Closer) error {
	var err error
	for _, c := range cs {
		cerr := c.Close(ctx)
		switch {
		case cerr == nil:
		case IsCancellation(cerr):
			logger().Debug().Err(cerr).Msg("discarded cancellation from close")
		case err == nil:
			err = cerr
		default:
			err = Suppress(err, cerr)
		}
	}
	return err
}

// closeState is the lifecycle flag shared by all streams: open on creation,
// closed exactly once, never reopened.
type closeState struct {
	closed bool
}

func (s *closeState) checkOpen() error {
	if s.closed {
		return ErrClosed
	}
	return nil
}

// tryClose marks the state closed and reports whether this call did it.
func (s *closeState) tryClose() bool {
	if s.closed {
		return false
	}
	s.closed = true
	return true
}
