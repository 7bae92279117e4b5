// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bytestream

import (
	"context"
	"math"

	"code.hybscloud.com/bytestream/buffer"
)

// DefaultInitialSize is the initial capacity of a BufferOutput created
// without a size hint.
const DefaultInitialSize = 1024

// FromBuffer returns a stream that reads the remaining bytes of b.
//
// The stream works on a read-only duplicate of b, so reading from it does
// not move b's position or limit. The contents of b must not be modified
// until the stream is closed.
func FromBuffer(b *buffer.Buffer) InputStream {
	return &bufferInput{data: b.ReadOnly()}
}

type bufferInput struct {
	closeState
	data *buffer.Buffer
}

func (s *bufferInput) Read(_ context.Context, dst *buffer.Buffer) (bool, error) {
	if err := s.checkOpen(); err != nil {
		return false, err
	}
	n := buffer.TransferTo(s.data, dst)
	// dst may have had no room; that is not the end of the stream
	return n > 0 || s.data.HasRemaining(), nil
}

// TransferTo hands the whole remaining view to out in a single Put.
func (s *bufferInput) TransferTo(ctx context.Context, out OutputStream) (int64, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	view := s.data.Duplicate()
	total := view.Remaining()
	if err := Put(ctx, out, view); err != nil {
		// only the default Put loop reports partial progress
		n := view.Position() - s.data.Position()
		s.data.Advance(n)
		return int64(n), err
	}
	s.data.SetPosition(s.data.Limit())
	return int64(total), nil
}

func (s *bufferInput) Close(context.Context) error {
	s.tryClose()
	return nil
}

// BufferOutput is an output stream that collects written bytes in a
// growable in-memory array.
type BufferOutput struct {
	closeState
	data   []byte
	offset int
}

// NewBufferOutput returns an empty BufferOutput. expectedSize is a hint
// for the initial capacity; zero or negative means DefaultInitialSize.
func NewBufferOutput(expectedSize int) *BufferOutput {
	if expectedSize <= 0 {
		expectedSize = DefaultInitialSize
	}
	return &BufferOutput{data: make([]byte, expectedSize)}
}

// Write copies all remaining bytes of src.
func (s *BufferOutput) Write(_ context.Context, src *buffer.Buffer) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	n := src.Remaining()
	if err := s.ensureCapacity(n); err != nil {
		return err
	}
	s.offset += copy(s.data[s.offset:], src.Next(n))
	return nil
}

func (s *BufferOutput) ensureCapacity(additional int) error {
	if additional > math.MaxInt-s.offset {
		return ErrTooLarge
	}
	need := s.offset + additional
	capacity := len(s.data)
	if capacity >= need {
		return nil
	}
	grown := need
	if capacity <= math.MaxInt/2 && capacity*2 > need {
		grown = capacity * 2
	}
	data := make([]byte, grown)
	copy(data, s.data[:s.offset])
	s.data = data
	return nil
}

// Len returns the number of bytes written so far.
func (s *BufferOutput) Len() int { return s.offset }

// ToBuffer closes the stream and returns a read-only buffer over exactly
// the bytes written. It can be called once; later calls and any later
// Write return ErrClosed.
func (s *BufferOutput) ToBuffer() (*buffer.Buffer, error) {
	if !s.tryClose() {
		return nil, ErrClosed
	}
	return buffer.Wrap(s.data[:s.offset]).ReadOnly(), nil
}

// Close discards the collected bytes.
func (s *BufferOutput) Close(context.Context) error {
	s.tryClose()
	return nil
}

// CollectToBuffer runs fn against an in-memory sink and returns a read-only
// buffer with everything fn wrote. expectedSize is a capacity hint as in
// NewBufferOutput. The sink is closed on every path.
func CollectToBuffer(ctx context.Context, expectedSize int, fn func(OutputStream) error) (*buffer.Buffer, error) {
	return Use(ctx, NewBufferOutput(expectedSize), func(s *BufferOutput) (*buffer.Buffer, error) {
		if err := fn(s); err != nil {
			return nil, err
		}
		return s.ToBuffer()
	})
}
