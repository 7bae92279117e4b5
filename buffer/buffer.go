// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package buffer provides a fixed-capacity byte buffer with an independent
// read/write cursor, and helpers that move bytes between such buffers.
//
// A Buffer keeps three markers over its backing array:
//
//	0 <= position <= limit <= capacity
//
// position is the index of the next byte to read or write, limit is the
// exclusive upper bound for the current operation, and capacity is fixed at
// construction. Remaining is limit - position.
//
// Marker misuse (a position past the limit, a put past the limit, a write
// into a read-only buffer) is a programming error and panics, the same way
// out-of-range slice indexing does.
package buffer

import (
	"errors"
	"fmt"
)

var (
	// ErrOverflow is the panic value when a put would exceed the limit.
	ErrOverflow = errors.New("buffer: overflow")

	// ErrUnderflow is the panic value when a get would exceed the limit.
	ErrUnderflow = errors.New("buffer: underflow")

	// ErrReadOnly is the panic value when a read-only buffer is modified.
	ErrReadOnly = errors.New("buffer: read-only")
)

// Buffer is a cursor over a fixed-capacity byte array.
//
// Buffers returned by Duplicate and ReadOnly share the backing array with
// their origin but keep their own markers. A Buffer is not safe for
// concurrent use.
type Buffer struct {
	data     []byte
	pos      int
	lim      int
	readOnly bool
}

// Allocate returns a buffer of the given capacity with position 0 and limit
// equal to capacity.
func Allocate(capacity int) *Buffer {
	if capacity < 0 {
		panic(fmt.Sprintf("buffer: negative capacity %d", capacity))
	}
	return &Buffer{data: make([]byte, capacity), lim: capacity}
}

// Wrap returns a buffer backed by p. Capacity and limit are len(p), position
// is 0. Modifications through the buffer are visible in p and vice versa.
func Wrap(p []byte) *Buffer {
	return &Buffer{data: p[:len(p):len(p)], lim: len(p)}
}

// Position returns the index of the next byte to be read or written.
func (b *Buffer) Position() int { return b.pos }

// Limit returns the index of the first byte that must not be read or written.
func (b *Buffer) Limit() int { return b.lim }

// Capacity returns the size of the backing array.
func (b *Buffer) Capacity() int { return len(b.data) }

// Remaining returns limit - position.
func (b *Buffer) Remaining() int { return b.lim - b.pos }

// HasRemaining reports whether any byte lies between position and limit.
func (b *Buffer) HasRemaining() bool { return b.pos < b.lim }

// IsReadOnly reports whether the buffer rejects modifications.
func (b *Buffer) IsReadOnly() bool { return b.readOnly }

// SetPosition moves the position. It panics unless 0 <= pos <= limit.
func (b *Buffer) SetPosition(pos int) *Buffer {
	if pos < 0 || pos > b.lim {
		panic(fmt.Sprintf("buffer: position %d out of range [0, %d]", pos, b.lim))
	}
	b.pos = pos
	return b
}

// SetLimit moves the limit. It panics unless 0 <= lim <= capacity. If the
// position is past the new limit, it is set to the new limit.
func (b *Buffer) SetLimit(lim int) *Buffer {
	if lim < 0 || lim > len(b.data) {
		panic(fmt.Sprintf("buffer: limit %d out of range [0, %d]", lim, len(b.data)))
	}
	b.lim = lim
	if b.pos > lim {
		b.pos = lim
	}
	return b
}

// Advance moves the position forward by n bytes.
func (b *Buffer) Advance(n int) *Buffer {
	if n < 0 || n > b.Remaining() {
		panic(fmt.Sprintf("buffer: cannot advance by %d with %d remaining", n, b.Remaining()))
	}
	b.pos += n
	return b
}

// Flip prepares a just-written region for reading: limit becomes the
// current position and position becomes 0.
func (b *Buffer) Flip() *Buffer {
	b.lim = b.pos
	b.pos = 0
	return b
}

// Compact moves the unread bytes to the front of the buffer, sets position
// right after them and limit to capacity. It prepares the buffer for the
// next write after a partial read.
func (b *Buffer) Compact() *Buffer {
	b.checkWritable()
	n := copy(b.data, b.data[b.pos:b.lim])
	b.pos = n
	b.lim = len(b.data)
	return b
}

// Clear resets position to 0 and limit to capacity. Content is untouched.
func (b *Buffer) Clear() *Buffer {
	b.pos = 0
	b.lim = len(b.data)
	return b
}

// Rewind resets position to 0 and keeps the limit.
func (b *Buffer) Rewind() *Buffer {
	b.pos = 0
	return b
}

// Bytes returns the remaining region data[position:limit] without moving
// the position. The slice aliases the buffer; callers must not modify it
// when the buffer is read-only.
func (b *Buffer) Bytes() []byte {
	return b.data[b.pos:b.lim:b.lim]
}

// Writable returns the remaining region as a destination for writes. The
// caller reports how much it filled with Advance. Writable panics on a
// read-only buffer.
func (b *Buffer) Writable() []byte {
	b.checkWritable()
	return b.data[b.pos:b.lim:b.lim]
}

// Get reads the byte at position and advances.
func (b *Buffer) Get() byte {
	if b.pos >= b.lim {
		panic(ErrUnderflow)
	}
	c := b.data[b.pos]
	b.pos++
	return c
}

// Put writes c at position and advances.
func (b *Buffer) Put(c byte) *Buffer {
	b.checkWritable()
	if b.pos >= b.lim {
		panic(ErrOverflow)
	}
	b.data[b.pos] = c
	b.pos++
	return b
}

// Next returns the next n remaining bytes and advances past them.
// The slice aliases the buffer.
func (b *Buffer) Next(n int) []byte {
	if n < 0 || n > b.Remaining() {
		panic(ErrUnderflow)
	}
	p := b.data[b.pos : b.pos+n : b.pos+n]
	b.pos += n
	return p
}

// PutBytes copies all of p at position and advances. It panics with
// ErrOverflow if p does not fit in the remaining region.
func (b *Buffer) PutBytes(p []byte) *Buffer {
	b.checkWritable()
	if len(p) > b.Remaining() {
		panic(ErrOverflow)
	}
	b.pos += copy(b.data[b.pos:], p)
	return b
}

// PutBuffer copies all remaining bytes of src into b, advancing both.
// It panics with ErrOverflow if they do not fit.
func (b *Buffer) PutBuffer(src *Buffer) *Buffer {
	if src == b {
		panic("buffer: source and destination are the same buffer")
	}
	b.checkWritable()
	if src.Remaining() > b.Remaining() {
		panic(ErrOverflow)
	}
	n := copy(b.data[b.pos:], src.data[src.pos:src.lim])
	b.pos += n
	src.pos += n
	return b
}

// Duplicate returns a buffer sharing the backing array with independent
// markers initialised from b. Read-only-ness is inherited.
func (b *Buffer) Duplicate() *Buffer {
	d := *b
	return &d
}

// ReadOnly returns a read-only duplicate of b.
func (b *Buffer) ReadOnly() *Buffer {
	d := *b
	d.readOnly = true
	return &d
}

func (b *Buffer) String() string {
	ro := ""
	if b.readOnly {
		ro = " ro"
	}
	return fmt.Sprintf("buffer[pos=%d lim=%d cap=%d%s]", b.pos, b.lim, len(b.data), ro)
}

func (b *Buffer) checkWritable() {
	if b.readOnly {
		panic(ErrReadOnly)
	}
}
