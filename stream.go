// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bytestream

import (
	"context"

	"code.hybscloud.com/bytestream/buffer"
)

const (
	// DefaultBufferSize is the size of the intermediate buffer Transfer
	// allocates when the input has no fast path.
	DefaultBufferSize = 8 * 1024

	// FileBlockSize is the intermediate buffer size used when a file input
	// stream is drained into a non-file output.
	FileBlockSize = 4 * 1024
)

// InputStream is a source of bytes.
type InputStream interface {
	Closer

	// Read transfers at most dst.Remaining() bytes into dst, advancing its
	// position by the number of bytes read.
	//
	// Read returns false only when the end of the stream is reached and no
	// bytes were read by this call; it returns true otherwise, including
	// when some bytes were read right before the end. Read on a closed
	// stream returns ErrClosed.
	Read(ctx context.Context, dst *buffer.Buffer) (bool, error)
}

// OutputStream is a sink of bytes.
type OutputStream interface {
	Closer

	// Write consumes remaining bytes of src, advancing its position by the
	// amount consumed. Implementations should consume everything but are not
	// required to. Write on a closed stream returns ErrClosed.
	Write(ctx context.Context, src *buffer.Buffer) error
}

// Putter is an optional optimization for OutputStreams.
//
// Put consumes the whole of src in one call. The caller must not access src
// afterward: the sink may keep it and read from it later, but never
// modifies its contents. Put need not move src's position.
type Putter interface {
	Put(ctx context.Context, src *buffer.Buffer) error
}

// Transferer is an optional optimization for InputStreams.
//
// TransferTo writes everything left in the stream to out and returns the
// number of bytes moved.
type Transferer interface {
	TransferTo(ctx context.Context, out OutputStream) (int64, error)
}

// Put writes all of src to out.
//
// If out implements Putter, the call is delegated and ownership of src's
// bytes passes to out. Otherwise Put calls out.Write until src has no
// remaining bytes. A Write that consumes nothing from a non-empty src is
// reported as ErrShortWrite.
func Put(ctx context.Context, out OutputStream, src *buffer.Buffer) error {
	if p, ok := out.(Putter); ok {
		return p.Put(ctx, src)
	}
	return writeAll(ctx, out, src)
}

func writeAll(ctx context.Context, out OutputStream, src *buffer.Buffer) error {
	for src.HasRemaining() {
		before := src.Remaining()
		if err := out.Write(ctx, src); err != nil {
			return err
		}
		if src.Remaining() == before {
			return ErrShortWrite
		}
	}
	return nil
}

// Transfer moves all bytes from in to out and returns the number moved.
//
// If in implements Transferer, the call is delegated. Otherwise Transfer
// runs the read/write loop over a DefaultBufferSize buffer (see
// TransferBuffer). Neither stream is closed.
func Transfer(ctx context.Context, in InputStream, out OutputStream) (int64, error) {
	if t, ok := in.(Transferer); ok {
		return t.TransferTo(ctx, out)
	}
	return transfer(ctx, in, out, buffer.Allocate(DefaultBufferSize))
}

// TransferBuffer is like Transfer but always runs the read/write loop,
// staging bytes through buf. buf must be in write mode; bytes it already
// holds before its position are written out first.
// If buf has zero capacity, TransferBuffer panics.
func TransferBuffer(ctx context.Context, in InputStream, out OutputStream, buf *buffer.Buffer) (int64, error) {
	if buf.Capacity() == 0 {
		panic("empty buffer in TransferBuffer")
	}
	return transfer(ctx, in, out, buf)
}

// transfer is the canonical loop: read while the input has data or the
// buffer still holds unwritten bytes, flip, write, compact. Each write is
// issued only after the read that produced its data has returned. The
// returned total equals the sum of bytes read.
func transfer(ctx context.Context, in InputStream, out OutputStream, buf *buffer.Buffer) (int64, error) {
	var written int64
	for {
		more, err := in.Read(ctx, buf)
		if err != nil {
			return written, err
		}
		if !more && buf.Position() == 0 {
			return written, nil
		}
		buf.Flip()
		before := buf.Remaining()
		err = out.Write(ctx, buf)
		n := before - buf.Remaining()
		written += int64(n)
		buf.Compact()
		if err != nil {
			return written, err
		}
		if n == 0 && before > 0 {
			return written, ErrShortWrite
		}
	}
}
