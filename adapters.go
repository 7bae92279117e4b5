// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bytestream

import (
	"context"
	"io"

	"code.hybscloud.com/bytestream/buffer"
)

// ReaderInput returns an InputStream that reads from r.
//
// io.EOF ends the stream. If r is non-blocking and returns ErrWouldBlock, or
// makes no progress, Read waits with a Backoff and tries again until data
// arrives or ctx is done. ErrMore with data counts as a successful read.
// Close closes r if it implements io.Closer.
func ReaderInput(r io.Reader) InputStream {
	return &readerInput{r: r}
}

type readerInput struct {
	closeState
	r       io.Reader
	eof     bool
	backoff Backoff
}

func (s *readerInput) Read(ctx context.Context, dst *buffer.Buffer) (bool, error) {
	if err := s.checkOpen(); err != nil {
		return false, err
	}
	if s.eof {
		return false, nil
	}
	p := dst.Writable()
	if len(p) == 0 {
		return true, nil
	}
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		n, err := s.r.Read(p)
		dst.Advance(n)
		switch Classify(err) {
		case OutcomeOK, OutcomeMore, OutcomeWouldBlock:
			if n > 0 {
				s.backoff.Reset()
				return true, nil
			}
		default:
			if err == io.EOF {
				s.eof = true
				return n > 0, nil
			}
			return n > 0, err
		}
		if err := s.backoff.Wait(ctx); err != nil {
			return false, err
		}
	}
}

func (s *readerInput) Close(context.Context) error {
	if !s.tryClose() {
		return nil
	}
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// WriterOutput returns an OutputStream that writes to w.
//
// A Write that returns ErrWouldBlock or ErrMore after accepting some bytes
// is reported as progress; with no bytes accepted, Write waits with a
// Backoff and tries again until ctx is done. Close closes w if it
// implements io.Closer.
func WriterOutput(w io.Writer) OutputStream {
	return &writerOutput{w: w}
}

type writerOutput struct {
	closeState
	w       io.Writer
	backoff Backoff
}

func (s *writerOutput) Write(ctx context.Context, src *buffer.Buffer) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	for src.HasRemaining() {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := s.w.Write(src.Bytes())
		src.Advance(n)
		switch Classify(err) {
		case OutcomeOK:
			if n == 0 {
				return ErrShortWrite
			}
			s.backoff.Reset()
			return nil
		case OutcomeMore, OutcomeWouldBlock:
			if n > 0 {
				s.backoff.Reset()
				return nil
			}
		default:
			return err
		}
		if err := s.backoff.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *writerOutput) Close(context.Context) error {
	if !s.tryClose() {
		return nil
	}
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// AsReader adapts in to io.Reader. Every Read runs under ctx.
// The result also implements io.WriterTo through Transfer, so io.Copy uses
// the stream's own transfer path.
func AsReader(ctx context.Context, in InputStream) io.Reader {
	return streamReader{ctx: ctx, in: in}
}

type streamReader struct {
	ctx context.Context
	in  InputStream
}

func (r streamReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	b := buffer.Wrap(p)
	more, err := r.in.Read(r.ctx, b)
	n := b.Position()
	if err != nil {
		return n, err
	}
	if !more {
		return n, io.EOF
	}
	return n, nil
}

// WriteTo does not close w.
func (r streamReader) WriteTo(w io.Writer) (int64, error) {
	return Transfer(r.ctx, r.in, &writerOutput{w: w})
}

// AsWriter adapts out to io.Writer. Every Write runs under ctx and writes
// all of p (see Put); p is not retained.
func AsWriter(ctx context.Context, out OutputStream) io.Writer {
	return streamWriter{ctx: ctx, out: out}
}

type streamWriter struct {
	ctx context.Context
	out OutputStream
}

func (w streamWriter) Write(p []byte) (int, error) {
	b := buffer.Wrap(p).ReadOnly()
	err := writeAll(w.ctx, w.out, b)
	return b.Position(), err
}

// ReadFrom does not close r.
func (w streamWriter) ReadFrom(r io.Reader) (int64, error) {
	return Transfer(w.ctx, &readerInput{r: r}, w.out)
}

// TeeInput returns an InputStream that reads from in and writes every chunk
// it reads to side before returning it.
//
// If writing to side fails, Read returns that error; the bytes stay in the
// caller's buffer. Close closes in only; side belongs to the caller.
func TeeInput(in InputStream, side OutputStream) InputStream {
	return &teeInput{in: in, side: side}
}

type teeInput struct {
	in   InputStream
	side OutputStream
}

func (t *teeInput) Read(ctx context.Context, dst *buffer.Buffer) (bool, error) {
	start := dst.Position()
	more, err := t.in.Read(ctx, dst)
	if end := dst.Position(); end > start {
		view := dst.Duplicate().SetLimit(end).SetPosition(start).ReadOnly()
		if werr := writeAll(ctx, t.side, view); werr != nil {
			return true, werr
		}
	}
	return more, err
}

func (t *teeInput) Close(ctx context.Context) error {
	return t.in.Close(ctx)
}
