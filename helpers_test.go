// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bytestream_test

import (
	"context"
	"encoding/hex"
	"testing"

	"code.hybscloud.com/bytestream"
	"code.hybscloud.com/bytestream/buffer"
)

// Helpers

func bytesOfHex(t *testing.T, s string) []byte {
	t.Helper()
	p, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return p
}

// recordingCloser counts Close calls and returns err from each of them.
type recordingCloser struct {
	err   error
	calls int
}

func (c *recordingCloser) Close(context.Context) error {
	c.calls++
	return c.err
}

// chunkedOutput accepts at most max bytes per Write and records every
// write size.
type chunkedOutput struct {
	max    int
	data   []byte
	writes []int
	closed bool
}

func (o *chunkedOutput) Write(_ context.Context, src *buffer.Buffer) error {
	n := min(o.max, src.Remaining())
	o.data = append(o.data, src.Next(n)...)
	o.writes = append(o.writes, n)
	return nil
}

func (o *chunkedOutput) Close(context.Context) error {
	o.closed = true
	return nil
}

// untouchableOutput fails the test on any call.
type untouchableOutput struct{ t *testing.T }

func (o untouchableOutput) Write(context.Context, *buffer.Buffer) error {
	o.t.Fatal("Write should not be called")
	return nil
}

func (o untouchableOutput) Close(context.Context) error {
	o.t.Fatal("Close should not be called")
	return nil
}

// scriptedInput returns one chunk per Read, then end of stream.
type scriptedInput struct {
	chunks [][]byte
	reads  []int
}

func (s *scriptedInput) Read(_ context.Context, dst *buffer.Buffer) (bool, error) {
	if len(s.chunks) == 0 {
		return false, nil
	}
	c := s.chunks[0]
	n := min(len(c), dst.Remaining())
	dst.PutBytes(c[:n])
	if n == len(c) {
		s.chunks = s.chunks[1:]
	} else {
		s.chunks[0] = c[n:]
	}
	s.reads = append(s.reads, n)
	return true, nil
}

func (s *scriptedInput) Close(context.Context) error { return nil }

var (
	_ bytestream.InputStream  = (*scriptedInput)(nil)
	_ bytestream.OutputStream = (*chunkedOutput)(nil)
	_ bytestream.OutputStream = untouchableOutput{}
	_ bytestream.Closer       = (*recordingCloser)(nil)
)
