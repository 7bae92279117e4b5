// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bytestream

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"code.hybscloud.com/bytestream/buffer"
)

// unbounded marks a file input stream opened without a range.
const unbounded = -1

// fileStream owns one *os.File and releases it exactly once.
type fileStream struct {
	closeState
	file *os.File
}

// Close releases the file handle. The handle is released even if ctx is
// cancelled; ctx is only used to carry values for logging.
func (s *fileStream) Close(ctx context.Context) error {
	if !s.tryClose() {
		return nil
	}
	ctx = context.WithoutCancel(ctx)
	err := s.file.Close()
	l := logger().Debug().Ctx(ctx).Str("path", s.file.Name())
	if err != nil {
		l = l.Err(err)
	}
	l.Msg("file stream closed")
	return err
}

// releaseAfterFailedOpen closes f after a later open step failed with err.
// A close failure is attached to err as a secondary failure.
func releaseAfterFailedOpen(f *os.File, err error) error {
	cerr := f.Close()
	logger().Debug().Err(err).AnErr("close_error", cerr).Str("path", f.Name()).Msg("released file after failed open")
	return Suppress(err, cerr)
}

// FileInputOption configures OpenFileInput.
type FileInputOption func(*fileInputConfig)

type fileInputConfig struct {
	ranged      bool
	first, last int64
}

// WithRange restricts the stream to the inclusive byte range [first, last]
// of the file.
func WithRange(first, last int64) FileInputOption {
	return func(c *fileInputConfig) {
		c.ranged = true
		c.first = first
		c.last = last
	}
}

// FileInputStream reads a file, optionally limited to a byte range.
type FileInputStream struct {
	fileStream
	cfg fileInputConfig
	// bytes left to serve, or unbounded
	remaining int64
}

// OpenFileInput opens the file at path for reading.
//
// With WithRange, the range must satisfy 0 <= first <= last < file size;
// otherwise OpenFileInput returns an error wrapping ErrInvalidRange. A
// malformed range is reported before the file is opened. Errors from the
// file system are returned as-is. The file is closed on every failure path.
func OpenFileInput(ctx context.Context, path string, opts ...FileInputOption) (*FileInputStream, error) {
	var cfg fileInputConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.ranged && (cfg.first < 0 || cfg.first > cfg.last) {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, cfg.first, cfg.last)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	remaining := int64(unbounded)
	if cfg.ranged {
		remaining, err = seekRange(f, cfg.first, cfg.last)
		if err != nil {
			return nil, releaseAfterFailedOpen(f, err)
		}
	}

	logger().Debug().Ctx(ctx).Str("path", path).Bool("ranged", cfg.ranged).
		Int64("first", cfg.first).Int64("last", cfg.last).Msg("file input opened")
	return &FileInputStream{
		fileStream: fileStream{file: f},
		cfg:        cfg,
		remaining:  remaining,
	}, nil
}

// seekRange checks [first, last] against the size of f, moves to first and
// returns the range length.
func seekRange(f *os.File, first, last int64) (int64, error) {
	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if size := fi.Size(); last >= size {
		return 0, fmt.Errorf("%w: [%d, %d] is out of file bounds (length: %d)", ErrInvalidRange, first, last, size)
	}
	if _, err := f.Seek(first, io.SeekStart); err != nil {
		return 0, err
	}
	return last - first + 1, nil
}

// Read reads from the file into dst. For a ranged stream, dst is narrowed
// so that no byte past the end of the range is read.
func (s *FileInputStream) Read(ctx context.Context, dst *buffer.Buffer) (bool, error) {
	if err := s.checkOpen(); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s.remaining == 0 {
		return false, nil
	}

	if s.remaining != unbounded && s.remaining <= math.MaxInt {
		return buffer.WithRemainingAtMost(dst, int(s.remaining), s.readInto)
	}
	return s.readInto(dst)
}

// readInto performs one file read into dst and accounts for it.
func (s *FileInputStream) readInto(dst *buffer.Buffer) (bool, error) {
	p := dst.Writable()
	if len(p) == 0 {
		return true, nil
	}
	n, err := s.file.Read(p)
	dst.Advance(n)
	s.consume(int64(n))
	if err == io.EOF {
		return n > 0, nil
	}
	return true, err
}

func (s *FileInputStream) consume(n int64) {
	if s.remaining == unbounded {
		return
	}
	s.remaining -= n
	if s.remaining < 0 {
		panic(fmt.Sprintf("bytestream: invariant violated: remaining limit %d < 0 for %s", s.remaining, s))
	}
}

// TransferTo writes everything left in the stream (or in its range) to out.
//
// Into a *FileOutputStream the copy is done by the file itself, which lets
// the kernel move the bytes where it can. Any other output is served
// through a FileBlockSize buffer.
func (s *FileInputStream) TransferTo(ctx context.Context, out OutputStream) (int64, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	if fo, ok := out.(*FileOutputStream); ok {
		return s.transferToFile(ctx, fo)
	}
	return transfer(ctx, s, out, buffer.Allocate(FileBlockSize))
}

func (s *FileInputStream) transferToFile(ctx context.Context, out *FileOutputStream) (int64, error) {
	if err := out.checkOpen(); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var src io.Reader = s.file
	if s.remaining != unbounded {
		src = io.LimitReader(s.file, s.remaining)
	}
	n, err := out.file.ReadFrom(src)
	s.consume(n)
	return n, err
}

func (s *FileInputStream) String() string {
	if !s.cfg.ranged {
		return fmt.Sprintf("FileInputStream(path=%s)", s.file.Name())
	}
	return fmt.Sprintf("FileInputStream(path=%s, range=[%d, %d])", s.file.Name(), s.cfg.first, s.cfg.last)
}

// FileOutputStream writes to a file.
type FileOutputStream struct {
	fileStream
	appendMode bool
}

// OpenFileOutput opens the file at path for writing, creating it if it does
// not exist. With appendMode, writes go to the end of the file; otherwise the
// file is truncated.
func OpenFileOutput(ctx context.Context, path string, appendMode bool) (*FileOutputStream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	flag := os.O_WRONLY | os.O_CREATE
	if appendMode {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, err
	}
	logger().Debug().Ctx(ctx).Str("path", path).Bool("append", appendMode).Msg("file output opened")
	return &FileOutputStream{fileStream: fileStream{file: f}, appendMode: appendMode}, nil
}

// Write writes all remaining bytes of src at the current file position.
// In append mode the position is the end of file for every write.
func (s *FileOutputStream) Write(ctx context.Context, src *buffer.Buffer) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	n, err := s.file.Write(src.Bytes())
	src.Advance(n)
	return err
}

func (s *FileOutputStream) String() string {
	return fmt.Sprintf("FileOutputStream(path=%s, append=%t)", s.file.Name(), s.appendMode)
}
