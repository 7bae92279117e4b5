// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bytestream provides a small abstraction over byte-oriented I/O:
// InputStream and OutputStream exchange bytes through cursor buffers
// (see package buffer) instead of plain slices, so a partial read or write
// leaves its progress in the buffer's position.
//
// Implementations are backed by in-memory buffers (FromBuffer,
// NewBufferOutput), by nothing at all (NullInput, NullOutput), or by files
// (OpenFileInput with an optional inclusive byte range, OpenFileOutput).
// Transfer moves everything from an input to an output through one
// intermediate buffer, or through a fast path when the input provides one.
//
// Streams are single-owner and not safe for concurrent use. Every stream is
// released exactly once with Close, directly or through Use. Close is
// idempotent and always releases the underlying resource, even when the
// context passed to it is already cancelled. Use and CloseAll attach close
// failures that happen after a primary failure as secondary failures
// (see MultiError) and discard cancellation signals raised while closing.
//
// Blocking operations take a context.Context. Cancellation is observed
// before the blocking step starts; an os.File call already in progress is
// not interrupted.
package bytestream
