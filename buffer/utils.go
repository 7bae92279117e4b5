// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package buffer

// TransferTo copies bytes remaining in src to dst.
//
// The number of copied bytes is min(src.Remaining(), dst.Remaining()). Both
// positions advance by that amount; no other marker changes. The call has
// the same effect as the loop:
//
//	for src.HasRemaining() && dst.HasRemaining() {
//		dst.Put(src.Get())
//	}
func TransferTo(src, dst *Buffer) int {
	start := src.Position()
	_, _ = WithRemainingAtMost(src, dst.Remaining(), func(b *Buffer) (struct{}, error) {
		dst.PutBuffer(b)
		return struct{}{}, nil
	})
	return src.Position() - start
}

// WithLimit runs fn while the limit of b is set to limit.
//
// The original limit is restored before WithLimit returns, whether fn
// returns normally, returns an error, or panics.
func WithLimit[R any](b *Buffer, limit int, fn func(*Buffer) (R, error)) (R, error) {
	old := b.Limit()
	defer b.SetLimit(old)
	b.SetLimit(limit)
	return fn(b)
}

// WithRemainingAtMost runs fn while the limit of b is
//
//	min(b.Limit(), b.Position()+count)
//
// That is, fn observes at most count remaining bytes. The original limit is
// restored on every exit path.
func WithRemainingAtMost[R any](b *Buffer, count int, fn func(*Buffer) (R, error)) (R, error) {
	limit := b.Limit()
	if count < limit-b.Position() {
		limit = b.Position() + max(count, 0)
	}
	return WithLimit(b, limit, fn)
}

// CollectToArray copies the remaining bytes of b into a new slice and moves
// the position to the limit.
func CollectToArray(b *Buffer) []byte {
	out := make([]byte, b.Remaining())
	copy(out, b.Next(len(out)))
	return out
}
