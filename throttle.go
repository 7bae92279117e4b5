// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bytestream

import (
	"context"
	"time"

	"github.com/juju/ratelimit"

	"code.hybscloud.com/bytestream/buffer"
)

// Throttle returns an OutputStream that limits the byte rate into out with
// bucket, one token per byte.
//
// Each Write passes at most bucket.Capacity() bytes to out and waits until
// the bucket can pay for them or ctx is done. Use Put to write a whole
// buffer. Close closes out.
func Throttle(out OutputStream, bucket *ratelimit.Bucket) OutputStream {
	return &throttledOutput{out: out, bucket: bucket}
}

type throttledOutput struct {
	closeState
	out    OutputStream
	bucket *ratelimit.Bucket
}

func (s *throttledOutput) Write(ctx context.Context, src *buffer.Buffer) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	n := int64(src.Remaining())
	if n == 0 {
		return nil
	}
	n = min(n, s.bucket.Capacity())
	if wait := s.bucket.Take(n); wait > 0 {
		logger().Debug().Dur("wait", wait).Int64("bytes", n).Msg("throttled write")
		t := time.NewTimer(wait)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	_, err := buffer.WithRemainingAtMost(src, int(n), func(b *buffer.Buffer) (struct{}, error) {
		return struct{}{}, s.out.Write(ctx, b)
	})
	return err
}

func (s *throttledOutput) Close(ctx context.Context) error {
	if !s.tryClose() {
		return nil
	}
	return s.out.Close(ctx)
}
