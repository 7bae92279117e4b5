// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bytestream_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/bytestream"
)

func TestUse_ClosesOnSuccess(t *testing.T) {
	c := &recordingCloser{}
	got, err := bytestream.Use(context.Background(), c, func(*recordingCloser) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 1, c.calls)
}

func TestUse_CloseFailureAfterSuccessIsResult(t *testing.T) {
	closeErr := errors.New("close")
	c := &recordingCloser{err: closeErr}
	_, err := bytestream.Use(context.Background(), c, func(*recordingCloser) (int, error) {
		return 1, nil
	})
	assert.Same(t, closeErr, err)
	assert.Equal(t, 1, c.calls)
}

func TestUse_CloseFailureSuppressedOnBlockFailure(t *testing.T) {
	blockErr := errors.New("block")
	closeErr := errors.New("close")
	c := &recordingCloser{err: closeErr}
	_, err := bytestream.Use(context.Background(), c, func(*recordingCloser) (struct{}, error) {
		return struct{}{}, blockErr
	})
	require.ErrorIs(t, err, blockErr)
	assert.NotErrorIs(t, err, closeErr)
	assert.Equal(t, []error{closeErr}, bytestream.Suppressed(err))
	assert.Equal(t, 1, c.calls)
}

func TestUse_CancellationFromCloseDiscarded(t *testing.T) {
	t.Run("block failed", func(t *testing.T) {
		blockErr := errors.New("block")
		c := &recordingCloser{err: context.Canceled}
		_, err := bytestream.Use(context.Background(), c, func(*recordingCloser) (struct{}, error) {
			return struct{}{}, blockErr
		})
		assert.Same(t, blockErr, err)
		assert.Empty(t, bytestream.Suppressed(err))
	})
	t.Run("block succeeded", func(t *testing.T) {
		c := &recordingCloser{err: fmt.Errorf("close: %w", context.DeadlineExceeded)}
		got, err := bytestream.Use(context.Background(), c, func(*recordingCloser) (string, error) {
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
	})
}

func TestUse_ClosesOnPanic(t *testing.T) {
	c := &recordingCloser{err: errors.New("close")}
	assert.PanicsWithValue(t, "boom", func() {
		_, _ = bytestream.Use(context.Background(), c, func(*recordingCloser) (int, error) {
			panic("boom")
		})
	})
	assert.Equal(t, 1, c.calls)
}

func TestCloseAll(t *testing.T) {
	e1 := errors.New("e1")
	e2 := errors.New("e2")
	a := &recordingCloser{}
	b := &recordingCloser{err: e1}
	c := &recordingCloser{err: e2}
	d := &recordingCloser{err: context.Canceled}
	e := &recordingCloser{}

	err := bytestream.CloseAll(context.Background(), a, b, d, c, e)
	require.ErrorIs(t, err, e1)
	assert.Equal(t, []error{e2}, bytestream.Suppressed(err))
	for i, rc := range []*recordingCloser{a, b, c, d, e} {
		assert.Equal(t, 1, rc.calls, "closer %d", i)
	}
}

func TestCloseAll_AllSucceed(t *testing.T) {
	a, b := &recordingCloser{}, &recordingCloser{}
	assert.NoError(t, bytestream.CloseAll(context.Background(), a, b))
	assert.NoError(t, bytestream.CloseAll(context.Background()))
}

func TestCloseAll_OnlyCancellations(t *testing.T) {
	a := &recordingCloser{err: context.Canceled}
	b := &recordingCloser{err: context.DeadlineExceeded}
	assert.NoError(t, bytestream.CloseAll(context.Background(), a, b))
}

func TestSuppress(t *testing.T) {
	primary := errors.New("primary")
	s1 := errors.New("s1")
	s2 := errors.New("s2")

	assert.Same(t, primary, bytestream.Suppress(primary, nil))
	assert.Same(t, s1, bytestream.Suppress(nil, s1))

	one := bytestream.Suppress(primary, s1)
	two := bytestream.Suppress(one, s2)
	assert.Equal(t, []error{s1}, bytestream.Suppressed(one), "first error is not modified")
	assert.Equal(t, []error{s1, s2}, bytestream.Suppressed(two))
	assert.ErrorIs(t, two, primary)
	assert.Equal(t, "primary (suppressed: s1; s2)", two.Error())

	var me *bytestream.MultiError
	require.ErrorAs(t, two, &me)
	assert.Same(t, primary, me.Primary)
	assert.Nil(t, bytestream.Suppressed(primary))
}
