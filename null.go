// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bytestream

import (
	"context"

	"code.hybscloud.com/bytestream/buffer"
)

// NullInput returns a stream that has no data to read.
func NullInput() InputStream { return &nullInput{} }

// NullOutput returns a stream that discards everything written to it.
func NullOutput() OutputStream { return &nullOutput{} }

type nullInput struct{ closeState }

func (s *nullInput) Read(context.Context, *buffer.Buffer) (bool, error) {
	if err := s.checkOpen(); err != nil {
		return false, err
	}
	return false, nil
}

// TransferTo never touches out.
func (s *nullInput) TransferTo(context.Context, OutputStream) (int64, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	return 0, nil
}

func (s *nullInput) Close(context.Context) error {
	s.tryClose()
	return nil
}

type nullOutput struct{ closeState }

func (s *nullOutput) Write(_ context.Context, src *buffer.Buffer) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	// skip remaining data
	src.SetPosition(src.Limit())
	return nil
}

func (s *nullOutput) Put(context.Context, *buffer.Buffer) error {
	return s.checkOpen()
}

func (s *nullOutput) Close(context.Context) error {
	s.tryClose()
	return nil
}
