// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bytestream

import (
	"errors"
)

// Outcome classifies the error of an adapted io call.
//
// OutcomeOK:            success.
// OutcomeWouldBlock:    no progress is possible right now; retry later.
// OutcomeMore:          progress happened and more completions are expected.
// OutcomeCancelled:     the governing context was cancelled or timed out.
// OutcomeFailure:       any other error.
type Outcome uint8

const (
	OutcomeFailure Outcome = iota
	OutcomeOK
	OutcomeWouldBlock
	OutcomeMore
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "OK"
	case OutcomeWouldBlock:
		return "WouldBlock"
	case OutcomeMore:
		return "More"
	case OutcomeCancelled:
		return "Cancelled"
	default:
		return "Failure"
	}
}

// IsWouldBlock reports whether err carries the would-block semantic.
// It returns true for ErrWouldBlock and wrappers (via errors.Is).
func IsWouldBlock(err error) bool { return errors.Is(err, ErrWouldBlock) }

// IsMore reports whether err carries the multi-shot (more completions)
// semantic. It returns true for ErrMore and wrappers (via errors.Is).
func IsMore(err error) bool { return errors.Is(err, ErrMore) }

// IsSemantic reports whether err is ErrWouldBlock or ErrMore (including
// wrapped forms).
func IsSemantic(err error) bool { return IsWouldBlock(err) || IsMore(err) }

// Classify maps err to an Outcome.
//
// Note: io.EOF is not reinterpreted; it classifies as OutcomeFailure and the
// caller decides what end-of-stream means for it.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case IsWouldBlock(err):
		return OutcomeWouldBlock
	case IsMore(err):
		return OutcomeMore
	case IsCancellation(err):
		return OutcomeCancelled
	default:
		return OutcomeFailure
	}
}
