// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bytestream

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

var pkgLogger atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	pkgLogger.Store(&nop)
}

// SetLogger sets the logger used for debug events such as file streams being
// opened and closed, or cancellation signals discarded on close paths.
// The package is silent by default.
func SetLogger(l zerolog.Logger) {
	l = l.With().Str("component", "bytestream").Logger()
	pkgLogger.Store(&l)
}

func logger() *zerolog.Logger { return pkgLogger.Load() }
