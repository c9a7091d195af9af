// Package goroutine provides utilities for safely launching goroutines with panic recovery.
package goroutine

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
)

// SafeGo launches a goroutine with panic recovery. If the goroutine panics,
// the panic is caught and logged with stack trace instead of crashing the process.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer recoverAndLog(log, name)
		fn()
	}()
}

// SafeGoDetached runs fn in a goroutine whose context keeps the values of ctx
// but not its cancellation, for follow-up work that must outlive the request
// that triggered it (e.g. sending an instructions email).
func SafeGoDetached(ctx context.Context, log logger.Interface, name string, fn func(ctx context.Context)) {
	detached := context.WithoutCancel(ctx)
	go func() {
		defer recoverAndLog(log, name)
		fn(detached)
	}()
}

func recoverAndLog(log logger.Interface, name string) {
	if r := recover(); r != nil {
		log.Errorw("goroutine panicked",
			"goroutine", name,
			"panic", fmt.Sprintf("%v", r),
			"stack", string(debug.Stack()),
		)
	}
}
