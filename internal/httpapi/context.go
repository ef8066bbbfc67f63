package httpapi

import (
	"context"
	"net/http"
)

// baseCtx ends when the daemon shuts down; in-flight starts end with it.
var baseCtx = context.Background()

// SetBaseContext sets the daemon lifetime context. Nil resets it to Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	baseCtx = ctx
}

// startContext derives the context for a start request: it ends with the
// request, with baseCtx, or after startTimeout when one is set.
func startContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(r.Context())
	stopAfter := context.AfterFunc(baseCtx, func() { cancel(context.Cause(baseCtx)) })
	release := func() {
		stopAfter()
		cancel(context.Canceled)
	}
	if startTimeout <= 0 {
		return ctx, release
	}
	tctx, tcancel := context.WithTimeout(ctx, startTimeout)
	return tctx, func() {
		tcancel()
		release()
	}
}
