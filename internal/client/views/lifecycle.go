package views

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/expensekeeper/internal/client/session"
)

// Guard resolves the authorization state of one activation.
type Guard interface {
	Activate(ctx context.Context) session.Outcome
}

// SignOutSource reports explicit sign-outs.
type SignOutSource interface {
	SignedOut() (<-chan struct{}, func())
}

// lifecycle tracks the context of the current activation. Callers hold the
// owning view's mutex.
type lifecycle struct {
	ctx    context.Context
	cancel context.CancelFunc
	epoch  uint64
}

// start cancels the previous activation and begins a new one.
func (l *lifecycle) start(parent context.Context) context.Context {
	l.stop()
	l.epoch++
	l.ctx, l.cancel = context.WithCancel(parent)
	return l.ctx
}

func (l *lifecycle) stop() {
	if l.cancel != nil {
		l.cancel()
	}
}

// alive reports whether ctx is the current, uncancelled activation.
func (l *lifecycle) alive(ctx context.Context) bool {
	return l.ctx != nil && ctx == l.ctx && ctx.Err() == nil
}

// current returns the live activation context, or nil.
func (l *lifecycle) current() context.Context {
	if l.ctx == nil || l.ctx.Err() != nil {
		return nil
	}
	return l.ctx
}

func (l *lifecycle) key(name string) string {
	return name + "#" + strconv.FormatUint(l.epoch, 10)
}

// bind derives a context from ctx that is also cancelled when life ends.
func bind(ctx, life context.Context) (context.Context, context.CancelFunc) {
	out, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(life, cancel)
	return out, func() {
		stop()
		cancel()
	}
}
