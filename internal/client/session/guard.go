package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/expensekeeper/internal/client/client"
	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/logging"
	"github.com/dmitrijs2005/expensekeeper/internal/netx"
)

// Verifier confirms a token with the server.
type Verifier interface {
	Me(ctx context.Context) (*models.Identity, error)
}

// Outcome is the result of one activation. Err explains an unauthorized
// outcome; Identity may be nil even when authorized.
type Outcome struct {
	State    State
	Identity *models.Identity
	Err      error
}

func (o Outcome) Authorized() bool { return o.State == StateAuthorized }

// Guard resolves the authorization state for a view activation.
type Guard struct {
	provider *Provider
	verifier Verifier
	logger   logging.Logger
}

func NewGuard(provider *Provider, verifier Verifier, logger logging.Logger) *Guard {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Guard{provider: provider, verifier: verifier, logger: logger.With("component", "guard")}
}

// Activate reads the credential and, when one exists, verifies it with a
// single /auth/me call. Without a credential no request is made. Any
// non-success is unauthorized; nothing is retried. The resolved state is
// published unless ctx was cancelled first.
func (g *Guard) Activate(ctx context.Context) Outcome {
	out := g.resolve(ctx)
	if ctx.Err() == nil {
		g.provider.Publish(out.State)
	}
	return out
}

func (g *Guard) resolve(ctx context.Context) Outcome {
	tok, err := g.provider.Token(ctx)
	if err != nil {
		g.logger.Error(ctx, "credential read failed", "error", err)
		return Outcome{State: StateUnauthorized, Err: fmt.Errorf("read credential: %w", err)}
	}
	if tok == "" {
		return Outcome{State: StateUnauthorized, Err: client.ErrNoCredential}
	}

	id, err := g.verifier.Me(netx.WithAccessToken(ctx, tok))
	switch {
	case err == nil:
		return Outcome{State: StateAuthorized, Identity: id}
	case errors.Is(err, client.ErrMalformedResponse):
		g.logger.Warn(ctx, "identity could not be decoded", "error", err)
		return Outcome{State: StateAuthorized}
	default:
		g.logger.Info(ctx, "session rejected", "kind", client.KindOf(err).String(), "error", err)
		return Outcome{State: StateUnauthorized, Err: err}
	}
}
