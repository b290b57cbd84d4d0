// Package netx contains HTTP plumbing shared by the REST client: request
// scoped bearer credentials and request-id stamping, both implemented as
// http.RoundTripper decorators.
package netx

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"github.com/google/uuid"
)

type ctxKey struct{}

// WithAccessToken returns a context that makes BearerTransport attach token
// to every request issued under it. An empty token removes it.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKey{}, token)
}

// AccessToken reports the token stored by WithAccessToken, if any.
func AccessToken(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(ctxKey{}).(string)
	return tok, ok && tok != ""
}

// BearerTransport sets "Authorization: Bearer <token>" from the request
// context. Requests without a token pass through untouched.
type BearerTransport struct {
	Base http.RoundTripper
}

func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok, ok := AccessToken(req.Context())
	if !ok {
		return base(t.Base).RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set(common.AuthorizationHeader, common.BearerPrefix+tok)
	return base(t.Base).RoundTrip(r)
}

// RequestIDTransport stamps a fresh X-Request-ID unless one is already set.
type RequestIDTransport struct {
	Base http.RoundTripper
}

func (t *RequestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(common.RequestIDHeader) != "" {
		return base(t.Base).RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set(common.RequestIDHeader, uuid.NewString())
	return base(t.Base).RoundTrip(r)
}

func base(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		return http.DefaultTransport
	}
	return rt
}

// NewTransport chains request-id stamping and bearer injection over base.
func NewTransport(rt http.RoundTripper) http.RoundTripper {
	return &RequestIDTransport{Base: &BearerTransport{Base: rt}}
}
