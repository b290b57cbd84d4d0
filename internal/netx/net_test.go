package netx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func captureServer(t *testing.T, got *http.Header) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func doGet(t *testing.T, ctx context.Context, rt http.RoundTripper, url string) {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := (&http.Client{Transport: rt}).Do(req)
	require.NoError(t, err)
	resp.Body.Close()
}

func TestBearerTransport_AttachesTokenFromContext(t *testing.T) {
	var h http.Header
	ts := captureServer(t, &h)

	ctx := WithAccessToken(context.Background(), "abc")
	doGet(t, ctx, &BearerTransport{}, ts.URL)

	require.Equal(t, "Bearer abc", h.Get("Authorization"))
}

func TestBearerTransport_NoTokenNoHeader(t *testing.T) {
	var h http.Header
	ts := captureServer(t, &h)

	doGet(t, context.Background(), &BearerTransport{}, ts.URL)
	require.Empty(t, h.Get("Authorization"))

	doGet(t, WithAccessToken(context.Background(), ""), &BearerTransport{}, ts.URL)
	require.Empty(t, h.Get("Authorization"))
}

func TestRequestIDTransport_StampsUUID(t *testing.T) {
	var h http.Header
	ts := captureServer(t, &h)

	doGet(t, context.Background(), NewTransport(nil), ts.URL)

	_, err := uuid.Parse(h.Get("X-Request-ID"))
	require.NoError(t, err)
}

func TestRequestIDTransport_KeepsExisting(t *testing.T) {
	var h http.Header
	ts := captureServer(t, &h)

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "fixed")
	resp, err := (&http.Client{Transport: &RequestIDTransport{}}).Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, "fixed", h.Get("X-Request-ID"))
}

func TestAccessToken(t *testing.T) {
	_, ok := AccessToken(context.Background())
	require.False(t, ok)

	tok, ok := AccessToken(WithAccessToken(context.Background(), "t1"))
	require.True(t, ok)
	require.Equal(t, "t1", tok)
}
