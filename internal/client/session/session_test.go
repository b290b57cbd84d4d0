package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/client/client"
	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"github.com/dmitrijs2005/expensekeeper/internal/logging"
	"github.com/dmitrijs2005/expensekeeper/internal/netx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*************
 * Fake verifier
 *************/

type fakeVerifier struct {
	calls    int
	lastTok  string
	identity *models.Identity
	err      error
}

func (f *fakeVerifier) Me(ctx context.Context) (*models.Identity, error) {
	f.calls++
	f.lastTok, _ = netx.AccessToken(ctx)
	return f.identity, f.err
}

type failingStore struct{ err error }

func (s failingStore) Load(context.Context) (Credential, error) { return Credential{}, s.err }
func (s failingStore) Save(context.Context, Credential) error   { return s.err }
func (s failingStore) Clear(context.Context) error              { return s.err }

func newProvider(t *testing.T, token string) *Provider {
	t.Helper()
	p := NewProvider(&MemoryStore{})
	if token != "" {
		require.NoError(t, p.SetToken(context.Background(), token))
	}
	return p
}

func TestGuard_NoToken_NoRequest(t *testing.T) {
	p := newProvider(t, "")
	v := &fakeVerifier{}

	out := NewGuard(p, v, logging.Nop()).Activate(context.Background())

	assert.Equal(t, StateUnauthorized, out.State)
	assert.False(t, out.Authorized())
	assert.ErrorIs(t, out.Err, client.ErrUnauthorized)
	assert.Equal(t, 0, v.calls)
	assert.Equal(t, StateUnauthorized, p.State())
}

func TestGuard_ValidToken(t *testing.T) {
	p := newProvider(t, "good")
	v := &fakeVerifier{identity: &models.Identity{ID: 1, Email: "a@b.c"}}

	out := NewGuard(p, v, nil).Activate(context.Background())

	require.True(t, out.Authorized())
	assert.NoError(t, out.Err)
	assert.Equal(t, "a@b.c", out.Identity.Email)
	assert.Equal(t, 1, v.calls)
	assert.Equal(t, "good", v.lastTok)
	assert.Equal(t, StateAuthorized, p.State())
}

func TestGuard_RejectedTokenIsUnauthorizedWithoutRetry(t *testing.T) {
	for _, err := range []error{
		&client.Error{Kind: client.KindAuth, StatusCode: 401},
		&client.Error{Kind: client.KindRemote, StatusCode: 500},
		&client.Error{Kind: client.KindTransport, Err: errors.New("dial")},
	} {
		p := newProvider(t, "bad")
		v := &fakeVerifier{err: err}

		out := NewGuard(p, v, nil).Activate(context.Background())

		assert.Equal(t, StateUnauthorized, out.State)
		assert.Equal(t, client.KindOf(err), client.KindOf(out.Err))
		assert.Equal(t, 1, v.calls)
	}
}

func TestGuard_MalformedIdentityStillAuthorized(t *testing.T) {
	p := newProvider(t, "good")
	v := &fakeVerifier{err: &client.Error{Kind: client.KindTransport, StatusCode: 200, Err: client.ErrMalformedResponse}}

	out := NewGuard(p, v, nil).Activate(context.Background())

	assert.True(t, out.Authorized())
	assert.Nil(t, out.Identity)
	assert.NoError(t, out.Err)
}

func TestGuard_StoreFailure(t *testing.T) {
	p := NewProvider(failingStore{err: errors.New("disk")})
	v := &fakeVerifier{}

	out := NewGuard(p, v, nil).Activate(context.Background())

	assert.Equal(t, StateUnauthorized, out.State)
	assert.ErrorContains(t, out.Err, "disk")
	assert.Equal(t, 0, v.calls)
}

func TestGuard_CancelledContextDoesNotPublish(t *testing.T) {
	p := newProvider(t, "good")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	NewGuard(p, &fakeVerifier{err: context.Canceled}, nil).Activate(ctx)

	assert.Equal(t, StateUnknown, p.State())
}

func TestProvider_SubscribeReceivesLatest(t *testing.T) {
	p := newProvider(t, "")
	ch, cancel := p.Subscribe()
	defer cancel()

	p.Publish(StateAuthorized)
	p.Publish(StateUnauthorized)

	select {
	case s := <-ch:
		assert.Equal(t, StateUnauthorized, s)
	case <-time.After(time.Second):
		t.Fatal("no state delivered")
	}
}

func TestProvider_CancelClosesChannel(t *testing.T) {
	p := newProvider(t, "")
	ch, cancel := p.Subscribe()
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)

	require.NotPanics(t, func() { p.Publish(StateAuthorized) })
}

func TestProvider_ClearTokenPublishesUnauthorized(t *testing.T) {
	p := newProvider(t, "tok")
	p.Publish(StateAuthorized)
	ch, cancel := p.Subscribe()
	defer cancel()

	require.NoError(t, p.ClearToken(context.Background()))

	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tok)
	assert.Equal(t, StateUnauthorized, <-ch)
}

func TestProvider_SetTokenStampsTime(t *testing.T) {
	p := NewProvider(&MemoryStore{})
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	p.now = func() time.Time { return at }

	require.NoError(t, p.SetToken(context.Background(), "t"))

	c, err := p.Credential(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Credential{Token: "t", SavedAt: at}, c)
	assert.Equal(t, StateUnknown, p.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "authorized", StateAuthorized.String())
	assert.Equal(t, "unauthorized", StateUnauthorized.String())
	assert.Equal(t, "unknown", StateUnknown.String())
}

/*************
 * SQLStore
 *************/

func TestSQLStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	db, err := client.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := NewSQLStore(db)

	c, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Credential{}, c)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(ctx, Credential{Token: "jwt", SavedAt: at}))

	c, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jwt", c.Token)
	assert.True(t, at.Equal(c.SavedAt))

	raw, err := metadata.NewSQLiteRepository(db).Get(ctx, common.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("jwt"), raw)

	require.NoError(t, s.Clear(ctx))
	c, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Token)

	raw, err = metadata.NewSQLiteRepository(db).Get(ctx, common.TokenKey)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestProvider_SignedOutOnlyOnClear(t *testing.T) {
	p := newProvider(t, "tok")
	ch, cancel := p.SignedOut()
	defer cancel()

	p.Publish(StateUnauthorized)
	select {
	case <-ch:
		t.Fatal("guard outcome delivered as sign-out")
	default:
	}

	require.NoError(t, p.ClearToken(context.Background()))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no sign-out delivered")
	}

	cancel()
	_, open := <-ch
	assert.False(t, open)
	require.NotPanics(t, func() { require.NoError(t, p.ClearToken(context.Background())) })
}
