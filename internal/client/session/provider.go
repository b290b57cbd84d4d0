package session

import (
	"context"
	"sync"
	"time"
)

// State is the authorization state of the current session.
type State int

const (
	StateUnknown State = iota
	StateAuthorized
	StateUnauthorized
)

func (s State) String() string {
	switch s {
	case StateAuthorized:
		return "authorized"
	case StateUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Provider mediates access to the stored credential and broadcasts
// authorization state changes. It is safe for concurrent use.
type Provider struct {
	store Store
	now   func() time.Time

	mu    sync.Mutex
	state State
	subs  map[int]chan State
	outs  map[int]chan struct{}
	next  int
}

func NewProvider(store Store) *Provider {
	return &Provider{
		store: store,
		now:   time.Now,
		subs:  make(map[int]chan State),
		outs:  make(map[int]chan struct{}),
	}
}

// Token returns the stored token, or "" when there is none.
func (p *Provider) Token(ctx context.Context) (string, error) {
	c, err := p.store.Load(ctx)
	if err != nil {
		return "", err
	}
	return c.Token, nil
}

// Credential returns the stored credential including its save time.
func (p *Provider) Credential(ctx context.Context) (Credential, error) {
	return p.store.Load(ctx)
}

// SetToken stores token. The authorization state is left alone; it changes
// only when a Guard verifies the new token.
func (p *Provider) SetToken(ctx context.Context, token string) error {
	return p.store.Save(ctx, Credential{Token: token, SavedAt: p.now()})
}

// ClearToken removes the credential, notifies SignedOut subscribers and
// publishes StateUnauthorized.
func (p *Provider) ClearToken(ctx context.Context) error {
	if err := p.store.Clear(ctx); err != nil {
		return err
	}

	p.mu.Lock()
	for _, ch := range p.outs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	p.mu.Unlock()

	p.Publish(StateUnauthorized)
	return nil
}

// State returns the last published state.
func (p *Provider) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Subscribe returns a channel that receives every published state. A slow
// reader only sees the latest value. cancel closes the channel.
func (p *Provider) Subscribe() (<-chan State, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.next
	p.next++
	ch := make(chan State, 1)
	p.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// SignedOut returns a channel that receives a value each time the
// credential is cleared. Guard outcomes are not delivered here. cancel
// closes the channel.
func (p *Provider) SignedOut() (<-chan struct{}, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.next
	p.next++
	ch := make(chan struct{}, 1)
	p.outs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.outs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Publish records s and notifies subscribers without blocking.
func (p *Provider) Publish(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = s
	for _, ch := range p.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}
