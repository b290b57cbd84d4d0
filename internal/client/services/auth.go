// Package services contains application services for the expense client.
// This file defines the account service: register, login, logout and a
// description of the current session.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/client/client"
	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/client/session"
	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"github.com/dmitrijs2005/expensekeeper/internal/netx"
	"github.com/golang-jwt/jwt/v5"
)

// AuthService defines account operations for the CLI.
//
// Contract:
//   - Register: create an account and store the returned token.
//   - Login: exchange credentials for a token and store it.
//   - Logout: forget the stored token.
//   - WhoAmI: describe the stored session as the server sees it.
//
// Passwords are wiped after use.
type AuthService interface {
	Register(ctx context.Context, username, email string, password []byte) error
	Login(ctx context.Context, email string, password []byte) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) (*Account, error)
}

// Claims are the fields of the access token shown to the user. They are
// decoded without verification and never used for access decisions.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Account describes the current session.
type Account struct {
	Identity *models.Identity
	// Claims is nil when the token is not a JWT.
	Claims  *Claims
	SavedAt time.Time
}

type authService struct {
	client   client.Client
	provider *session.Provider
}

func NewAuthService(c client.Client, p *session.Provider) AuthService {
	return &authService{client: c, provider: p}
}

func (a *authService) Register(ctx context.Context, username, email string, password []byte) error {
	defer common.WipeByteArray(password)

	in := models.Registration{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: string(password),
	}
	tr, err := a.client.Register(ctx, in)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return a.store(ctx, tr)
}

func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	defer common.WipeByteArray(password)

	in := models.Credentials{Email: strings.TrimSpace(email), Password: string(password)}
	tr, err := a.client.Login(ctx, in)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return a.store(ctx, tr)
}

func (a *authService) store(ctx context.Context, tr *models.TokenResponse) error {
	if err := a.provider.SetToken(ctx, tr.AccessToken); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.provider.ClearToken(ctx)
}

func (a *authService) WhoAmI(ctx context.Context) (*Account, error) {
	cred, err := a.provider.Credential(ctx)
	if err != nil {
		return nil, err
	}
	if cred.Token == "" {
		return nil, client.ErrNoCredential
	}

	id, err := a.client.Me(netx.WithAccessToken(ctx, cred.Token))
	if err != nil {
		return nil, err
	}

	return &Account{Identity: id, Claims: peekClaims(cred.Token), SavedAt: cred.SavedAt}, nil
}

func peekClaims(token string) *Claims {
	var c Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return nil
	}
	return &c
}
