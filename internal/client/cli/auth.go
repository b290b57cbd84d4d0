package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/client/views"
	"github.com/dmitrijs2005/expensekeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, an email and a password and creates a
// new account. On success the returned token is stored and the views are
// activated again.
//
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Register(ctx, userName, email, password); err != nil {
		a.report(err, "Registration failed")
		return err
	}

	printlnFn("Success!")
	a.welcome(ctx)
	return nil
}

// Login prompts for credentials and exchanges them for a token. On success
// the views are activated again, which verifies the new token.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, email, password); err != nil {
		a.logger.Info(ctx, "login unsuccessful", "error", err)
		a.report(err, "Login failed")
		return err
	}

	a.logger.Info(ctx, "login successful")
	a.welcome(ctx)
	return nil
}

// welcome activates the views for a freshly stored token.
func (a *App) welcome(ctx context.Context) {
	out := a.activate(ctx)
	if !out.Authorized() {
		a.report(out.Err, views.ErrNotAuthorized.Reason)
		return
	}
	if a.userName != "" {
		printlnFn("Logged in as " + a.userName)
	} else {
		printlnFn("Logged in.")
	}
}

// Logout forgets the stored token and activates the views again, which
// resolves unauthorized without a request.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		a.report(err, "Logout failed")
		return err
	}
	a.activate(ctx)
	printlnFn("Logged out.")
	return nil
}

// WhoAmI prints the account behind the stored token.
func (a *App) WhoAmI(ctx context.Context) error {
	acc, err := a.authService.WhoAmI(ctx)
	if err != nil {
		a.report(err, "Could not load account")
		return err
	}

	if acc.Identity != nil {
		printlnFn(fmt.Sprintf("Username: %s", acc.Identity.Username))
		printlnFn(fmt.Sprintf("Email:    %s", acc.Identity.Email))
	}
	if acc.Claims != nil {
		printlnFn(fmt.Sprintf("User ID:  %d", acc.Claims.UserID))
		if acc.Claims.ExpiresAt != nil {
			printlnFn(fmt.Sprintf("Expires:  %s", acc.Claims.ExpiresAt.Local().Format(time.DateTime)))
		}
	}
	if !acc.SavedAt.IsZero() {
		printlnFn(fmt.Sprintf("Saved:    %s", acc.SavedAt.Local().Format(time.DateTime)))
	}
	return nil
}
