package cli

import (
	"bufio"
	"context"
	"fmt"

	"github.com/dmitrijs2005/expensekeeper/internal/client/views"
)

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.isLoggedIn() {
		s += "authorized"
	} else {
		s += "unauthorized"
	}
	return fmt.Sprintf("(%s)", s)
}

// Root greets the user, activates the views and hands stdin to the REPL.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to expensekeeper CLI (type 'help' for commands)")
	if out := a.activate(ctx); !out.Authorized() {
		printlnFn(views.ErrNotAuthorized.Reason)
	}
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}
