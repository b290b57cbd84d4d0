package views

import (
	"errors"

	"github.com/dmitrijs2005/expensekeeper/internal/client/client"
)

var (
	// ErrNotAuthorized is returned by operations attempted before the view's
	// guard resolved authorized. No request is sent.
	ErrNotAuthorized = &client.Error{Kind: client.KindAuth, Reason: "You are not authorized. Please log in first."}

	ErrInactive = errors.New("view is not active")
	ErrNoDraft  = errors.New("no expense is being edited")
	ErrNotFound = errors.New("expense not found")
	ErrNoData   = errors.New("no data available")
)
