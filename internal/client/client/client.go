package client

import (
	"context"

	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
)

// Client is the backend API. Authenticated calls take the bearer token from
// the context (see netx.WithAccessToken).
type Client interface {
	Me(ctx context.Context) (*models.Identity, error)
	Register(ctx context.Context, in models.Registration) (*models.TokenResponse, error)
	Login(ctx context.Context, in models.Credentials) (*models.TokenResponse, error)

	ListExpenses(ctx context.Context) ([]models.Expense, error)
	CreateExpense(ctx context.Context, in models.ExpenseInput) (*models.Expense, error)
	UpdateExpense(ctx context.Context, id int64, in models.ExpenseInput) (*models.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
	WeeklyGraph(ctx context.Context) (*models.Image, error)
}
