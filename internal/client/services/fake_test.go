package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/client/session"
	"github.com/dmitrijs2005/expensekeeper/internal/netx"
	"github.com/stretchr/testify/require"
)

// fakeClient implements client.Client and records the last call.
type fakeClient struct {
	MeRet *models.Identity
	MeErr error

	RegisterRet *models.TokenResponse
	RegisterErr error
	LoginRet    *models.TokenResponse
	LoginErr    error

	ListRet   []models.Expense
	ListErr   error
	CreateRet *models.Expense
	CreateErr error
	UpdateRet *models.Expense
	UpdateErr error
	DeleteErr error
	GraphRet  *models.Image
	GraphErr  error

	Calls        int
	LastToken    string
	LastRegister models.Registration
	LastLogin    models.Credentials
	LastInput    models.ExpenseInput
	LastID       int64
}

func (f *fakeClient) record(ctx context.Context) {
	f.Calls++
	f.LastToken, _ = netx.AccessToken(ctx)
}

func (f *fakeClient) Me(ctx context.Context) (*models.Identity, error) {
	f.record(ctx)
	return f.MeRet, f.MeErr
}

func (f *fakeClient) Register(ctx context.Context, in models.Registration) (*models.TokenResponse, error) {
	f.record(ctx)
	f.LastRegister = in
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) Login(ctx context.Context, in models.Credentials) (*models.TokenResponse, error) {
	f.record(ctx)
	f.LastLogin = in
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	f.record(ctx)
	return f.ListRet, f.ListErr
}

func (f *fakeClient) CreateExpense(ctx context.Context, in models.ExpenseInput) (*models.Expense, error) {
	f.record(ctx)
	f.LastInput = in
	return f.CreateRet, f.CreateErr
}

func (f *fakeClient) UpdateExpense(ctx context.Context, id int64, in models.ExpenseInput) (*models.Expense, error) {
	f.record(ctx)
	f.LastID, f.LastInput = id, in
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeClient) DeleteExpense(ctx context.Context, id int64) error {
	f.record(ctx)
	f.LastID = id
	return f.DeleteErr
}

func (f *fakeClient) WeeklyGraph(ctx context.Context) (*models.Image, error) {
	f.record(ctx)
	return f.GraphRet, f.GraphErr
}

func newProvider(t *testing.T, token string) *session.Provider {
	t.Helper()
	p := session.NewProvider(&session.MemoryStore{})
	if token != "" {
		require.NoError(t, p.SetToken(context.Background(), token))
	}
	return p
}
