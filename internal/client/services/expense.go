package services

import (
	"context"

	"github.com/dmitrijs2005/expensekeeper/internal/client/client"
	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/client/session"
	"github.com/dmitrijs2005/expensekeeper/internal/netx"
)

// ExpenseService issues the expense resource calls with the stored session
// credential attached. A missing credential fails with client.ErrNoCredential
// before any request is made.
type ExpenseService interface {
	List(ctx context.Context) ([]models.Expense, error)
	Create(ctx context.Context, in models.ExpenseInput) (*models.Expense, error)
	Update(ctx context.Context, id int64, in models.ExpenseInput) (*models.Expense, error)
	Delete(ctx context.Context, id int64) error
	WeeklyGraph(ctx context.Context) (*models.Image, error)
}

type expenseService struct {
	client   client.Client
	provider *session.Provider
}

func NewExpenseService(c client.Client, p *session.Provider) ExpenseService {
	return &expenseService{client: c, provider: p}
}

func (s *expenseService) authorize(ctx context.Context) (context.Context, error) {
	tok, err := s.provider.Token(ctx)
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, client.ErrNoCredential
	}
	return netx.WithAccessToken(ctx, tok), nil
}

func (s *expenseService) List(ctx context.Context) ([]models.Expense, error) {
	ctx, err := s.authorize(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.ListExpenses(ctx)
}

func (s *expenseService) Create(ctx context.Context, in models.ExpenseInput) (*models.Expense, error) {
	if err := in.Validate(); err != nil {
		return nil, client.Validation(err)
	}
	ctx, err := s.authorize(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.CreateExpense(ctx, in)
}

func (s *expenseService) Update(ctx context.Context, id int64, in models.ExpenseInput) (*models.Expense, error) {
	if err := in.Validate(); err != nil {
		return nil, client.Validation(err)
	}
	ctx, err := s.authorize(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.UpdateExpense(ctx, id, in)
}

func (s *expenseService) Delete(ctx context.Context, id int64) error {
	ctx, err := s.authorize(ctx)
	if err != nil {
		return err
	}
	return s.client.DeleteExpense(ctx, id)
}

func (s *expenseService) WeeklyGraph(ctx context.Context) (*models.Image, error) {
	ctx, err := s.authorize(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.WeeklyGraph(ctx)
}
