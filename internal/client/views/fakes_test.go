package views

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/client/session"
)

type fakeGuard struct {
	mu    sync.Mutex
	out   session.Outcome
	calls int
}

func (g *fakeGuard) Activate(context.Context) session.Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.out
}

func authorizedGuard() *fakeGuard {
	return &fakeGuard{out: session.Outcome{State: session.StateAuthorized}}
}

func unauthorizedGuard() *fakeGuard {
	return &fakeGuard{out: session.Outcome{State: session.StateUnauthorized, Err: ErrNotAuthorized}}
}

// fakeExpenses implements services.ExpenseService. listFn, when set,
// overrides listRet/listErr and receives the 1-based call number.
type fakeExpenses struct {
	mu sync.Mutex

	listRet []models.Expense
	listErr error
	listFn  func(ctx context.Context, call int) ([]models.Expense, error)

	createRet *models.Expense
	createErr error
	updateErr error
	deleteErr error
	graphRet  *models.Image
	graphErr  error

	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int
	graphCalls  int
	lastID      int64
	lastInput   models.ExpenseInput
}

func (f *fakeExpenses) List(ctx context.Context) ([]models.Expense, error) {
	f.mu.Lock()
	f.listCalls++
	call, fn, ret, err := f.listCalls, f.listFn, f.listRet, f.listErr
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, call)
	}
	return ret, err
}

func (f *fakeExpenses) Create(_ context.Context, in models.ExpenseInput) (*models.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.lastInput = in
	return f.createRet, f.createErr
}

func (f *fakeExpenses) Update(_ context.Context, id int64, in models.ExpenseInput) (*models.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	f.lastID, f.lastInput = id, in
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &models.Expense{ID: id, Title: in.Title, Category: in.Category, Amount: in.Amount}, nil
}

func (f *fakeExpenses) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	f.lastID = id
	return f.deleteErr
}

func (f *fakeExpenses) WeeklyGraph(context.Context) (*models.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.graphCalls++
	return f.graphRet, f.graphErr
}

func (f *fakeExpenses) counts() (list, create, update, del, graph int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.createCalls, f.updateCalls, f.deleteCalls, f.graphCalls
}

func (f *fakeExpenses) setList(items []models.Expense, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listRet, f.listErr = items, err
}

type fakeReconciler struct {
	calls int
	err   error
}

func (r *fakeReconciler) Reconcile(context.Context) error {
	r.calls++
	return r.err
}

func sample() []models.Expense {
	return []models.Expense{
		{ID: 1, Title: "Milk", Category: models.CategoryGrocery, Amount: 50},
		{ID: 2, Title: "Bill", Category: models.CategoryElectricity, Amount: 40},
		{ID: 3, Title: "Book", Category: models.CategoryStudy, Amount: 12.5},
	}
}

type verifierFunc func(ctx context.Context) (*models.Identity, error)

func (f verifierFunc) Me(ctx context.Context) (*models.Identity, error) { return f(ctx) }
