package views

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/expensekeeper/internal/client/client"
	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/client/services"
	"github.com/dmitrijs2005/expensekeeper/internal/client/session"
	"github.com/dmitrijs2005/expensekeeper/internal/logging"
)

// Reconciler brings a collection back in line with the server after a
// mutation it did not perform itself.
type Reconciler interface {
	Reconcile(ctx context.Context) error
}

// DashboardView is the "add expense" screen.
type DashboardView struct {
	guard      Guard
	expenses   services.ExpenseService
	reconciler Reconciler
	logger     logging.Logger

	mu      sync.Mutex
	life    lifecycle
	outcome session.Outcome
	form    models.ExpenseForm
}

// NewDashboardView wires the view. reconciler may be nil.
func NewDashboardView(guard Guard, expenses services.ExpenseService, reconciler Reconciler, logger logging.Logger) *DashboardView {
	if logger == nil {
		logger = logging.Nop()
	}
	return &DashboardView{
		guard:      guard,
		expenses:   expenses,
		reconciler: reconciler,
		logger:     logger.With("view", "dashboard"),
	}
}

// Activate runs the guard for a new activation. The form is kept.
func (d *DashboardView) Activate(ctx context.Context) (session.Outcome, error) {
	d.mu.Lock()
	life := d.life.start(ctx)
	d.outcome = session.Outcome{State: session.StateUnknown}
	d.mu.Unlock()

	out := d.guard.Activate(life)

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.life.alive(life) {
		return out, ErrInactive
	}
	d.outcome = out
	return out, nil
}

func (d *DashboardView) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.life.stop()
}

func (d *DashboardView) Outcome() session.Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.outcome
}

func (d *DashboardView) Form() models.ExpenseForm {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.form
}

func (d *DashboardView) SetForm(f models.ExpenseForm) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.form = f
}

// Submit validates the form and creates the expense. Invalid input never
// reaches the server. On success the form is cleared and the reconciler, if
// any, resynchronizes; on failure the form is left for another attempt.
func (d *DashboardView) Submit(ctx context.Context) (*models.Expense, error) {
	d.mu.Lock()
	life := d.life.current()
	authorized := d.outcome.Authorized()
	form := d.form
	d.mu.Unlock()

	if life == nil {
		return nil, ErrInactive
	}
	if !authorized {
		return nil, ErrNotAuthorized
	}

	in, err := form.Parse()
	if err != nil {
		return nil, client.Validation(err)
	}

	octx, cancel := bind(ctx, life)
	defer cancel()

	created, err := d.expenses.Create(octx, in)
	if err != nil {
		if life.Err() != nil {
			return nil, ErrInactive
		}
		d.logger.Warn(ctx, "expense create failed", "kind", client.KindOf(err).String(), "error", err)
		return nil, err
	}

	d.mu.Lock()
	if d.life.alive(life) && d.form == form {
		d.form = models.ExpenseForm{}
	}
	d.mu.Unlock()

	if d.reconciler != nil {
		if err := d.reconciler.Reconcile(ctx); err != nil {
			if errors.Is(err, ErrInactive) || errors.Is(err, ErrNotAuthorized) {
				d.logger.Debug(ctx, "no collection to reconcile", "error", err)
			} else {
				d.logger.Warn(ctx, "resync after create failed", "error", err)
			}
		}
	}
	return created, nil
}
