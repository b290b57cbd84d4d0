package views

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/dmitrijs2005/expensekeeper/internal/client/client"
	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/client/services"
	"github.com/dmitrijs2005/expensekeeper/internal/client/session"
	"github.com/dmitrijs2005/expensekeeper/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Draft is the scratch copy of the expense being edited.
type Draft struct {
	ID   int64
	Form models.ExpenseForm
}

// ExpensesView is the expense list screen: the synchronized collection, the
// edit draft and the weekly summary.
type ExpensesView struct {
	guard    Guard
	expenses services.ExpenseService
	signOuts SignOutSource
	logger   logging.Logger

	flight singleflight.Group

	mu      sync.Mutex
	life    lifecycle
	outcome session.Outcome
	items   []models.Expense
	draft   *Draft
	// issued counts sync requests; applied is the newest one reflected in
	// items. Results older than applied are dropped.
	issued  uint64
	applied uint64
}

// NewExpensesView wires the view. signOuts may be nil, in which case a
// logout elsewhere is only noticed on the next activation.
func NewExpensesView(guard Guard, expenses services.ExpenseService, signOuts SignOutSource, logger logging.Logger) *ExpensesView {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ExpensesView{
		guard:    guard,
		expenses: expenses,
		signOuts: signOuts,
		logger:   logger.With("view", "expenses"),
		items:    []models.Expense{},
	}
}

// Activate starts a new activation: the collection and draft are reset, the
// guard runs, and only if it resolves authorized is the collection
// synchronized. An unauthorized outcome is not an error.
func (v *ExpensesView) Activate(ctx context.Context) (session.Outcome, error) {
	v.mu.Lock()
	life := v.life.start(ctx)
	v.outcome = session.Outcome{State: session.StateUnknown}
	v.items = []models.Expense{}
	v.draft = nil
	v.mu.Unlock()

	out := v.guard.Activate(life)

	v.mu.Lock()
	if !v.life.alive(life) {
		v.mu.Unlock()
		return out, ErrInactive
	}
	v.outcome = out
	v.mu.Unlock()

	if !out.Authorized() {
		v.logger.Info(ctx, "not authorized", "kind", client.KindOf(out.Err).String())
		return out, nil
	}

	v.watch(life)
	return out, v.Sync(life)
}

// watch revokes the activation when the credential is cleared. Outcomes
// of other views' guards do not affect this one.
func (v *ExpensesView) watch(life context.Context) {
	if v.signOuts == nil {
		return
	}
	ch, cancel := v.signOuts.SignedOut()
	context.AfterFunc(life, cancel)

	go func() {
		for range ch {
			v.revoke(life)
		}
	}()
}

func (v *ExpensesView) revoke(life context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.life.alive(life) {
		return
	}
	v.outcome = session.Outcome{State: session.StateUnauthorized, Err: ErrNotAuthorized}
	v.items = []models.Expense{}
	v.draft = nil
	v.flight.Forget(v.life.key("list"))
}

// Close cancels outstanding work. Results arriving later are dropped.
func (v *ExpensesView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.life.stop()
	v.draft = nil
}

// Outcome returns the guard outcome of the current activation.
func (v *ExpensesView) Outcome() session.Outcome {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.outcome
}

// Items returns a copy of the collection in server order.
func (v *ExpensesView) Items() []models.Expense {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.items)
}

// Draft returns the open draft, if any.
func (v *ExpensesView) Draft() (Draft, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.draft == nil {
		return Draft{}, false
	}
	return *v.draft, true
}

// authorized returns the live activation context when the guard resolved
// authorized.
func (v *ExpensesView) authorized() (context.Context, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.authorizedLocked()
}

func (v *ExpensesView) authorizedLocked() (context.Context, error) {
	life := v.life.current()
	if life == nil {
		return nil, ErrInactive
	}
	if !v.outcome.Authorized() {
		return nil, ErrNotAuthorized
	}
	return life, nil
}

// Sync replaces the collection with the server's list. Concurrent calls
// share one request. On failure the collection is left as it was and the
// error is returned so the caller can offer a retry.
func (v *ExpensesView) Sync(ctx context.Context) error {
	v.mu.Lock()
	life, err := v.authorizedLocked()
	if err != nil {
		v.mu.Unlock()
		return err
	}
	v.issued++
	gen := v.issued
	key := v.life.key("list")
	v.mu.Unlock()

	ch := v.flight.DoChan(key, func() (any, error) {
		return v.expenses.List(life)
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-life.Done():
		return ErrInactive
	case res := <-ch:
		if res.Err != nil {
			if life.Err() != nil {
				return ErrInactive
			}
			v.logger.Warn(ctx, "expense sync failed", "kind", client.KindOf(res.Err).String(), "error", res.Err)
			return res.Err
		}
		items, _ := res.Val.([]models.Expense)
		v.apply(ctx, life, gen, items)
		return nil
	}
}

func (v *ExpensesView) apply(ctx context.Context, life context.Context, gen uint64, items []models.Expense) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.life.alive(life) || !v.outcome.Authorized() {
		return
	}
	if gen <= v.applied {
		v.logger.Debug(ctx, "stale sync result dropped", "gen", gen, "applied", v.applied)
		return
	}
	if items == nil {
		items = []models.Expense{}
	}
	v.items = slices.Clone(items)
	v.applied = gen
	v.logger.Debug(ctx, "expenses synchronized", "count", len(items), "gen", gen)
}

// Reconcile refreshes the collection after a mutation made elsewhere. Any
// list request already in flight is not reused.
func (v *ExpensesView) Reconcile(ctx context.Context) error {
	v.mu.Lock()
	v.flight.Forget(v.life.key("list"))
	v.mu.Unlock()
	return v.Sync(ctx)
}

// Delete removes id on the server and then from the collection. Nothing is
// removed locally unless the server confirms.
func (v *ExpensesView) Delete(ctx context.Context, id int64) error {
	life, err := v.authorized()
	if err != nil {
		return err
	}

	octx, cancel := bind(ctx, life)
	defer cancel()

	if err := v.expenses.Delete(octx, id); err != nil {
		if life.Err() != nil {
			return ErrInactive
		}
		v.logger.Warn(ctx, "expense delete failed", "id", id, "kind", client.KindOf(err).String(), "error", err)
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.life.alive(life) {
		return nil
	}
	v.items = slices.DeleteFunc(slices.Clone(v.items), func(e models.Expense) bool { return e.ID == id })
	// Lists requested before the delete may still contain id.
	v.applied = v.issued
	v.flight.Forget(v.life.key("list"))
	return nil
}

// BeginEdit opens a draft for id from the collection. A draft that is
// already open is replaced.
func (v *ExpensesView) BeginEdit(id int64) (Draft, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, err := v.authorizedLocked(); err != nil {
		return Draft{}, err
	}
	i := slices.IndexFunc(v.items, func(e models.Expense) bool { return e.ID == id })
	if i < 0 {
		return Draft{}, ErrNotFound
	}

	v.draft = &Draft{ID: id, Form: models.FormOf(v.items[i])}
	return *v.draft, nil
}

// ReviseDraft replaces the draft's form. The collection is not touched.
func (v *ExpensesView) ReviseDraft(form models.ExpenseForm) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.draft == nil {
		return ErrNoDraft
	}
	v.draft.Form = form
	return nil
}

// CancelEdit discards the draft.
func (v *ExpensesView) CancelEdit() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft = nil
}

// SaveDraft sends the draft as a full update. On success the draft is
// closed and the collection resynchronized; on failure the draft stays
// open and the collection is unchanged.
func (v *ExpensesView) SaveDraft(ctx context.Context) error {
	v.mu.Lock()
	life, err := v.authorizedLocked()
	if err != nil {
		v.mu.Unlock()
		return err
	}
	if v.draft == nil {
		v.mu.Unlock()
		return ErrNoDraft
	}
	d := *v.draft
	v.mu.Unlock()

	in, err := d.Form.Parse()
	if err != nil {
		return client.Validation(err)
	}

	octx, cancel := bind(ctx, life)
	defer cancel()

	if _, err := v.expenses.Update(octx, d.ID, in); err != nil {
		if life.Err() != nil {
			return ErrInactive
		}
		v.logger.Warn(ctx, "expense update failed", "id", d.ID, "kind", client.KindOf(err).String(), "error", err)
		return err
	}

	v.mu.Lock()
	if !v.life.alive(life) {
		v.mu.Unlock()
		return nil
	}
	if v.draft != nil && v.draft.ID == d.ID {
		v.draft = nil
	}
	v.mu.Unlock()

	if err := v.Reconcile(ctx); err != nil && !errors.Is(err, ErrInactive) {
		v.logger.Warn(ctx, "resync after update failed", "error", err)
	}
	return nil
}

// WeeklyGraph fetches the server-rendered weekly chart. With an empty
// collection there is nothing to chart and ErrNoData is returned without a
// request.
func (v *ExpensesView) WeeklyGraph(ctx context.Context) (*models.Image, error) {
	v.mu.Lock()
	life, err := v.authorizedLocked()
	empty := len(v.items) == 0
	v.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if empty {
		return nil, ErrNoData
	}

	octx, cancel := bind(ctx, life)
	defer cancel()

	img, err := v.expenses.WeeklyGraph(octx)
	if err != nil {
		if life.Err() != nil {
			return nil, ErrInactive
		}
		return nil, err
	}
	return img, nil
}
