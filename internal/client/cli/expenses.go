package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/client/views"
)

var getTextOr = GetTextOr

var categoryHint = func() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return "Category (" + strings.Join(names, ", ") + ")"
}()

// promptForm asks for every expense field, offering the values of current
// as defaults.
func (a *App) promptForm(current models.ExpenseForm) (models.ExpenseForm, error) {
	var (
		f   models.ExpenseForm
		err error
	)
	if f.Title, err = getTextOr(a.reader, "Title", current.Title, a.out); err != nil {
		return current, err
	}
	if f.Category, err = getTextOr(a.reader, categoryHint, current.Category, a.out); err != nil {
		return current, err
	}
	if f.Amount, err = getTextOr(a.reader, "Amount", current.Amount, a.out); err != nil {
		return current, err
	}
	return f, nil
}

// Add fills the dashboard form and submits it. A failed submission keeps
// the form, so the next add starts from what was typed.
func (a *App) Add(ctx context.Context) error {
	f, err := a.promptForm(a.dashboard.Form())
	if err != nil {
		return err
	}
	a.dashboard.SetForm(f)

	created, err := a.dashboard.Submit(ctx)
	if err != nil {
		a.report(err, "Failed to add expense")
		return err
	}

	if created != nil {
		printlnFn(fmt.Sprintf("Expense added (id %d)", created.ID))
	} else {
		printlnFn("Expense added")
	}
	return nil
}

// List prints the synchronized collection as a table.
func (a *App) List(ctx context.Context) error {
	items := a.expenses.Items()
	if len(items) == 0 {
		printlnFn("No expenses found")
		return nil
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tAMOUNT\tDATE")
	for _, e := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.Title, e.Category, formatAmount(e.Amount), formatDate(e.Date))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	printlnFn(strings.TrimRight(b.String(), "\n"))

	if d, ok := a.expenses.Draft(); ok {
		printlnFn(fmt.Sprintf("Editing expense %d; type 'save' or 'cancel'.", d.ID))
	}
	return nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatDate(t *models.Timestamp) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateOnly)
}

// Sync reloads the collection from the server.
func (a *App) Sync(ctx context.Context) error {
	if err := a.expenses.Sync(ctx); err != nil {
		a.report(err, "Could not load expenses")
		return err
	}
	printlnFn(fmt.Sprintf("%d expense(s) loaded", len(a.expenses.Items())))
	return nil
}

// Edit opens the expense with the given id as a draft and prompts for new
// values. Without an id the open draft is revised instead.
func (a *App) Edit(ctx context.Context, args []string) error {
	var (
		d   views.Draft
		err error
	)
	if len(args) == 0 {
		var ok bool
		if d, ok = a.expenses.Draft(); !ok {
			printlnFn("Usage: edit <id>")
			return views.ErrNoDraft
		}
	} else {
		id, perr := parseID(args[0])
		if perr != nil {
			printlnFn(perr.Error())
			return perr
		}
		if d, err = a.expenses.BeginEdit(id); err != nil {
			a.report(err, "Cannot edit expense")
			return err
		}
	}

	f, err := a.promptForm(d.Form)
	if err != nil {
		return err
	}
	if err := a.expenses.ReviseDraft(f); err != nil {
		a.report(err, "Cannot edit expense")
		return err
	}
	printlnFn(fmt.Sprintf("Editing expense %d; type 'save' to submit or 'cancel' to discard.", d.ID))
	return nil
}

// Save submits the open draft.
func (a *App) Save(ctx context.Context) error {
	d, _ := a.expenses.Draft()
	if err := a.expenses.SaveDraft(ctx); err != nil {
		a.report(err, "Failed to update expense")
		if !errors.Is(err, views.ErrNoDraft) {
			printlnFn("The draft is still open; use 'edit' to correct it.")
		}
		return err
	}
	printlnFn(fmt.Sprintf("Expense %d updated", d.ID))
	return nil
}

// Cancel discards the open draft.
func (a *App) Cancel(ctx context.Context) error {
	if _, ok := a.expenses.Draft(); !ok {
		printlnFn("Nothing to cancel")
		return nil
	}
	a.expenses.CancelEdit()
	printlnFn("Edit cancelled")
	return nil
}

// Delete removes the expense with the given id.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		printlnFn(err.Error())
		return err
	}
	if err := a.expenses.Delete(ctx, id); err != nil {
		a.report(err, "Failed to delete expense")
		return err
	}
	printlnFn(fmt.Sprintf("Expense %d deleted", id))
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid expense id %q", s)
	}
	return id, nil
}

// Graph fetches the weekly summary and stores it through the configured
// sink.
func (a *App) Graph(ctx context.Context) error {
	img, err := a.expenses.WeeklyGraph(ctx)
	if errors.Is(err, views.ErrNoData) {
		printlnFn("No data available")
		return nil
	}
	if err != nil {
		a.report(err, "Failed to load weekly graph")
		return err
	}

	loc, err := a.sink.Put(ctx, "weekly", img)
	if err != nil {
		a.logger.Error(ctx, "graph not stored", "error", err)
		a.report(err, "Failed to store weekly graph")
		return err
	}
	printlnFn("Weekly graph saved to " + loc)
	return nil
}
