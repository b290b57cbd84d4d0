package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/expensekeeper/internal/client/client"
	"github.com/dmitrijs2005/expensekeeper/internal/client/config"
	"github.com/dmitrijs2005/expensekeeper/internal/client/services"
	"github.com/dmitrijs2005/expensekeeper/internal/client/session"
	"github.com/dmitrijs2005/expensekeeper/internal/client/sinks"
	"github.com/dmitrijs2005/expensekeeper/internal/client/views"
	"github.com/dmitrijs2005/expensekeeper/internal/logging"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config *config.Config
	logger logging.Logger

	db       *sql.DB
	api      *client.HTTPClient
	provider *session.Provider
	sink     sinks.ImageSink

	closeOnce sync.Once
	closeErr  error

	authService services.AuthService
	expenses    *views.ExpensesView
	dashboard   *views.DashboardView

	userName string
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp opens the local database, picks the graph sink and wires the
// services and views.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	api, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	sink, err := newSink(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := newApp(c, logger, session.NewSQLStore(db), api, sink)
	a.db = db
	return a, nil
}

func newSink(ctx context.Context, c *config.Config) (sinks.ImageSink, error) {
	if c.S3Bucket == "" {
		return sinks.NewFileSink(c.GraphDir), nil
	}
	return sinks.NewS3Sink(ctx, sinks.S3Options{
		Bucket:    c.S3Bucket,
		Endpoint:  c.S3Endpoint,
		Region:    c.S3Region,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
	})
}

func newApp(c *config.Config, logger logging.Logger, store session.Store, api *client.HTTPClient, sink sinks.ImageSink) *App {
	provider := session.NewProvider(store)
	es := services.NewExpenseService(api, provider)

	// Each view gets its own guard so each activation verifies on its own.
	expenses := views.NewExpensesView(session.NewGuard(provider, api, logger), es, provider, logger)
	dashboard := views.NewDashboardView(session.NewGuard(provider, api, logger), es, expenses, logger)

	return &App{
		config:      c,
		logger:      logger,
		api:         api,
		provider:    provider,
		sink:        sink,
		authService: services.NewAuthService(api, provider),
		expenses:    expenses,
		dashboard:   dashboard,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}
}

// Run activates the views and runs the REPL until the user leaves or ctx
// is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close tears down the views and releases the HTTP client and database.
// Only the first call has an effect.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		a.expenses.Close()
		a.dashboard.Close()

		var errs []error
		if a.api != nil {
			errs = append(errs, a.api.Close())
		}
		if a.db != nil {
			errs = append(errs, a.db.Close())
		}
		a.closeErr = errors.Join(errs...)
	})
	return a.closeErr
}

func (a *App) isLoggedIn() bool {
	return a.expenses.Outcome().Authorized()
}

// activate starts a fresh activation of both views. The dashboard and the
// expense list verify the session independently. The outcome of the list
// view is returned.
func (a *App) activate(ctx context.Context) session.Outcome {
	var g errgroup.Group
	var syncErr error

	g.Go(func() error {
		_, err := a.dashboard.Activate(ctx)
		return err
	})
	g.Go(func() error {
		_, syncErr = a.expenses.Activate(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		a.logger.Debug(ctx, "dashboard activation ended early", "error", err)
	}

	out := a.expenses.Outcome()
	a.userName = ""
	if !out.Authorized() {
		return out
	}
	if out.Identity != nil {
		a.userName = out.Identity.Email
	}
	if syncErr != nil {
		a.report(syncErr, "Could not load expenses")
		printlnFn("Type 'sync' to try again.")
	}
	return out
}

// report prints the reason carried by err, or fallback when the server gave
// none.
func (a *App) report(err error, fallback string) {
	if err == nil {
		printlnFn(fallback)
		return
	}
	switch client.KindOf(err) {
	case client.KindTransport:
		printlnFn(fallback + ": server unavailable")
	case client.KindUnknown:
		printlnFn(fallback + ": " + err.Error())
	default:
		printlnFn(client.ReasonOr(err, fallback))
	}
}
