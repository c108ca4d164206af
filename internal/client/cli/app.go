package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/authflow/internal/client/authapi"
	"github.com/dmitrijs2005/authflow/internal/client/config"
	"github.com/dmitrijs2005/authflow/internal/client/guard"
	"github.com/dmitrijs2005/authflow/internal/client/routes"
	"github.com/dmitrijs2005/authflow/internal/client/session"
	"github.com/dmitrijs2005/authflow/internal/logging"
)

// App is the terminal client: one session, one API client, and the views
// that drive the flows.
type App struct {
	api    authapi.Client
	store  *session.Store
	guard  *guard.Guard
	routes *routes.Table
	notify *Notifier
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer
	closer func() error
}

// NewApp opens the configured session backend, restores any saved session
// and connects the API client to it.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	log = logging.OrNop(log)

	backend, closer, err := openBackend(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("open %s session backend: %w", c.SessionBackend, err)
	}
	store, err := session.Open(ctx, backend, log)
	if err != nil {
		_ = closer()
		return nil, err
	}

	api := authapi.NewHTTPClient(c.ServerURL,
		authapi.WithTimeout(c.RequestTimeout),
		authapi.WithTokenSource(store),
		authapi.WithLogger(log),
	)

	a := newApp(api, store, os.Stdin, os.Stdout, log)
	a.closer = closer
	return a, nil
}

func newApp(api authapi.Client, store *session.Store, in io.Reader, out io.Writer, log logging.Logger) *App {
	log = logging.OrNop(log)
	return &App{
		api:    api,
		store:  store,
		guard:  guard.New(store, api, log),
		routes: routes.New(),
		notify: NewNotifier(out),
		log:    log,
		reader: bufio.NewReader(in),
		out:    out,
		closer: func() error { return nil },
	}
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.closer(); err != nil {
			a.log.Error(ctx, "close session backend", "error", err)
		}
	}()
	a.Root(ctx)
	return nil
}

func (a *App) isLoggedIn() bool {
	_, ok := a.store.Get()
	return ok
}

func (a *App) pages() []routes.Route {
	return a.routes.Routes()
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return "signed in"
	}
	return "anonymous"
}

// Logout ends the session and shows the login page.
func (a *App) Logout(ctx context.Context) error {
	if _, err := a.guard.Logout(ctx); err != nil {
		a.notify.Fail(err)
		return err
	}
	a.notify.Notify(LevelInfo, guard.MsgLoggedOut)
	return a.Navigate(ctx, a.routes.MustPath(routes.Login))
}

var errCancelled = errors.New("cancelled")
