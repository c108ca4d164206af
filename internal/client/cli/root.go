package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authflow/internal/client/guard"
	"github.com/dmitrijs2005/authflow/internal/client/routes"
)

// maxRedirects bounds a chain of view-to-view redirects. Tests lower it.
var maxRedirects = 8

// Root shows the home page and runs the REPL.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to authflow (type 'help' for commands)")
	_ = a.Navigate(ctx, a.routes.MustPath(routes.Home))
	runREPL(ctx, a, a.status, a.reader)
}

// Navigate opens path and follows the redirects the views ask for.
func (a *App) Navigate(ctx context.Context, path string) error {
	for hop := 0; path != ""; hop++ {
		if hop == maxRedirects {
			err := fmt.Errorf("too many redirects at %s", path)
			a.notify.Fail(err)
			return err
		}

		m, err := a.routes.Resolve(path)
		if err != nil {
			a.notify.Fail(err)
			return err
		}
		if a.guard.Authorize(m.Route.Protected) == guard.RedirectToLogin {
			a.notify.Notify(LevelError, guard.MsgSessionExpired)
			path = a.routes.MustPath(routes.Login)
			continue
		}

		a.log.Debug(ctx, "navigate", "route", string(m.Route.Name))
		next, err := a.render(ctx, m)
		if errors.Is(err, errCancelled) || errors.Is(err, context.Canceled) {
			a.notify.Notify(LevelInfo, "Cancelled")
			return nil
		}
		if err != nil {
			a.notify.Fail(err)
			return err
		}
		path = next
	}
	return nil
}

// render runs the view for m and returns the path to continue to, or "".
func (a *App) render(ctx context.Context, m routes.Match) (string, error) {
	switch m.Route.Name {
	case routes.Home:
		return a.homeView(ctx)
	case routes.Register:
		return a.registerView(ctx)
	case routes.Login:
		return a.loginView(ctx)
	case routes.ForgotPassword:
		return a.forgotView(ctx)
	case routes.ResetPassword:
		return a.resetView(ctx, m.Param(routes.TokenParam))
	case routes.Dashboard:
		return a.dashboardView(ctx)
	default:
		return "", fmt.Errorf("%w: %s", routes.ErrNotFound, m.Route.Name)
	}
}
