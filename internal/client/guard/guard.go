// Package guard decides whether a view may render given the current session
// and validates the stored token against the server on protected views.
package guard

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/authflow/internal/client/authapi"
	"github.com/dmitrijs2005/authflow/internal/client/session"
	"github.com/dmitrijs2005/authflow/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Decision is the verdict for a navigation.
type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
)

func (d Decision) String() string {
	if d == RedirectToLogin {
		return "redirect_to_login"
	}
	return "allow"
}

const (
	// MsgSessionExpired is shown when a protected view is opened without a token.
	MsgSessionExpired = "Session expired. Please login."
	// MsgLoggedOut confirms a logout.
	MsgLoggedOut = "Logged out successfully"
)

// Store is the part of the session store the guard needs.
type Store interface {
	Get() (session.Token, bool)
	Epoch() uint64
	Clear(ctx context.Context) error
	ClearIfEpoch(ctx context.Context, epoch uint64) (bool, error)
}

// ProfileFetcher loads the profile of the current session.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context) (*authapi.UserProfile, error)
}

// Guard gates protected views.
type Guard struct {
	store  Store
	api    ProfileFetcher
	log    logging.Logger
	flight singleflight.Group
}

// New returns a guard over store that validates tokens through api.
func New(store Store, api ProfileFetcher, log logging.Logger) *Guard {
	return &Guard{store: store, api: api, log: logging.OrNop(log)}
}

// Authorize answers from token presence alone and never touches the store.
func (g *Guard) Authorize(requiredAuthenticated bool) Decision {
	if !requiredAuthenticated {
		return Allow
	}
	if _, ok := g.store.Get(); !ok {
		return RedirectToLogin
	}
	return Allow
}

// VerifySession confirms the stored token with the server and returns the
// profile to display. On a failed check the session is cleared and the
// caller is redirected to login. Concurrent callers share one request, so a
// rejected token is cleared once. A caller whose ctx ends stops waiting with
// ctx.Err(); the shared request keeps running for the others.
func (g *Guard) VerifySession(ctx context.Context) (*authapi.UserProfile, Decision, error) {
	if err := ctx.Err(); err != nil {
		return nil, Allow, err
	}

	ch := g.flight.DoChan("profile", func() (any, error) {
		return g.verify(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, Allow, ctx.Err()
	case res := <-ch:
		switch {
		case res.Err == nil:
			return res.Val.(*authapi.UserProfile), Allow, nil
		case isCancellation(res.Err):
			return nil, Allow, res.Err
		default:
			return nil, RedirectToLogin, res.Err
		}
	}
}

func (g *Guard) verify(ctx context.Context) (*authapi.UserProfile, error) {
	epoch := g.store.Epoch()
	if _, ok := g.store.Get(); !ok {
		return nil, &authapi.Error{Kind: authapi.KindSessionInvalid, Op: "verify_session", Message: MsgSessionExpired}
	}

	profile, err := g.api.FetchProfile(ctx)
	if err == nil {
		return profile, nil
	}
	// An abandoned request says nothing about the token.
	if isCancellation(err) {
		g.log.Debug(ctx, "session check abandoned", "error", err)
		return nil, err
	}

	cleared, cerr := g.store.ClearIfEpoch(ctx, epoch)
	if cerr != nil {
		g.log.Error(ctx, "failed to clear rejected session", "error", cerr)
	}
	if cleared {
		g.log.Warn(ctx, "session invalidated", "status", authapi.StatusOf(err), "cause", kindOf(err))
	}
	return nil, &authapi.Error{
		Kind:    authapi.KindSessionInvalid,
		Op:      "verify_session",
		Status:  authapi.StatusOf(err),
		Message: authapi.FallbackProfile,
		Err:     err,
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled)
}

// Logout clears the session. The caller should navigate to login.
func (g *Guard) Logout(ctx context.Context) (Decision, error) {
	if err := g.store.Clear(ctx); err != nil {
		return RedirectToLogin, err
	}
	g.log.Info(ctx, "logged out")
	return RedirectToLogin, nil
}

func kindOf(err error) string {
	var e *authapi.Error
	if errors.As(err, &e) {
		return e.Kind.String()
	}
	return "unknown"
}
