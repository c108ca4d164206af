// Package routes maps navigation paths to views.
package routes

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
)

// Name identifies a view.
type Name string

const (
	Home           Name = "home"
	Register       Name = "register"
	Login          Name = "login"
	ForgotPassword Name = "forgot_password"
	ResetPassword  Name = "reset_password"
	Dashboard      Name = "dashboard"
)

// TokenParam is the path parameter carrying a reset token.
const TokenParam = "token"

// Route describes one navigable view.
type Route struct {
	Name      Name
	Template  string
	Protected bool
}

var table = []Route{
	{Name: Home, Template: "/"},
	{Name: Register, Template: "/register"},
	{Name: Login, Template: "/login"},
	{Name: ForgotPassword, Template: "/forgot-password"},
	{Name: ResetPassword, Template: "/reset-password/{" + TokenParam + "}"},
	{Name: Dashboard, Template: "/dashboard", Protected: true},
}

// ErrNotFound is returned for a path no route matches.
var ErrNotFound = errors.New("page not found")

// Match is a resolved path.
type Match struct {
	Route  Route
	Params map[string]string
}

// Param returns the named path parameter, or "".
func (m Match) Param(name string) string { return m.Params[name] }

// Table resolves paths against the known routes.
type Table struct {
	router *mux.Router
	byName map[Name]Route
}

// New builds the route table.
func New() *Table {
	t := &Table{router: mux.NewRouter(), byName: make(map[Name]Route, len(table))}
	for _, r := range table {
		t.router.NewRoute().Methods(http.MethodGet).Path(r.Template).Name(string(r.Name))
		t.byName[r.Name] = r
	}
	return t
}

// Routes lists every route in display order.
func (t *Table) Routes() []Route {
	return append([]Route(nil), table...)
}

// Resolve matches path, which may carry a query string, to a route.
func (t *Table) Resolve(path string) (Match, error) {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u, err := url.Parse(path)
	if err != nil {
		return Match{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	req := &http.Request{Method: http.MethodGet, URL: u}
	var rm mux.RouteMatch
	if !t.router.Match(req, &rm) || rm.MatchErr != nil || rm.Route == nil {
		return Match{}, fmt.Errorf("%w: %s", ErrNotFound, u.Path)
	}
	r, ok := t.byName[Name(rm.Route.GetName())]
	if !ok {
		return Match{}, fmt.Errorf("%w: %s", ErrNotFound, u.Path)
	}
	return Match{Route: r, Params: rm.Vars}, nil
}

// Path builds the path of the named route. pairs are parameter name/value
// pairs, as for mux.Route.URLPath.
func (t *Table) Path(name Name, pairs ...string) (string, error) {
	r := t.router.Get(string(name))
	if r == nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	u, err := r.URLPath(pairs...)
	if err != nil {
		return "", err
	}
	return u.Path, nil
}

// MustPath is Path for routes known to exist. It panics on error.
func (t *Table) MustPath(name Name, pairs ...string) string {
	p, err := t.Path(name, pairs...)
	if err != nil {
		panic(err)
	}
	return p
}
