package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tbl := New()

	tests := []struct {
		path      string
		name      Name
		protected bool
		token     string
	}{
		{"/", Home, false, ""},
		{"/register", Register, false, ""},
		{"login", Login, false, ""},
		{"/forgot-password", ForgotPassword, false, ""},
		{"/reset-password/abc-123", ResetPassword, false, "abc-123"},
		{"/dashboard", Dashboard, true, ""},
		{"/dashboard?tab=profile", Dashboard, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			m, err := tbl.Resolve(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.name, m.Route.Name)
			assert.Equal(t, tt.protected, m.Route.Protected)
			assert.Equal(t, tt.token, m.Param(TokenParam))
		})
	}
}

func TestResolve_NotFound(t *testing.T) {
	tbl := New()
	for _, p := range []string{"/nope", "/reset-password", "/reset-password/", "/reset-password/a/b", "/dashboard/x"} {
		_, err := tbl.Resolve(p)
		require.ErrorIs(t, err, ErrNotFound, p)
	}
}

func TestPath(t *testing.T) {
	tbl := New()

	p, err := tbl.Path(ResetPassword, TokenParam, "tok")
	require.NoError(t, err)
	assert.Equal(t, "/reset-password/tok", p)

	assert.Equal(t, "/login", tbl.MustPath(Login))

	_, err = tbl.Path(Name("missing"))
	require.ErrorIs(t, err, ErrNotFound)

	_, err = tbl.Path(ResetPassword)
	require.Error(t, err)
}

func TestRoutes_OnlyDashboardProtected(t *testing.T) {
	for _, r := range New().Routes() {
		assert.Equal(t, r.Name == Dashboard, r.Protected, r.Name)
	}
}
