package authapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) BearerToken() (string, bool) { return string(s), s != "" }

// recorded is what the fake service saw for a single request.
type recorded struct {
	method    string
	path      string
	auth      string
	requestID string
	body      map[string]any
}

func newServer(t *testing.T, status int, reply string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		rec.requestID = r.Header.Get(RequestIDHeader)
		b, _ := io.ReadAll(r.Body)
		if len(b) > 0 {
			require.NoError(t, json.Unmarshal(b, &rec.body))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestHTTPClient_RequestShapes(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name     string
		invoke   func(c *HTTPClient) error
		wantPath string
		wantBody map[string]any
	}{
		{
			name: "register",
			invoke: func(c *HTTPClient) error {
				_, err := c.Register(ctx, Credentials{FirstName: "Jane", LastName: "Doe", Email: "jane@x.com", Password: "secret1"})
				return err
			},
			wantPath: PathRegister,
			wantBody: map[string]any{"firstName": "Jane", "lastName": "Doe", "email": "jane@x.com", "password": "secret1"},
		},
		{
			name: "verify email",
			invoke: func(c *HTTPClient) error {
				_, err := c.VerifyEmail(ctx, "jane@x.com", "123456")
				return err
			},
			wantPath: PathVerifyEmail,
			wantBody: map[string]any{"email": "jane@x.com", "otp": "123456"},
		},
		{
			name: "request login otp",
			invoke: func(c *HTTPClient) error {
				_, err := c.RequestLoginOTP(ctx, "jane")
				return err
			},
			wantPath: PathRequestOTP,
			wantBody: map[string]any{"identifier": "jane"},
		},
		{
			name: "verify login otp",
			invoke: func(c *HTTPClient) error {
				_, err := c.VerifyLoginOTP(ctx, "jane", "654321")
				return err
			},
			wantPath: PathVerifyOTP,
			wantBody: map[string]any{"identifier": "jane", "otp": "654321"},
		},
		{
			name: "forgot password",
			invoke: func(c *HTTPClient) error {
				_, err := c.ForgotPassword(ctx, "jane@x.com")
				return err
			},
			wantPath: PathForgotPassword,
			wantBody: map[string]any{"email": "jane@x.com"},
		},
		{
			name: "reset password",
			invoke: func(c *HTTPClient) error {
				_, err := c.ResetPassword(ctx, "tok-1", "newpass")
				return err
			},
			wantPath: PathResetPassword,
			wantBody: map[string]any{"token": "tok-1", "newPassword": "newpass"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, rec := newServer(t, http.StatusOK, `{"message":"ok"}`)
			c := NewHTTPClient(srv.URL+"/", WithTokenSource(staticToken("must-not-leak")))

			require.NoError(t, tt.invoke(c))
			assert.Equal(t, http.MethodPost, rec.method)
			assert.Equal(t, tt.wantPath, rec.path)
			assert.Equal(t, tt.wantBody, rec.body)
			assert.Empty(t, rec.auth, "unauthenticated endpoints must not carry the token")
			assert.NotEmpty(t, rec.requestID)
		})
	}
}

func TestHTTPClient_ReplyMessage(t *testing.T) {
	srv, _ := newServer(t, http.StatusCreated, `{"message":"OTP sent"}`)
	c := NewHTTPClient(srv.URL)

	r, err := c.Register(context.Background(), Credentials{})
	require.NoError(t, err)
	assert.Equal(t, "OTP sent", r.Message)
}

func TestHTTPClient_LoginWithPassword(t *testing.T) {
	t.Run("token returned", func(t *testing.T) {
		srv, rec := newServer(t, http.StatusOK, `{"message":"welcome","token":"tok-abc"}`)
		c := NewHTTPClient(srv.URL)

		r, err := c.LoginWithPassword(context.Background(), "jane", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "tok-abc", r.Token)
		assert.Equal(t, map[string]any{"identifier": "jane", "password": "secret1"}, rec.body)
	})

	t.Run("success without token is a request error", func(t *testing.T) {
		srv, _ := newServer(t, http.StatusOK, `{"message":"welcome"}`)
		c := NewHTTPClient(srv.URL)

		_, err := c.LoginWithPassword(context.Background(), "jane", "secret1")
		require.ErrorIs(t, err, ErrRequest)
		assert.Equal(t, FallbackPasswordLogin, UserMessage(err))
	})
}

func TestHTTPClient_FetchProfile(t *testing.T) {
	body := `{"data":{"firstName":"Jane","lastName":"Doe","email":"jane@x.com","username":"jane","role":"user","isVerified":true,"createdAt":"2026-01-02T03:04:05Z"}}`
	srv, rec := newServer(t, http.StatusOK, body)
	c := NewHTTPClient(srv.URL, WithTokenSource(staticToken("tok-abc")))

	p, err := c.FetchProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, PathProfile, rec.path)
	assert.Equal(t, "Bearer tok-abc", rec.auth)
	assert.Equal(t, "Jane", p.FirstName)
	assert.Equal(t, "jane", p.Username)
	assert.True(t, p.IsVerified)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), p.CreatedAt)
}

func TestHTTPClient_FetchProfile_NoTokenNoHeader(t *testing.T) {
	srv, rec := newServer(t, http.StatusUnauthorized, `{"message":"Not authorized"}`)
	c := NewHTTPClient(srv.URL, WithTokenSource(staticToken("")))

	_, err := c.FetchProfile(context.Background())
	require.ErrorIs(t, err, ErrRequest)
	assert.Empty(t, rec.auth)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
	assert.Equal(t, "Not authorized", UserMessage(err))
}

func TestHTTPClient_FetchProfile_MissingData(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"message":"ok"}`)
	c := NewHTTPClient(srv.URL)

	_, err := c.FetchProfile(context.Background())
	require.ErrorIs(t, err, ErrRequest)
	assert.Equal(t, FallbackProfile, UserMessage(err))
}

func TestHTTPClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		reply   string
		wantMsg string
	}{
		{name: "server message verbatim", status: http.StatusBadRequest, reply: `{"message":"Invalid OTP code"}`, wantMsg: "Invalid OTP code"},
		{name: "empty message falls back", status: http.StatusBadRequest, reply: `{"message":"  "}`, wantMsg: FallbackVerifyOTP},
		{name: "non-json body falls back", status: http.StatusInternalServerError, reply: `<html>oops</html>`, wantMsg: FallbackVerifyOTP},
		{name: "no body falls back", status: http.StatusBadGateway, reply: ``, wantMsg: FallbackVerifyOTP},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, tt.status, tt.reply)
			c := NewHTTPClient(srv.URL)

			_, err := c.VerifyLoginOTP(context.Background(), "jane", "000000")
			require.ErrorIs(t, err, ErrRequest)
			require.NotErrorIs(t, err, ErrNetwork)
			assert.Equal(t, tt.wantMsg, UserMessage(err))
			assert.Equal(t, tt.status, StatusOf(err))
		})
	}
}

func TestHTTPClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewHTTPClient(srv.URL, WithTimeout(time.Second))
	_, err := c.RequestLoginOTP(context.Background(), "jane")
	require.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, NetworkMessage, UserMessage(err))
}

func TestHTTPClient_ContextCanceled(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"message":"ok"}`)
	c := NewHTTPClient(srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ForgotPassword(ctx, "jane@x.com")
	require.ErrorIs(t, err, ErrNetwork)
	require.ErrorIs(t, err, context.Canceled)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestHTTPClient_WithTransport(t *testing.T) {
	var seen []string
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		seen = append(seen, r.URL.Path+"|"+r.Header.Get("Authorization"))
		return nil, errors.New("offline")
	})
	c := NewHTTPClient("http://auth.invalid", WithTransport(rt), WithTokenSource(staticToken("t1")))

	_, err := c.RequestLoginOTP(context.Background(), "jane")
	require.ErrorIs(t, err, ErrNetwork)
	_, err = c.FetchProfile(context.Background())
	require.ErrorIs(t, err, ErrNetwork)

	assert.Equal(t, []string{PathRequestOTP + "|", PathProfile + "|Bearer t1"}, seen)
}
