package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/authflow/internal/logging"
	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const maxResponseBytes = 1 << 20

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	baseURL string
	anon    *http.Client
	authed  *http.Client
	log     logging.Logger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.anon.Timeout = d
		c.authed.Timeout = d
	}
}

// WithTransport sets the base transport for both anonymous and
// authenticated requests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *HTTPClient) {
		c.anon.Transport = rt
		c.authed.Transport.(*BearerTransport).Base = rt
	}
}

// WithTokenSource sets where FetchProfile takes its bearer token from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *HTTPClient) {
		c.authed.Transport.(*BearerTransport).Source = ts
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) {
		c.log = logging.OrNop(l)
	}
}

// NewHTTPClient returns a client for the service rooted at baseURL.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		anon:    &http.Client{Transport: http.DefaultTransport},
		authed:  &http.Client{Transport: &BearerTransport{Base: http.DefaultTransport}},
		log:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Client = (*HTTPClient)(nil)

func (c *HTTPClient) Register(ctx context.Context, cr Credentials) (Reply, error) {
	var r Reply
	err := c.do(ctx, call{op: "register", method: http.MethodPost, path: PathRegister, body: cr, fallback: FallbackRegister}, &r)
	return r, err
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, email, otp string) (Reply, error) {
	var r Reply
	err := c.do(ctx, call{op: "verify_email", method: http.MethodPost, path: PathVerifyEmail,
		body: verifyEmailRequest{Email: email, OTP: otp}, fallback: FallbackVerifyEmail}, &r)
	return r, err
}

func (c *HTTPClient) RequestLoginOTP(ctx context.Context, identifier string) (Reply, error) {
	var r Reply
	err := c.do(ctx, call{op: "request_login_otp", method: http.MethodPost, path: PathRequestOTP,
		body: identifierRequest{Identifier: identifier}, fallback: FallbackRequestOTP}, &r)
	return r, err
}

func (c *HTTPClient) VerifyLoginOTP(ctx context.Context, identifier, otp string) (Reply, error) {
	var r Reply
	err := c.do(ctx, call{op: "verify_login_otp", method: http.MethodPost, path: PathVerifyOTP,
		body: verifyLoginOTPRequest{Identifier: identifier, OTP: otp}, fallback: FallbackVerifyOTP}, &r)
	return r, err
}

func (c *HTTPClient) LoginWithPassword(ctx context.Context, identifier, password string) (LoginReply, error) {
	var r LoginReply
	err := c.do(ctx, call{op: "login_password", method: http.MethodPost, path: PathPasswordLogin,
		body: passwordLoginRequest{Identifier: identifier, Password: password}, fallback: FallbackPasswordLogin}, &r)
	if err != nil {
		return LoginReply{}, err
	}
	if r.Token == "" {
		return LoginReply{}, &Error{Kind: KindRequest, Op: "login_password", Status: http.StatusOK, Message: FallbackPasswordLogin}
	}
	return r, nil
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) (Reply, error) {
	var r Reply
	err := c.do(ctx, call{op: "forgot_password", method: http.MethodPost, path: PathForgotPassword,
		body: forgotPasswordRequest{Email: email}, fallback: FallbackForgotPassword}, &r)
	return r, err
}

func (c *HTTPClient) ResetPassword(ctx context.Context, token, newPassword string) (Reply, error) {
	var r Reply
	err := c.do(ctx, call{op: "reset_password", method: http.MethodPost, path: PathResetPassword,
		body: resetPasswordRequest{Token: token, NewPassword: newPassword}, fallback: FallbackResetPassword}, &r)
	return r, err
}

func (c *HTTPClient) FetchProfile(ctx context.Context) (*UserProfile, error) {
	var env profileEnvelope
	err := c.do(ctx, call{op: "fetch_profile", method: http.MethodGet, path: PathProfile, authed: true, fallback: FallbackProfile}, &env)
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, &Error{Kind: KindRequest, Op: "fetch_profile", Status: http.StatusOK, Message: FallbackProfile}
	}
	return env.Data, nil
}

type call struct {
	op       string
	method   string
	path     string
	body     any
	authed   bool
	fallback string
}

// do performs one round trip and normalises every outcome into either a
// decoded out value or an *Error.
func (c *HTTPClient) do(ctx context.Context, cl call, out any) error {
	var body io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return &Error{Kind: KindRequest, Op: cl.op, Message: cl.fallback, Err: err}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: cl.op, Message: NetworkMessage, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hc := c.anon
	if cl.authed {
		hc = c.authed
	}

	started := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.log.Debug(ctx, "auth request failed", "op", cl.op, "request_id", requestID, "error", err)
		return &Error{Kind: KindNetwork, Op: cl.op, Message: NetworkMessage, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.log.Debug(ctx, "auth request", "op", cl.op, "method", cl.method, "path", cl.path,
		"status", resp.StatusCode, "duration", time.Since(started), "request_id", requestID)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: cl.op, Status: resp.StatusCode, Message: NetworkMessage, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Kind: KindRequest, Op: cl.op, Status: resp.StatusCode, Message: messageOr(raw, cl.fallback),
			Err: errors.New(http.StatusText(resp.StatusCode))}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Kind: KindRequest, Op: cl.op, Status: resp.StatusCode, Message: cl.fallback, Err: err}
	}
	return nil
}

// messageOr returns the "message" field of a JSON error body, or fallback.
func messageOr(raw []byte, fallback string) string {
	var r Reply
	if err := json.Unmarshal(raw, &r); err != nil || strings.TrimSpace(r.Message) == "" {
		return fallback
	}
	return r.Message
}
