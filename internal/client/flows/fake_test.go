package flows

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/authflow/internal/client/authapi"
	"github.com/dmitrijs2005/authflow/internal/client/session"
)

// ---- fake client ----

// fakeAPI implements authapi.Client. Each hook, when set, decides the
// result of its method; otherwise the call succeeds. Calls are recorded by
// operation name together with their arguments.
type fakeAPI struct {
	mu    sync.Mutex
	calls []call

	RegisterFn          func(authapi.Credentials) (authapi.Reply, error)
	VerifyEmailFn       func(email, otp string) (authapi.Reply, error)
	RequestLoginOTPFn   func(identifier string) (authapi.Reply, error)
	VerifyLoginOTPFn    func(identifier, otp string) (authapi.Reply, error)
	LoginWithPasswordFn func(identifier, password string) (authapi.LoginReply, error)
	ForgotPasswordFn    func(email string) (authapi.Reply, error)
	ResetPasswordFn     func(token, newPassword string) (authapi.Reply, error)
}

type call struct {
	op   string
	args []string
}

func (f *fakeAPI) record(op string, args ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op: op, args: args})
}

func (f *fakeAPI) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeAPI) count(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.op == op {
			n++
		}
	}
	return n
}

func (f *fakeAPI) Register(_ context.Context, c authapi.Credentials) (authapi.Reply, error) {
	f.record("register", c.FirstName, c.LastName, c.Email, c.Password)
	if f.RegisterFn != nil {
		return f.RegisterFn(c)
	}
	return authapi.Reply{Message: "OTP sent"}, nil
}

func (f *fakeAPI) VerifyEmail(_ context.Context, email, otp string) (authapi.Reply, error) {
	f.record("verify_email", email, otp)
	if f.VerifyEmailFn != nil {
		return f.VerifyEmailFn(email, otp)
	}
	return authapi.Reply{Message: "verified"}, nil
}

func (f *fakeAPI) RequestLoginOTP(_ context.Context, identifier string) (authapi.Reply, error) {
	f.record("request_otp", identifier)
	if f.RequestLoginOTPFn != nil {
		return f.RequestLoginOTPFn(identifier)
	}
	return authapi.Reply{Message: "OTP sent"}, nil
}

func (f *fakeAPI) VerifyLoginOTP(_ context.Context, identifier, otp string) (authapi.Reply, error) {
	f.record("verify_otp", identifier, otp)
	if f.VerifyLoginOTPFn != nil {
		return f.VerifyLoginOTPFn(identifier, otp)
	}
	return authapi.Reply{Message: "OTP verified"}, nil
}

func (f *fakeAPI) LoginWithPassword(_ context.Context, identifier, password string) (authapi.LoginReply, error) {
	f.record("login_password", identifier, password)
	if f.LoginWithPasswordFn != nil {
		return f.LoginWithPasswordFn(identifier, password)
	}
	return authapi.LoginReply{Message: "ok", Token: "tok-1"}, nil
}

func (f *fakeAPI) ForgotPassword(_ context.Context, email string) (authapi.Reply, error) {
	f.record("forgot_password", email)
	if f.ForgotPasswordFn != nil {
		return f.ForgotPasswordFn(email)
	}
	return authapi.Reply{Message: "If the address is registered, a link is on its way"}, nil
}

func (f *fakeAPI) ResetPassword(_ context.Context, token, newPassword string) (authapi.Reply, error) {
	f.record("reset_password", token, newPassword)
	if f.ResetPasswordFn != nil {
		return f.ResetPasswordFn(token, newPassword)
	}
	return authapi.Reply{Message: "Password updated"}, nil
}

func (f *fakeAPI) FetchProfile(context.Context) (*authapi.UserProfile, error) {
	f.record("fetch_profile")
	return &authapi.UserProfile{}, nil
}

var _ authapi.Client = (*fakeAPI)(nil)

// ---- helpers ----

func requestErr(status int, msg string) error {
	return &authapi.Error{Kind: authapi.KindRequest, Status: status, Message: msg}
}

func networkErr() error {
	return &authapi.Error{Kind: authapi.KindNetwork, Message: authapi.NetworkMessage}
}

// gate blocks a fake call until released, so tests can act while a
// submission is in flight.
type gate struct {
	entered chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gate) wait() {
	close(g.entered)
	<-g.release
}

func newStore() *session.Store {
	return session.New(session.NewMemoryBackend(), nil)
}
