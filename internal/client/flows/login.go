package flows

import (
	"context"

	"github.com/dmitrijs2005/authflow/internal/client/authapi"
	"github.com/dmitrijs2005/authflow/internal/client/session"
	"github.com/dmitrijs2005/authflow/internal/logging"
)

// LoginStep is the position within a LoginFlow.
type LoginStep int

const (
	StepIdentifier LoginStep = iota
	StepOTPChallenge
	StepPasswordEntry
	StepLoggedIn
)

func (s LoginStep) String() string {
	switch s {
	case StepIdentifier:
		return "identifier"
	case StepOTPChallenge:
		return "otp_challenge"
	case StepPasswordEntry:
		return "password_entry"
	case StepLoggedIn:
		return "logged_in"
	default:
		return "unknown"
	}
}

const (
	evOTPSent          event = "otp_sent"
	evOTPVerified      event = "otp_verified"
	evPasswordAccepted event = "password_accepted"
	evBackToIdentifier event = "back_to_identifier"
)

// The password step is reachable only through a verified OTP challenge.
var loginTable = table[LoginStep]{
	{StepIdentifier, evOTPSent}:             StepOTPChallenge,
	{StepOTPChallenge, evOTPVerified}:       StepPasswordEntry,
	{StepOTPChallenge, evBackToIdentifier}:  StepIdentifier,
	{StepPasswordEntry, evPasswordAccepted}: StepLoggedIn,
}

// SessionWriter is the part of the session store a login writes to.
type SessionWriter interface {
	Epoch() uint64
	SetIfEpoch(ctx context.Context, epoch uint64, tok session.Token) (bool, error)
}

// LoginFlow drives sign-in: identifier, emailed OTP, then password.
type LoginFlow struct {
	api        authapi.Client
	sessions   SessionWriter
	m          *machine[LoginStep]
	identifier string
}

// NewLoginFlow returns a flow at StepIdentifier that stores the resulting
// token in sessions.
func NewLoginFlow(api authapi.Client, sessions SessionWriter, log logging.Logger) *LoginFlow {
	return &LoginFlow{
		api:      api,
		sessions: sessions,
		m:        newMachine("login", StepIdentifier, loginTable, log),
	}
}

// Step returns the current step.
func (f *LoginFlow) Step() LoginStep { return f.m.current() }

// Identifier returns the email or username the flow is signing in.
func (f *LoginFlow) Identifier() string {
	var id string
	f.m.locked(func() { id = f.identifier })
	return id
}

// SubmitIdentifier asks the server to send a login OTP.
func (f *LoginFlow) SubmitIdentifier(ctx context.Context, identifier string) (Outcome, error) {
	t, err := f.m.begin(evOTPSent, nil)
	if err != nil {
		return Outcome{}, err
	}
	if err := checkVar(identifier, "required", MsgEnterIdentifier); err != nil {
		return Outcome{}, f.m.abort(t, err)
	}

	reply, err := f.api.RequestLoginOTP(ctx, identifier)
	if err != nil {
		return Outcome{}, f.m.abort(t, err)
	}
	err = f.m.advance(ctx, t, func() error {
		f.identifier = identifier
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Message: reply.Message}, nil
}

// SubmitOTP verifies the login OTP for the retained identifier.
func (f *LoginFlow) SubmitOTP(ctx context.Context, code string) (Outcome, error) {
	var identifier string
	t, err := f.m.begin(evOTPVerified, func() { identifier = f.identifier })
	if err != nil {
		return Outcome{}, err
	}
	if err := checkOTP(code, MsgEnterOTP); err != nil {
		return Outcome{}, f.m.abort(t, err)
	}

	reply, err := f.api.VerifyLoginOTP(ctx, identifier, code)
	if err != nil {
		return Outcome{}, f.m.abort(t, err)
	}
	if err := f.m.advance(ctx, t, nil); err != nil {
		return Outcome{}, err
	}
	return Outcome{Message: reply.Message}, nil
}

// SubmitPassword completes the login and stores the session token. If the
// session changed while the request was in flight (for example the user
// logged out) the token is dropped and ErrStale is returned.
func (f *LoginFlow) SubmitPassword(ctx context.Context, password string) (Outcome, error) {
	var (
		identifier string
		epoch      uint64
	)
	t, err := f.m.begin(evPasswordAccepted, func() {
		identifier = f.identifier
		epoch = f.sessions.Epoch()
	})
	if err != nil {
		return Outcome{}, err
	}
	if err := checkVar(password, "required", MsgEnterPassword); err != nil {
		return Outcome{}, f.m.abort(t, err)
	}

	reply, err := f.api.LoginWithPassword(ctx, identifier, password)
	if err != nil {
		return Outcome{}, f.m.abort(t, err)
	}
	err = f.m.advance(ctx, t, func() error {
		stored, err := f.sessions.SetIfEpoch(ctx, epoch, session.Token(reply.Token))
		if err != nil {
			return err
		}
		if !stored {
			return ErrStale
		}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Message: authapi.SuccessPasswordLogin, Next: DestinationDashboard}, nil
}

// GoBack returns from the OTP challenge to the identifier step. The
// identifier is kept so the user can correct or resend it.
func (f *LoginFlow) GoBack() error {
	return f.m.back(evBackToIdentifier, nil)
}

// Close abandons any in-flight submission.
func (f *LoginFlow) Close() { f.m.close() }
