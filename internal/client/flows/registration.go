package flows

import (
	"context"

	"github.com/dmitrijs2005/authflow/internal/client/authapi"
	"github.com/dmitrijs2005/authflow/internal/logging"
)

// RegistrationStep is the position within a RegistrationFlow.
type RegistrationStep int

const (
	StepCredentials RegistrationStep = iota
	StepEmailVerification
	StepRegistered
)

func (s RegistrationStep) String() string {
	switch s {
	case StepCredentials:
		return "credentials"
	case StepEmailVerification:
		return "email_verification"
	case StepRegistered:
		return "registered"
	default:
		return "unknown"
	}
}

const (
	evCredentialsAccepted event = "credentials_accepted"
	evEmailVerified       event = "email_verified"
	evBackToCredentials   event = "back_to_credentials"
)

var registrationTable = table[RegistrationStep]{
	{StepCredentials, evCredentialsAccepted}:     StepEmailVerification,
	{StepEmailVerification, evEmailVerified}:     StepRegistered,
	{StepEmailVerification, evBackToCredentials}: StepCredentials,
}

// RegistrationFlow drives sign-up: credentials, then the emailed code.
type RegistrationFlow struct {
	api   authapi.Client
	m     *machine[RegistrationStep]
	email string
}

// NewRegistrationFlow returns a flow at StepCredentials.
func NewRegistrationFlow(api authapi.Client, log logging.Logger) *RegistrationFlow {
	return &RegistrationFlow{
		api: api,
		m:   newMachine("registration", StepCredentials, registrationTable, log),
	}
}

// Step returns the current step.
func (f *RegistrationFlow) Step() RegistrationStep { return f.m.current() }

// Email returns the address the verification code was sent to.
func (f *RegistrationFlow) Email() string {
	var e string
	f.m.locked(func() { e = f.email })
	return e
}

// SubmitCredentials registers the account and moves on to email
// verification.
func (f *RegistrationFlow) SubmitCredentials(ctx context.Context, c authapi.Credentials) (Outcome, error) {
	t, err := f.m.begin(evCredentialsAccepted, nil)
	if err != nil {
		return Outcome{}, err
	}
	if err := checkCredentials(c); err != nil {
		return Outcome{}, f.m.abort(t, err)
	}

	reply, err := f.api.Register(ctx, c)
	if err != nil {
		return Outcome{}, f.m.abort(t, err)
	}
	err = f.m.advance(ctx, t, func() error {
		f.email = c.Email
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Message: messageOr(reply.Message, authapi.SuccessRegister)}, nil
}

// SubmitVerification confirms the emailed code. On success the caller
// should continue to the login view.
func (f *RegistrationFlow) SubmitVerification(ctx context.Context, code string) (Outcome, error) {
	var email string
	t, err := f.m.begin(evEmailVerified, func() { email = f.email })
	if err != nil {
		return Outcome{}, err
	}
	if err := checkOTP(code, MsgEnterVerification); err != nil {
		return Outcome{}, f.m.abort(t, err)
	}

	reply, err := f.api.VerifyEmail(ctx, email, code)
	if err != nil {
		return Outcome{}, f.m.abort(t, err)
	}
	if err := f.m.advance(ctx, t, nil); err != nil {
		return Outcome{}, err
	}
	return Outcome{Message: messageOr(reply.Message, authapi.SuccessVerifyEmail), Next: DestinationLogin}, nil
}

// GoBackToCredentials returns to the first step without contacting the
// server. An in-flight verification is discarded.
func (f *RegistrationFlow) GoBackToCredentials() error {
	return f.m.back(evBackToCredentials, nil)
}

// Close abandons any in-flight submission.
func (f *RegistrationFlow) Close() { f.m.close() }

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
