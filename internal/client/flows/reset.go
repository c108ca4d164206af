package flows

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/authflow/internal/client/authapi"
	"github.com/dmitrijs2005/authflow/internal/logging"
)

// ResetStep is the position within a ResetFlow.
type ResetStep int

const (
	StepResetStart ResetStep = iota
	StepLinkSent
	StepPasswordReset
)

func (s ResetStep) String() string {
	switch s {
	case StepResetStart:
		return "start"
	case StepLinkSent:
		return "link_sent"
	case StepPasswordReset:
		return "password_reset"
	default:
		return "unknown"
	}
}

const (
	evLinkRequested event = "link_requested"
	evPasswordReset event = "password_reset"
)

// A link may be requested again; a consumed token ends the flow.
var resetTable = table[ResetStep]{
	{StepResetStart, evLinkRequested}: StepLinkSent,
	{StepLinkSent, evLinkRequested}:   StepLinkSent,
	{StepResetStart, evPasswordReset}: StepPasswordReset,
	{StepLinkSent, evPasswordReset}:   StepPasswordReset,
}

// ResetFlow drives password recovery.
type ResetFlow struct {
	api authapi.Client
	m   *machine[ResetStep]
}

// NewResetFlow returns a flow ready to request or consume a link.
func NewResetFlow(api authapi.Client, log logging.Logger) *ResetFlow {
	return &ResetFlow{api: api, m: newMachine("reset", StepResetStart, resetTable, log)}
}

// Step returns the current step.
func (f *ResetFlow) Step() ResetStep { return f.m.current() }

// RequestLink asks the server to email a reset link. The server's message
// is relayed as is; whether the address is registered is never inspected.
func (f *ResetFlow) RequestLink(ctx context.Context, email string) (Outcome, error) {
	t, err := f.m.begin(evLinkRequested, nil)
	if err != nil {
		return Outcome{}, err
	}
	if err := checkVar(email, "required", MsgEnterEmail); err != nil {
		return Outcome{}, f.m.abort(t, err)
	}

	reply, err := f.api.ForgotPassword(ctx, email)
	if err != nil {
		return Outcome{}, f.m.abort(t, err)
	}
	if err := f.m.advance(ctx, t, nil); err != nil {
		return Outcome{}, err
	}
	return Outcome{Message: reply.Message}, nil
}

// ConsumeLink sets a new password using the token from a reset link.
// Local checks run in order: token present, minimum length, confirmation.
func (f *ResetFlow) ConsumeLink(ctx context.Context, token, newPassword, confirm string) (Outcome, error) {
	t, err := f.m.begin(evPasswordReset, nil)
	if err != nil {
		return Outcome{}, err
	}
	if err := checkNewPassword(token, newPassword, confirm); err != nil {
		return Outcome{}, f.m.abort(t, err)
	}

	reply, err := f.api.ResetPassword(ctx, token, newPassword)
	if err != nil {
		return Outcome{}, f.m.abort(t, err)
	}
	if err := f.m.advance(ctx, t, nil); err != nil {
		return Outcome{}, err
	}
	return Outcome{Message: reply.Message, Next: DestinationLogin}, nil
}

func checkNewPassword(token, newPassword, confirm string) error {
	if err := checkVar(token, "required", MsgMissingResetToken); err != nil {
		return err
	}
	if err := checkVar(newPassword, "min="+strconv.Itoa(MinPasswordLength), MsgPasswordTooShort); err != nil {
		return err
	}
	if newPassword != confirm {
		return authapi.Validation(MsgPasswordsDontMatch)
	}
	return nil
}

// Close abandons any in-flight submission.
func (f *ResetFlow) Close() { f.m.close() }
