package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/authflow/internal/client/authapi"
	"github.com/dmitrijs2005/authflow/internal/client/flows"
	"github.com/dmitrijs2005/authflow/internal/client/guard"
	"github.com/dmitrijs2005/authflow/internal/client/routes"
	"github.com/dmitrijs2005/authflow/internal/shared"
)

// In-view commands.
const (
	cmdBack   = ":back"
	cmdCancel = ":cancel"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

func (a *App) ask(prompt string) (string, error) {
	s, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if s == cmdCancel {
		return "", errCancelled
	}
	return s, nil
}

// askSecret reads a password. The caller wipes the result.
func (a *App) askSecret(prompt string) ([]byte, error) {
	pw, err := getPassword(a.reader, prompt, a.out)
	if err != nil {
		return nil, err
	}
	if string(pw) == cmdCancel {
		shared.WipeByteArray(pw)
		return nil, errCancelled
	}
	return pw, nil
}

func (a *App) destination(d flows.Destination) string {
	switch d {
	case flows.DestinationLogin:
		return a.routes.MustPath(routes.Login)
	case flows.DestinationDashboard:
		return a.routes.MustPath(routes.Dashboard)
	default:
		return ""
	}
}

func (a *App) homeView(context.Context) (string, error) {
	fmt.Fprintln(a.out, "== authflow ==")
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "You are signed in. Try: dashboard, logout")
	} else {
		fmt.Fprintln(a.out, "Welcome! Try: register, login, forgot")
	}
	return "", nil
}

func (a *App) registerView(ctx context.Context) (string, error) {
	f := flows.NewRegistrationFlow(a.api, a.log)
	defer f.Close()

	fmt.Fprintln(a.out, "== Create account == (:cancel to leave)")
	for {
		switch f.Step() {
		case flows.StepCredentials:
			out, ok, err := a.submitCredentials(ctx, f)
			if err != nil {
				return "", err
			}
			if !ok {
				continue
			}
			a.notify.Notify(LevelSuccess, out.Message)
			fmt.Fprintf(a.out, "Enter the code sent to %s (:back to edit your details)\n", f.Email())

		case flows.StepEmailVerification:
			code, err := a.ask("Verification code")
			if err != nil {
				return "", err
			}
			if code == cmdBack {
				if err := f.GoBackToCredentials(); err != nil {
					a.notify.Fail(err)
				}
				continue
			}
			out, err := f.SubmitVerification(ctx, code)
			if err != nil {
				a.notify.Fail(err)
				continue
			}
			a.notify.Notify(LevelSuccess, out.Message)
			return a.destination(out.Next), nil

		default:
			return "", nil
		}
	}
}

// submitCredentials prompts for the sign-up form and submits it. ok is false
// when the submission failed; the failure has already been reported.
func (a *App) submitCredentials(ctx context.Context, f *flows.RegistrationFlow) (out flows.Outcome, ok bool, err error) {
	var c authapi.Credentials
	if c.FirstName, err = a.ask("First name"); err != nil {
		return out, false, err
	}
	if c.LastName, err = a.ask("Last name"); err != nil {
		return out, false, err
	}
	if c.Email, err = a.ask("Email"); err != nil {
		return out, false, err
	}
	pw, err := a.askSecret("Password")
	if err != nil {
		return out, false, err
	}
	defer shared.WipeByteArray(pw)
	c.Password = string(pw)

	out, err = f.SubmitCredentials(ctx, c)
	if err != nil {
		a.notify.Fail(err)
		return out, false, nil
	}
	return out, true, nil
}

func (a *App) loginView(ctx context.Context) (string, error) {
	f := flows.NewLoginFlow(a.api, a.store, a.log)
	defer f.Close()

	fmt.Fprintln(a.out, "== Sign in == (:cancel to leave)")
	for {
		var (
			out flows.Outcome
			err error
		)
		switch f.Step() {
		case flows.StepIdentifier:
			id, aerr := a.ask("Email or username")
			if aerr != nil {
				return "", aerr
			}
			out, err = f.SubmitIdentifier(ctx, id)

		case flows.StepOTPChallenge:
			code, aerr := a.ask(fmt.Sprintf("OTP sent for %s (:back to change)", f.Identifier()))
			if aerr != nil {
				return "", aerr
			}
			if code == cmdBack {
				if err := f.GoBack(); err != nil {
					a.notify.Fail(err)
				}
				continue
			}
			out, err = f.SubmitOTP(ctx, code)

		case flows.StepPasswordEntry:
			pw, aerr := a.askSecret("Password")
			if aerr != nil {
				return "", aerr
			}
			out, err = f.SubmitPassword(ctx, string(pw))
			shared.WipeByteArray(pw)

		default:
			return "", nil
		}

		if err != nil {
			a.notify.Fail(err)
			continue
		}
		if out.Message != "" {
			a.notify.Notify(LevelSuccess, out.Message)
		}
		if out.Next != flows.DestinationNone {
			return a.destination(out.Next), nil
		}
	}
}

func (a *App) forgotView(ctx context.Context) (string, error) {
	f := flows.NewResetFlow(a.api, a.log)
	defer f.Close()

	fmt.Fprintln(a.out, "== Forgot password == (:cancel to leave)")
	for {
		email, err := a.ask("Email address")
		if err != nil {
			return "", err
		}
		out, err := f.RequestLink(ctx, email)
		if err != nil {
			a.notify.Fail(err)
			continue
		}
		a.notify.Notify(LevelSuccess, out.Message)
		return "", nil
	}
}

func (a *App) resetView(ctx context.Context, token string) (string, error) {
	f := flows.NewResetFlow(a.api, a.log)
	defer f.Close()

	fmt.Fprintln(a.out, "== Reset password == (:cancel to leave)")
	for {
		pw, err := a.askSecret("New password")
		if err != nil {
			return "", err
		}
		confirm, err := a.askSecret("Confirm password")
		if err != nil {
			shared.WipeByteArray(pw)
			return "", err
		}
		out, err := f.ConsumeLink(ctx, token, string(pw), string(confirm))
		shared.WipeByteArray(pw)
		shared.WipeByteArray(confirm)
		if err != nil {
			a.notify.Fail(err)
			continue
		}
		a.notify.Notify(LevelSuccess, out.Message)
		return a.destination(out.Next), nil
	}
}

func (a *App) dashboardView(ctx context.Context) (string, error) {
	p, d, err := a.guard.VerifySession(ctx)
	if err != nil && d == guard.Allow {
		return "", err
	}
	if err != nil {
		a.notify.Fail(err)
		return a.routes.MustPath(routes.Login), nil
	}

	verified := "no"
	if p.IsVerified {
		verified = "yes"
	}
	fmt.Fprintf(a.out, "== Dashboard ==\nWelcome, %s!\n", p.FirstName)
	fmt.Fprintf(a.out, "  Name:         %s %s\n", p.FirstName, p.LastName)
	fmt.Fprintf(a.out, "  Email:        %s\n", p.Email)
	fmt.Fprintf(a.out, "  Username:     %s\n", p.Username)
	fmt.Fprintf(a.out, "  Role:         %s\n", p.Role)
	fmt.Fprintf(a.out, "  Verified:     %s\n", verified)
	fmt.Fprintf(a.out, "  Member since: %s\n", p.CreatedAt.Format("2006-01-02"))
	fmt.Fprintln(a.out, "Type 'logout' to sign out.")
	return "", nil
}
