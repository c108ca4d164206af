// Package authapi is the client side of the remote authentication service.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) with one method
//     per endpoint: Register, VerifyEmail, RequestLoginOTP, VerifyLoginOTP,
//     LoginWithPassword, ForgotPassword, ResetPassword and FetchProfile.
//  2. A JSON-over-HTTP implementation (see HTTPClient). FetchProfile is the
//     only authenticated call; its bearer token is injected by BearerTransport
//     from a TokenSource, so the client keeps no session state of its own.
//  3. The error taxonomy shared by every flow (see Error and Kind).
//
// # Error Handling
//
// Every failure is an *Error. Match the kind with errors.Is against
// ErrValidation, ErrRequest, ErrNetwork or ErrSessionInvalid; Error.Message is
// the text meant for the user.
package authapi
