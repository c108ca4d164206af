// Package cli provides the interactive authflow terminal client.
//
// It wires configuration, the session store, the API client and an
// interactive REPL. Each page of the application (home, register, login,
// forgot and reset password, dashboard) is a view that drives the matching
// flow prompt by prompt. Navigation goes through the route table and the
// route guard, so protected pages are only shown to a valid session.
//
// Inside a view, ":cancel" abandons the page and ":back" returns from the
// OTP prompt to the previous step.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
