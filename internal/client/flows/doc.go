// Package flows implements the step-sequenced authentication flows:
// registration, login with OTP step-up and password reset.
//
// Each flow is a small state machine driven by an explicit transition table.
// A flow accepts one submission at a time, never moves on a failure, and
// discards responses that arrive after Close.
package flows
