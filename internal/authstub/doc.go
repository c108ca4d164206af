// Package authstub is an in-memory implementation of the remote
// authentication service used for local development and end-to-end tests.
//
// It speaks the same JSON contract as the real service: registration with an
// emailed code, login gated by an OTP challenge before the password, reset
// links carrying single-use tokens, and a bearer-protected profile endpoint.
// It is not meant to be deployed.
package authstub
