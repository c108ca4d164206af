package authapi

import "net/http"

// TokenSource yields the current session token, if any.
type TokenSource interface {
	BearerToken() (string, bool)
}

// BearerTransport adds an Authorization header carrying the token from Source.
// The token is read per request, so a cleared session stops being attached
// immediately.
type BearerTransport struct {
	Base   http.RoundTripper
	Source TokenSource
}

// RoundTrip implements http.RoundTripper.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Source != nil {
		if token, ok := t.Source.BearerToken(); ok && token != "" {
			// Clone the request to avoid mutating the caller's copy.
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
