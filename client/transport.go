package client

import "net/http"

// transport is the bearer-injecting http.RoundTripper behind every Client
// request. It does two jobs:
//
//  1. Attach "Authorization: Bearer <token>" when the session store holds
//     a token.
//  2. On a 401 response, clear the session and publish
//     EventSessionExpired — but only if this request had actually carried
//     a token.
//
// The asymmetry in (2) is deliberate and load-bearing: a 401 with a token
// attached means "your session expired", so the stale session must go. A
// 401 without one means the caller hit an auth-required endpoint while
// already logged out; clearing an already-empty session and signalling
// expiry would throw logged-out callers into a logout loop.
type transport struct {
	base  http.RoundTripper
	store *SessionStore
	bus   *Bus
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.store.Token()
	if token != "" {
		// Per RoundTripper contract the request must not be mutated.
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		t.store.Clear()
		t.bus.Publish(EventSessionExpired)
	}
	return resp, nil
}
