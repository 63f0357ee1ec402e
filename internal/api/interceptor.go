package api

import (
	"fmt"
	"net/http"

	"github.com/marquee-app/marquee/internal/session"
)

const bearerPrefix = "Bearer "

// RequestInterceptor transforms an outgoing request before dispatch.
// Returning an error aborts the request; the error reaches the caller as is.
type RequestInterceptor func(req *http.Request) (*http.Request, error)

// Apply runs interceptors in order and returns the final request
func Apply(req *http.Request, interceptors ...RequestInterceptor) (*http.Request, error) {
	for _, intercept := range interceptors {
		next, err := intercept(req)
		if err != nil {
			return nil, err
		}
		if next != nil {
			req = next
		}
	}
	return req, nil
}

// Bearer attaches the session credential as a bearer Authorization header.
// A State carried by the request context takes precedence over state.
// Without a credential the request is left untouched.
func Bearer(state session.State) RequestInterceptor {
	return func(req *http.Request) (*http.Request, error) {
		current := state
		if scoped, ok := session.FromContext(req.Context()); ok {
			current = scoped
		}
		if current == nil {
			return req, nil
		}
		if token := current.Token(); token != "" {
			req.Header.Set("Authorization", fmt.Sprintf("%s%s", bearerPrefix, token))
		}
		return req, nil
	}
}
