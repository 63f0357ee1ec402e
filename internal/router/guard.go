package router

import "github.com/marquee-app/marquee/internal/session"

// AdminGuard redirects to fallback when the destination requires an admin and
// the session lacks a credential or the admin flag. Both failures redirect the
// same way.
func AdminGuard(state session.State, fallback string) Guard {
	return func(to, _ Location) Decision {
		if !to.Route.Meta.RequiresAdmin {
			return Proceed()
		}
		if state.Token() == "" || !state.IsAdmin() {
			return RedirectTo(fallback)
		}
		return Proceed()
	}
}

// NewDefault returns the application router with the admin guard installed
func NewDefault(state session.State) *Router {
	r, err := New(DefaultRoutes())
	if err != nil {
		panic(err)
	}
	r.BeforeEach(AdminGuard(state, FallbackPath))
	return r
}
