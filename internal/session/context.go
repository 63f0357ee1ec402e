package session

import "context"

type stateKey struct{}

// WithState returns a context carrying state. Request-scoped shells use it so
// a shared client can read the session of the request it is sending for.
func WithState(ctx context.Context, state State) context.Context {
	return context.WithValue(ctx, stateKey{}, state)
}

// FromContext returns the state stored by WithState
func FromContext(ctx context.Context) (State, bool) {
	state, ok := ctx.Value(stateKey{}).(State)
	return state, ok
}
