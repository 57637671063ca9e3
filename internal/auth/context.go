package auth

import "context"

type contextKey struct{}

// WithCaller attaches the authenticated caller to a context.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, contextKey{}, caller)
}

// CallerFromContext extracts the authenticated caller from a context.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(contextKey{}).(Caller)

	return caller, ok
}
