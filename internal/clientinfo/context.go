package clientinfo

import "context"

type contextKey struct{}

// WithContext attaches ClientInfo to a context.
func WithContext(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, contextKey{}, info)
}

// FromContext extracts ClientInfo from a context, returning a zero value
// when none was attached.
func FromContext(ctx context.Context) ClientInfo {
	if info, ok := ctx.Value(contextKey{}).(ClientInfo); ok {
		return info
	}

	return ClientInfo{}
}
