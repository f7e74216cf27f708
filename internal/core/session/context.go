package session

import "context"

type contextKey struct{}

// WithStore binds the session store to a request context so that outgoing
// backend calls can attach the bearer credential without per-call opt-in.
func WithStore(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, contextKey{}, store)
}

// FromContext returns the store bound to ctx, if any.
func FromContext(ctx context.Context) (*Store, bool) {
	store, ok := ctx.Value(contextKey{}).(*Store)
	return store, ok
}

// TokenFromContext returns the current bearer credential of the session
// bound to ctx, or "" when there is none.
func TokenFromContext(ctx context.Context) string {
	store, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return store.Snapshot().Token
}
