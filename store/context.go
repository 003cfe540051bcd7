package store

import "context"

// contextKey is private so that only this package can install a
// Handle in a Context.
type contextKey struct{}

// NoHandleError occurs when a Handle is looked up in a Context that
// doesn't carry one.
type NoHandleError struct{}

func (e *NoHandleError) Error() string {
	return "no shared state handle in context"
}

// NewContext returns a Context carrying the given shared Handle.
func NewContext(ctx context.Context, h *Handle) context.Context {
	return context.WithValue(ctx, contextKey{}, h)
}

// FromContext looks up the shared Handle installed by NewContext.
func FromContext(ctx context.Context) (*Handle, error) {
	h, is := ctx.Value(contextKey{}).(*Handle)
	if !is {
		return nil, &NoHandleError{}
	}
	return h, nil
}
