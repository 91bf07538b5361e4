// Package reqmeta carries per-request caller metadata through the context so
// that business logic can correlate log lines with the originating request.
// Its absence never changes control flow.
package reqmeta

import "context"

// Meta describes the inbound request a unit of work belongs to.
type Meta struct {
	Route     string
	Method    string
	UserAgent string
	IP        string
}

type ctxKey struct{}

// NewContext returns a child context carrying m.
func NewContext(ctx context.Context, m Meta) context.Context {
	return context.WithValue(ctx, ctxKey{}, m)
}

// FromContext extracts the request metadata, if any.
func FromContext(ctx context.Context) (Meta, bool) {
	m, ok := ctx.Value(ctxKey{}).(Meta)
	return m, ok
}

// Args renders the metadata as logger key–value pairs. Returns nil when the
// context carries none, so it can be spread unconditionally into log calls.
func Args(ctx context.Context) []any {
	m, ok := FromContext(ctx)
	if !ok {
		return nil
	}
	return []any{
		"route", m.Route,
		"method", m.Method,
		"user_agent", m.UserAgent,
		"ip", m.IP,
	}
}
