package session

import "context"

type ctxKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the Store attached to ctx, if any.
func FromContext(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Store)
	return s, ok && s != nil
}

// TokenFromContext returns the bearer token of the session in ctx, or "".
func TokenFromContext(ctx context.Context) string {
	s, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	tok, _ := s.Token(ctx)
	return tok
}
