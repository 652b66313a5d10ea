package api

import (
	"context"
	"net/http"

	"github.com/shaj13/go-guardian/auth"
)

type principalKey struct{}

// WithPrincipal stores the authenticated user on ctx
func WithPrincipal(ctx context.Context, info auth.Info) context.Context {
	return context.WithValue(ctx, principalKey{}, info)
}

// Principal returns the authenticated user stored by the auth middleware
func Principal(ctx context.Context) (auth.Info, bool) {
	info, ok := ctx.Value(principalKey{}).(auth.Info)
	return info, ok && info != nil
}

// UserID returns the id of the authenticated user, or "" for anonymous requests
func UserID(r *http.Request) string {
	if info, ok := Principal(r.Context()); ok {
		return info.ID()
	}
	return ""
}
