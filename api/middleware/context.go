package middleware

import (
	"context"

	pkgAuth "github.com/angelmondragon/stockline-backend/pkg/auth"
	pkgerrors "github.com/angelmondragon/stockline-backend/pkg/errors"
)

type contextKey string

const (
	ctxRequester contextKey = "requester"
	ctxAccessID  contextKey = "access_id"
)

// RequesterFromContext returns the identity resolved by Auth.
func RequesterFromContext(ctx context.Context) (pkgAuth.Requester, bool) {
	if ctx == nil {
		return pkgAuth.Requester{}, false
	}
	req, ok := ctx.Value(ctxRequester).(pkgAuth.Requester)
	return req, ok
}

// MustRequester is RequesterFromContext for handlers mounted behind Auth; a missing
// identity is reported as unauthorized.
func MustRequester(ctx context.Context) (pkgAuth.Requester, error) {
	req, ok := RequesterFromContext(ctx)
	if !ok {
		return pkgAuth.Requester{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return req, nil
}

func UserIDFromContext(ctx context.Context) string {
	req, ok := RequesterFromContext(ctx)
	if !ok {
		return ""
	}
	return req.UserID.String()
}

// AccessIDFromContext returns the session id carried in the access token's jti.
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// WithRequester injects the resolved identity into the context.
func WithRequester(ctx context.Context, req pkgAuth.Requester) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRequester, req)
}

func withAccessID(ctx context.Context, accessID string) context.Context {
	return context.WithValue(ctx, ctxAccessID, accessID)
}
