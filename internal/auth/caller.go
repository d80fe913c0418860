// Package auth carries the caller's identity and admin capability.
//
// Services take a Caller argument instead of reading session state; the HTTP
// layer builds it once per request from a verified bearer token.
package auth

import "context"

// Caller is the authenticated principal of one request.
type Caller struct {
	UserID  int64
	IsAdmin bool
}

// CanActFor reports whether the caller may read or spend userID's points.
func (c Caller) CanActFor(userID int64) bool {
	return c.IsAdmin || c.UserID == userID
}

type callerKey struct{}

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}
