// Package auth carries the validated request identity through the request
// context. Core operations receive explicit actor IDs; nothing reads
// ambient global state.
package auth

import "context"

type contextKey struct{}

// Identity is the authenticated actor attached to a request.
type Identity struct {
	ActorID   int64
	Role      string
	AdminRole string // super or security, set only for admin sessions
	SessionID int64
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// ActorID returns the authenticated actor's ID, or 0 when unauthenticated.
func ActorID(ctx context.Context) int64 {
	id, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return id.ActorID
}

// IsSuperAdmin reports whether the request is from the super admin.
func IsSuperAdmin(ctx context.Context) bool {
	id, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return id.AdminRole == "super"
}
