package auth

import (
	"context"

	"github.com/Jaypurnwasi/RestaurantApp/apperr"
	"github.com/Jaypurnwasi/RestaurantApp/models"
)

// Identity is the caller derived from the session cookie
type Identity struct {
	UserID string
	Name   string
	Email  string
	Role   models.UserRole
}

// Session lets operations deep in the call chain issue or revoke the cookie
type Session interface {
	SetToken(token string)
	ClearToken()
}

type identityKey struct{}
type sessionKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}

// Require returns the caller or UNAUTHENTICATED
func Require(ctx context.Context) (*Identity, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return nil, apperr.Unauthenticated("Unauthenticated")
	}
	return id, nil
}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SetToken is a no-op when the request has no session (websocket, tests)
func SetToken(ctx context.Context, token string) {
	if s, ok := ctx.Value(sessionKey{}).(Session); ok {
		s.SetToken(token)
	}
}

func ClearToken(ctx context.Context) {
	if s, ok := ctx.Value(sessionKey{}).(Session); ok {
		s.ClearToken()
	}
}
