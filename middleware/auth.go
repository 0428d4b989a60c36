package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Jaypurnwasi/RestaurantApp/apperr"
	"github.com/Jaypurnwasi/RestaurantApp/auth"
)

// CookieName is the session cookie carrying the JWT
const CookieName = "token"

// Identifier resolves a raw token into the caller
type Identifier interface {
	Identify(ctx context.Context, token string) (id *auth.Identity, stale bool)
}

type CookieOptions struct {
	TTL    time.Duration
	Secure bool
}

// ginSession writes the session cookie on the current response
type ginSession struct {
	c    *gin.Context
	opts CookieOptions
}

func (s ginSession) SetToken(token string) {
	s.write(token, int(s.opts.TTL.Seconds()))
}

func (s ginSession) ClearToken() {
	s.write("", -1)
}

func (s ginSession) write(value string, maxAge int) {
	s.c.SetSameSite(http.SameSiteStrictMode)
	s.c.SetCookie(CookieName, value, maxAge, "/", "", s.opts.Secure, true)
}

func tokenFrom(c *gin.Context) string {
	if tok, err := c.Cookie(CookieName); err == nil && tok != "" {
		return tok
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// Identity derives the caller from the session cookie on every request. It
// never rejects: anonymous callers simply carry no identity.
func Identity(users Identifier, opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := ginSession{c: c, opts: opts}
		ctx := auth.WithSession(c.Request.Context(), sess)

		if tok := tokenFrom(c); tok != "" {
			id, stale := users.Identify(ctx, tok)
			if stale {
				sess.ClearToken()
			}
			if id != nil {
				ctx = auth.WithIdentity(ctx, id)
				c.Set("userID", id.UserID)
				c.Set("role", string(id.Role))
			}
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Authorized aborts unless the caller may perform action
func Authorized(action auth.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := auth.Authorize(c.Request.Context(), action); err != nil {
			e := apperr.From(err)
			c.AbortWithStatusJSON(e.Status, gin.H{"error": e.Message, "code": e.Code})
			return
		}
		c.Next()
	}
}

// GetUserID extracts caller user ID from context
func GetUserID(c *gin.Context) string {
	return c.GetString("userID")
}
