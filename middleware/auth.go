package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DerickDutraDev/store-GBS/auth"
	"github.com/DerickDutraDev/store-GBS/session"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// TokenVerifier is satisfied by *auth.Provider.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*auth.Claims, error)
}

// SessionResolver is satisfied by *session.Registry.
type SessionResolver interface {
	Resolve(ctx context.Context, claims *auth.Claims) (session.Session, error)
}

// LoadSession attaches the caller's session to the request context when the
// request carries a valid token, in the Authorization header or the session
// cookie. Requests without one pass through anonymous.
func LoadSession(verifier TokenVerifier, resolver SessionResolver, cookieName string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			raw, _ = c.Cookie(cookieName)
		}
		if raw == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		claims, err := verifier.Verify(ctx, raw)
		if err != nil {
			log.Debug("rejected session token", zap.Error(err))
			c.Next()
			return
		}

		s, err := resolver.Resolve(ctx, claims)
		if err != nil {
			// still signed in, but admin rights are not granted on a failed lookup
			log.Warn("resolve session failed", zap.String("user_id", claims.Subject), zap.Error(err))
			s = session.Session{UserID: claims.Subject, Email: claims.Email, Name: claims.Name}
		}

		c.Request = c.Request.WithContext(session.WithSession(ctx, &s))
		c.Set("user_id", s.UserID)
		c.Next()
	}
}

// RequireUser sends anonymous callers to the login page.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := session.From(c.Request.Context()); !ok {
			deny(c, LoginPath, http.StatusUnauthorized, "Unauthorized")
			return
		}
		c.Next()
	}
}

// RequireAdmin sends anonymous callers to the login page and signed-in
// shoppers without the admin flag to the home page.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session.From(c.Request.Context())
		if !ok {
			deny(c, LoginPath, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !s.IsAdmin {
			deny(c, HomePath, http.StatusForbidden, "Forbidden")
			return
		}
		c.Next()
	}
}

// deny redirects page loads and answers other methods with status, since a
// redirected POST would be replayed as a GET against the target page.
func deny(c *gin.Context, location string, status int, msg string) {
	if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
		c.Redirect(http.StatusFound, location)
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "redirect": location})
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
