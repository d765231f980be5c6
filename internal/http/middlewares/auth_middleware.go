package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/vacationhub/internal/actorctx"
	"github.com/geocoder89/vacationhub/internal/auth"
	"github.com/geocoder89/vacationhub/internal/domain/user"
	"github.com/geocoder89/vacationhub/internal/observability"
	"github.com/gin-gonic/gin"
)

// Keep these small interfaces so tests can fake them easily.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

type UserResolver interface {
	Lookup(ctx context.Context, id int64) (user.User, error)
}

type AuthMiddleware struct {
	tokens TokenVerifier
	users  UserResolver
	prom   *observability.Prom
}

func NewAuthMiddleware(tokens TokenVerifier, users UserResolver, prom *observability.Prom) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, prom: prom}
}

// Guard failure codes, all answered with 401.
const (
	CodeMissingToken  = "missing_token"
	CodeInvalidFormat = "invalid_format"
	CodeTokenExpired  = "token_expired"
	CodeInvalidToken  = "invalid_token"
	CodeForbidden     = "forbidden"
)

func (m *AuthMiddleware) unauthorized(c *gin.Context, code, message string) {
	m.prom.IncAuthFailure(code)
	abortWithError(c, http.StatusUnauthorized, code, message)
}

// RequireAuth resolves the bearer token to a live user record and attaches it
// to both the gin context and the request context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.TrimSpace(header) == "" {
			m.unauthorized(c, CodeMissingToken, "Authorization header is required")
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.unauthorized(c, CodeInvalidFormat, "Authorization header must be 'Bearer <token>'")
			return
		}

		userID, err := m.tokens.Verify(parts[1])
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				m.unauthorized(c, CodeTokenExpired, "Access token has expired")
				return
			}
			m.unauthorized(c, CodeInvalidToken, "Invalid access token")
			return
		}

		cctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		u, err := m.users.Lookup(cctx, userID)
		cancel()
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				// token outlived its user
				m.unauthorized(c, CodeInvalidToken, "Invalid access token")
				return
			}
			abortWithError(c, http.StatusInternalServerError, "internal_error", "Could not resolve identity")
			return
		}

		c.Set(CtxUser, u)
		c.Request = c.Request.WithContext(actorctx.WithUser(c.Request.Context(), u))

		c.Next()
	}
}

// Optional helper so handlers don't need to know the magic keys.
func UserFromContext(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return user.User{}, false
	}
	u, ok := v.(user.User)
	return u, ok && u.ID > 0
}
