package router

import (
	"context"
	"net/http"
	"strings"
)

const authSessionKey = "router.auth.session"

// BearerValidator resolves a bearer token to the caller's session, or fails.
type BearerValidator func(ctx context.Context, token string) (any, error)

// BearerToken returns the token from an "Authorization: Bearer <token>" header, or "".
func BearerToken(c *RequestContext) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireBearer rejects the request with 401 unless validate accepts its bearer token.
// The accepted session is available to the handler through AuthSession.
func RequireBearer(validate BearerValidator) MiddlewareFunc {
	return func(c *RequestContext) {
		token := BearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, UnauthorizedResult("Authentication required").ToJSON())
			return
		}

		session, err := validate(c.Request.Context(), token)
		if err != nil {
			GetLogger(c).Warn("Bearer token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, UnauthorizedResult("Session expired or invalid").ToJSON())
			return
		}

		c.Set(authSessionKey, session)
		c.Next()
	}
}

func AuthSession(c *RequestContext) (any, bool) {
	return c.Get(authSessionKey)
}
