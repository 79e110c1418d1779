package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	AccountIDKey contextKey = "account_id"
	EmailKey     contextKey = "account_email"
)

// SessionMiddleware returns middleware that verifies the Bearer token on each
// request and stores the account identity on the request context. Requests
// without a valid token are rejected with 401.
func SessionMiddleware(issuer *TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims, err := issuer.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			// Rate limiter keys on this echo context value
			c.Set("account_id", claims.Subject)

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, AccountIDKey, claims.Subject)
			ctx = context.WithValue(ctx, EmailKey, claims.Email)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// AccountIDFromContext returns the signed-in account id, or "" when the
// request is unauthenticated.
func AccountIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(AccountIDKey).(string)
	return id
}

// EmailFromContext returns the signed-in account email, or "".
func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}
