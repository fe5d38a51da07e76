package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"vod-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"

const ginKeyClaims = "auth_claims"

// Revoker answers whether a token id has been denylisted before its expiry.
// A nil Revoker disables the check; verification is otherwise stateless.
type Revoker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// bearerToken extracts the raw credential from an Authorization header.
// The value is split on whitespace and the second field is the credential.
func bearerToken(header string) (string, bool) {
	fields := strings.Fields(header)
	if len(fields) < 2 {
		return "", false
	}
	return fields[1], true
}

// gate runs the shared ALLOW/DENY decision. It returns the verified claims
// and false when the request must be denied. The deny response is left to
// the caller: the API gate answers JSON, the UI gate redirects.
func gate(c *gin.Context, m *Manager, rev Revoker) (Claims, bool) {
	raw := c.GetHeader(authorizationHeader)
	if raw == "" {
		return Claims{}, false
	}

	tok, ok := bearerToken(raw)
	if !ok {
		return Claims{}, false
	}

	claims, err := m.Verify(tok, time.Now())
	if err != nil {
		// Expired vs malformed is deliberately not surfaced to the caller.
		logger.FromGin(c).Debug("token rejected", "err", err)
		return Claims{}, false
	}

	if rev != nil {
		revoked, err := rev.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			logger.FromGin(c).Error("revocation check failed", "err", err)
			return Claims{}, false
		}
		if revoked {
			return Claims{}, false
		}
	}

	return claims, true
}

// RequireAuth verifies the bearer token and injects identity into request
// context. Every request is independently verified; decisions are never
// cached across requests.
func RequireAuth(m *Manager, rev Revoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := gate(c, m, rev)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		ctx := WithIdentity(c.Request.Context(), claims.Subject, claims.IsAdmin)
		c.Request = c.Request.WithContext(ctx)
		c.Set(ginKeyClaims, claims)

		c.Next()
	}
}

// RequireAdmin denies callers whose verified claims lack the admin flag.
// Chain it after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c.Request.Context()) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// RequireAdminUI guards browser-facing admin pages. Failing requests are
// redirected to the login surface instead of receiving a JSON error.
func RequireAdminUI(m *Manager, rev Revoker, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := gate(c, m, rev)
		if !ok || !claims.IsAdmin {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}

		ctx := WithIdentity(c.Request.Context(), claims.Subject, claims.IsAdmin)
		c.Request = c.Request.WithContext(ctx)
		c.Set(ginKeyClaims, claims)

		c.Next()
	}
}

// ClaimsFromGin returns the verified claims stored by the gate middleware.
func ClaimsFromGin(c *gin.Context) (Claims, bool) {
	v, ok := c.Get(ginKeyClaims)
	if !ok {
		return Claims{}, false
	}
	claims, ok := v.(Claims)
	return claims, ok
}
