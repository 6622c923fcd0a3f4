package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/studiokit/backend/internal/model"
)

const (
	identityKey = "auth_identity"
	rawTokenKey = "auth_raw_token"
)

// TokenExtractor pulls a raw token string out of a request. Extraction is
// decoupled from verification so the same middleware serves both cookie
// strategies.
type TokenExtractor func(r *http.Request) (string, bool)

func CookieExtractor(name string) TokenExtractor {
	return func(r *http.Request) (string, bool) {
		cookie, err := r.Cookie(name)
		if err != nil || cookie.Value == "" {
			return "", false
		}
		return cookie.Value, true
	}
}

// RequireAuth extracts a token, verifies it, and attaches the resulting
// identity to the request. The raw token is kept alongside: the refresh
// endpoint needs it for the stored-hash comparison. Routes without this
// middleware are public.
func RequireAuth(extract TokenExtractor, verify func(string) (*model.AuthIdentity, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token, ok := extract(c.Request)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		identity, err := verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Set(rawTokenKey, token)
		c.Next()
	}
}

// RequireRoles gates a route on exact role membership. There is no role
// hierarchy: admin passes only where admin is listed.
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		c.Abort()
	}
}

func GetIdentity(c *gin.Context) *model.AuthIdentity {
	if value, ok := c.Get(identityKey); ok {
		if identity, ok := value.(*model.AuthIdentity); ok {
			return identity
		}
	}
	return nil
}

func GetRawToken(c *gin.Context) string {
	if value, ok := c.Get(rawTokenKey); ok {
		if token, ok := value.(string); ok {
			return token
		}
	}
	return ""
}

// CORSMiddleware whitelists browser origins for the cookie-based session.
// Credentials are always allowed because the tokens ride in cookies, and
// only Content-Type is accepted in preflight: no request carries an
// Authorization header in this scheme.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				c.Header("Access-Control-Allow-Credentials", "true")
				c.Header("Access-Control-Allow-Headers", "Content-Type")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
