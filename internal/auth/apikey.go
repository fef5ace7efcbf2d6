package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/sentinela/internal/config"
	"github.com/your-org/sentinela/internal/models"
)

const (
	headerName   = "X-API-Key"
	principalKey = "principal"
)

// Principal is the authenticated caller: a named API key and its role.
type Principal struct {
	Name string
	Role models.Role
}

// APIKeyMiddleware validates the API key from the X-API-Key header and
// attaches the matching principal to the request context. If no keys are
// configured, authentication is disabled and callers get the least
// privileged role.
func APIKeyMiddleware(keys []config.APIKeyRef) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(keys) == 0 {
			c.Set(principalKey, Principal{Name: "anonymous", Role: models.RoleUsuario})
			c.Next()
			return
		}

		provided := c.GetHeader(headerName)
		if provided == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing API key",
			})
			return
		}

		for _, ref := range keys {
			if subtle.ConstantTimeCompare([]byte(provided), []byte(ref.Key)) == 1 {
				c.Set(principalKey, Principal{Name: ref.Name, Role: models.ParseRole(ref.Role)})
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "invalid API key",
		})
	}
}

// CurrentPrincipal returns the caller attached by APIKeyMiddleware.
func CurrentPrincipal(c *gin.Context) Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(Principal); ok {
			return p
		}
	}
	return Principal{Name: "anonymous", Role: models.RoleUsuario}
}

// RequireConfidentialAccess rejects callers whose role may not view
// confidential records.
func RequireConfidentialAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentPrincipal(c).Role.CanViewConfidential() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "insufficient role",
			})
			return
		}
		c.Next()
	}
}
