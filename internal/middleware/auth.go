package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orlogbook/orlog-api/internal/handler"
	"github.com/orlogbook/orlog-api/internal/model"
)

const ContextPrincipal = "principal"

// AuthService verifies a bearer credential and resolves it into a Principal.
type AuthService interface {
	ValidateToken(ctx context.Context, token string) (*model.Principal, error)
}

type AuthMiddleware struct {
	auth AuthService
}

func NewAuthMiddleware(auth AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Authenticate extracts the bearer token, validates it, and attaches the
// resulting principal to the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				handler.NewErrorResponse("authentication required"))
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				handler.NewErrorResponse("invalid authorization header"))
			return
		}

		principal, err := m.auth.ValidateToken(c.Request.Context(), token)
		if err != nil {
			handler.AbortWithError(c, err)
			return
		}

		c.Set(ContextPrincipal, principal)
		c.Next()
	}
}

// RequireRole allows only the listed roles past. It must run after
// Authenticate.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				handler.NewErrorResponse("authentication required"))
			return
		}

		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		names := make([]string, 0, len(roles))
		for _, role := range roles {
			names = append(names, role.String())
		}
		c.AbortWithStatusJSON(http.StatusForbidden,
			handler.NewErrorResponse("access denied, required role: "+strings.Join(names, " or ")))
	}
}

func PrincipalFromContext(c *gin.Context) (*model.Principal, bool) {
	v, exists := c.Get(ContextPrincipal)
	if !exists {
		return nil, false
	}
	principal, ok := v.(*model.Principal)
	return principal, ok
}
