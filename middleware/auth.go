package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kannan-2002/Assessment-Management-System/services"
	"github.com/kannan-2002/Assessment-Management-System/utils"
)

// ActorContextKey is the gin context key under which the authenticated
// actor is stored by Auth.
const ActorContextKey = "actor"

// Auth is a Gin middleware that validates the Bearer token on incoming
// requests and stores the resulting actor in the request context.
// Requests without a valid token are rejected with 401.
func Auth(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			utils.SendJSONError(c, http.StatusUnauthorized, "Missing Authorization header", nil)
			c.Abort()
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			utils.SendJSONError(c, http.StatusUnauthorized, "Invalid Authorization header format", nil)
			c.Abort()
			return
		}

		actor, err := authService.ParseToken(token)
		if err != nil {
			utils.SendJSONError(c, http.StatusUnauthorized, "Invalid or expired token", err)
			c.Abort()
			return
		}

		c.Set(ActorContextKey, actor)
		c.Next()
	}
}
