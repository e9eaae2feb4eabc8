package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/gamix-app/auth-service/internal/logging"
	"github.com/gamix-app/auth-service/internal/server/auth"
	"github.com/gin-gonic/gin"
)

// claimsKey is the gin context key under which verified claims are stored.
const claimsKey = "authClaims"

// RequestLogger logs one line per request with method, path, status, and
// latency.
func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// RequireAuth verifies the bearer token and stores its claims on the
// context. Tokens carrying a route allowlist (recovery tokens) are only
// accepted on listed route/method pairs; full-session tokens have an empty
// allowlist and pass everywhere.
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "UNAUTHORIZED"})
			return
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			status, code := statusFor(err)
			c.AbortWithStatusJSON(status, errorBody{Error: code})
			return
		}

		if len(claims.ValidRoutes) > 0 && !routeAllowed(claims.ValidRoutes, c.FullPath(), c.Request.Method) {
			c.AbortWithStatusJSON(http.StatusForbidden, errorBody{Error: "ROUTE_NOT_ALLOWED"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func routeAllowed(routes []auth.RouteClaim, path, method string) bool {
	for _, r := range routes {
		if r.Route == path && r.Method == method {
			return true
		}
	}
	return false
}

// claimsFrom retrieves the verified claims stored by RequireAuth.
func claimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
