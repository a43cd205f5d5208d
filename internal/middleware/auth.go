package middleware

import (
	"net/http"
	"strings"

	"warescan-service/internal/scope"
	"warescan-service/pkg/jwtutil"
	"warescan-service/pkg/logger"
	"warescan-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware validates the JWT token and stores the acting identity in
// the echo context. Handlers resolve the owner scope from this actor; scope
// never comes from the request body.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromEcho(c)

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			prometheus.RecordAuthError("invalid_header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		actor := scope.Actor{
			UserID:    claims.UserID,
			Username:  claims.Username,
			Role:      claims.Role,
			ManagerID: claims.ManagerID,
		}

		// Refuse early when the actor cannot resolve to a real scope, so
		// an incomplete identity never reaches the engine and leaks data
		// through the sentinel.
		if scope.Resolve(actor) == scope.Unknown {
			log.Warn("Actor does not resolve to a warehouse scope",
				zap.Uint("user_id", actor.UserID),
				zap.String("role", string(actor.Role)))
			prometheus.RecordAuthError("unresolved_scope")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "account is not attached to a warehouse"})
		}

		c.Set("actor", actor)
		return next(c)
	}
}

// ActorFromContext retrieves the acting identity set by AuthMiddleware.
func ActorFromContext(c echo.Context) (scope.Actor, bool) {
	actor, ok := c.Get("actor").(scope.Actor)
	return actor, ok
}
