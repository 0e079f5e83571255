package http

import (
	"net/http"
	"strings"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by the auth middleware.
const (
	ContextActorID = "actorID"
	ContextRole    = "role"
)

// Roles carried in the JWT. The dispatch core only distinguishes
// transporters from ordering parties; finer checks run against the order.
const (
	RoleFarmer      = "farmer"
	RoleBuyer       = "buyer"
	RoleTransporter = "transporter"
)

// AuthMiddleware validates HS256 bearer tokens and stores the acting user
// and role on the request context. Tokens are issued by the identity
// collaborator; this service only verifies them.
func AuthMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			rawToken, found := strings.CutPrefix(header, "Bearer ")
			if !found || rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "missing bearer token"))
			}

			token, err := jwt.Parse(rawToken, func(*jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "invalid token"))
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "invalid token claims"))
			}

			subject, err := claims.GetSubject()
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "missing subject"))
			}

			actorID, err := kernel.UUIDFromString(subject)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "invalid subject"))
			}

			role, _ := claims["role"].(string)

			c.Set(ContextActorID, actorID)
			c.Set(ContextRole, role)
			return next(c)
		}
	}
}

// ActorFromContext returns the authenticated user set by AuthMiddleware.
func ActorFromContext(c echo.Context) (kernel.UUID, bool) {
	actorID, ok := c.Get(ContextActorID).(kernel.UUID)
	return actorID, ok
}
