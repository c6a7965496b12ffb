package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// ActorKey is the echo context key holding the authenticated user id.
const ActorKey = "actor_id"

var errInvalidToken = errors.New("invalid token")

// Auth verifies an HS256 bearer token and stores its subject as the actor.
func Auth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authorization header required"})
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization header format"})
			}

			actor, err := subjectOf(strings.TrimSpace(parts[1]), secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}
			c.Set(ActorKey, actor)
			return next(c)
		}
	}
}

// ActorFrom returns the actor set by Auth, or "" outside authenticated routes.
func ActorFrom(c echo.Context) string {
	s, _ := c.Get(ActorKey).(string)
	return s
}

func subjectOf(raw string, secret []byte) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(sub) == "" {
		return "", errInvalidToken
	}
	return sub, nil
}

// SignToken issues an HS256 token for actor; used by tooling and tests.
func SignToken(secret []byte, actor string, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = actor
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
