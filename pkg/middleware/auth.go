// Package middleware holds the fiber middleware guarding mutating routes.
package middleware

import (
	"errors"

	"github.com/amirasaad/bank/pkg/service/auth"
	"github.com/amirasaad/bank/webapi/common"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/golang-jwt/jwt/v5"
)

// OperatorKey is the Locals key holding the authenticated operator name.
const OperatorKey = "operator"

// Protected returns the authentication middleware for the service's strategy.
func Protected(svc *auth.Service) fiber.Handler {
	if svc.Strategy() == auth.StrategyJWT {
		return jwtware.New(jwtware.Config{
			SigningKey:     jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: svc.SigningKey()},
			ContextKey:     "token",
			ErrorHandler:   jwtError,
			SuccessHandler: jwtSubject,
		})
	}
	return basicauth.New(basicauth.Config{
		Realm:           "bank",
		Authorizer:      svc.CheckCredentials,
		ContextUsername: OperatorKey,
		Unauthorized: func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="bank"`)
			return common.ProblemDetailsJSON(c, "Unauthorized", auth.ErrInvalidCredentials, fiber.StatusUnauthorized)
		},
	})
}

func jwtSubject(c *fiber.Ctx) error {
	if token, ok := c.Locals("token").(*jwt.Token); ok {
		if sub, err := token.Claims.GetSubject(); err == nil {
			c.Locals(OperatorKey, sub)
		}
	}
	return c.Next()
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == jwtware.ErrJWTMissingOrMalformed.Error() {
		return common.ProblemDetailsJSON(c, "Bad Request", errors.New("missing or malformed JWT"), fiber.StatusBadRequest)
	}
	return common.ProblemDetailsJSON(c, "Unauthorized", errors.New("invalid or expired JWT"), fiber.StatusUnauthorized)
}
