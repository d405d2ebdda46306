package auth

import (
	authsvc "github.com/amirasaad/bank/pkg/service/auth"
	"github.com/amirasaad/bank/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers /auth/login. Under the basic strategy there is no token
// to hand out, so the route is not mounted.
func Routes(app fiber.Router, authSvc *authsvc.Service) {
	if authSvc.Strategy() != authsvc.StrategyJWT {
		return
	}
	app.Post("/auth/login", Login(authSvc))
}

// Login exchanges operator credentials for a JWT.
// @Summary Operator login
// @Description Authenticate the operator and return a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginInput true "Login credentials"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 429 {object} common.ProblemDetails
// @Router /auth/login [post]
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginInput](c)
		if input == nil {
			return err
		}
		token, err := authSvc.Login(c.UserContext(), input.Username, input.Password)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid username or password", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Success login", fiber.Map{"token": token})
	}
}
