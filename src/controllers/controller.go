package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mvjl000/socnet-backend/src/apperror"
	"github.com/mvjl000/socnet-backend/src/lib"
	"github.com/mvjl000/socnet-backend/src/middleware"
)

const requestTimeout = 10 * time.Second

var (
	errInvalidBody = apperror.New(apperror.Validation, "Invalid inputs passed, please check your data.")
	errNoAuthUser  = apperror.New(apperror.Unauthorized, "Authentication failed!")
)

// requestContext bounds every store call made for one request.
func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), requestTimeout)
}

// parseBody decodes the json or form body into dst and validates it.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return errInvalidBody
	}
	return lib.Validate(dst)
}

func authUser(c *fiber.Ctx) (middleware.AuthUser, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.AuthUser{}, errNoAuthUser
	}
	return user, nil
}
