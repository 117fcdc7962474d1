package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mvjl000/socnet-backend/src/apperror"
	"github.com/mvjl000/socnet-backend/src/lib"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const userLocalsKey = "user"

// AuthUser is the identity a verified token carries.
type AuthUser struct {
	UserId   primitive.ObjectID
	Username string
}

var errAuthFailed = apperror.New(apperror.Unauthorized, "Authentication failed!")

// ProtectRoute checks the bearer token and attaches the caller's identity to
// the request context. It never reads the database.
func ProtectRoute(tokens *lib.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		// expected format: "Bearer <token>"
		authHeader := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return errAuthFailed
		}

		claims, err := tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			return errAuthFailed
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserId)
		if err != nil {
			return errAuthFailed
		}

		c.Locals(userLocalsKey, AuthUser{UserId: userID, Username: claims.Username})
		return c.Next()
	}
}

// CurrentUser returns the identity set by ProtectRoute.
func CurrentUser(c *fiber.Ctx) (AuthUser, bool) {
	user, ok := c.Locals(userLocalsKey).(AuthUser)
	return user, ok
}
