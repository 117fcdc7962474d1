package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mvjl000/socnet-backend/src/apperror"
	"github.com/mvjl000/socnet-backend/src/lib"
	"github.com/mvjl000/socnet-backend/src/services"
	"go.uber.org/zap"
)

var errUserNotFound = apperror.New(apperror.NotFound, "Could not find user for provided id.")

type UserController struct {
	auth     *services.AuthService
	users    *services.UserService
	uploader *lib.Uploader
	logger   *zap.Logger
}

func NewUserController(auth *services.AuthService, users *services.UserService, uploader *lib.Uploader, logger *zap.Logger) *UserController {
	return &UserController{auth: auth, users: users, uploader: uploader, logger: logger}
}

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type signupRequest struct {
	Username       string `json:"username" form:"username" validate:"required,min=1,max=50"`
	Password       string `json:"password" form:"password" validate:"required,min=6"`
	RepeatPassword string `json:"repeatPassword" form:"repeatPassword" validate:"required,eqfield=Password"`
}

type searchRequest struct {
	SearchValue string `json:"searchValue" form:"searchValue" validate:"max=50"`
}

type updateDescRequest struct {
	Description string `json:"description" form:"description" validate:"max=300"`
}

// Login authenticates a user by username and password and returns a token
func (uc *UserController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := lib.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := uc.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"username": res.Username,
		"userId":   res.UserId,
		"token":    res.Token,
	})
}

// Signup registers a user. The body may be json or multipart with an
// optional "image" file.
func (uc *UserController) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := lib.Validate(&req); err != nil {
		return err
	}

	image := ""
	if form, err := c.MultipartForm(); err == nil {
		if files := form.File["image"]; len(files) > 0 {
			image, err = uc.uploader.SaveImage(c, files[0])
			if err != nil {
				return err
			}
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := uc.auth.Signup(ctx, req.Username, req.Password, image)
	if err != nil {
		if image != "" {
			if rmErr := uc.uploader.Remove(image); rmErr != nil {
				uc.logger.Warn("remove orphaned upload", zap.String("path", image), zap.Error(rmErr))
			}
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"username": res.Username,
		"userId":   res.UserId,
		"token":    res.Token,
	})
}

// GetUserData returns the public profile of the named user
func (uc *UserController) GetUserData(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := uc.users.GetUserData(ctx, c.Params("uname"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"description": user.Description,
		"image":       user.Image,
	})
}

func (uc *UserController) SearchUsers(c *fiber.Ctx) error {
	var req searchRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := uc.auth.SearchUsers(ctx, strings.TrimSpace(req.SearchValue))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"users": users})
}

// UpdateDescription changes the caller's profile description
func (uc *UserController) UpdateDescription(c *fiber.Ctx) error {
	user, err := authUser(c)
	if err != nil {
		return err
	}

	targetID, ok := lib.ParamObjectID(c, "uid")
	if !ok {
		return errUserNotFound
	}

	var req updateDescRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}
	req.Description = strings.TrimSpace(req.Description)
	if err := lib.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := uc.users.UpdateDescription(ctx, user.UserId, targetID, req.Description); err != nil {
		return err
	}
	return c.JSON(lib.MessageResponse("Description updated."))
}

// DeletePosts removes every post of the caller but keeps the account
func (uc *UserController) DeletePosts(c *fiber.Ctx) error {
	user, err := authUser(c)
	if err != nil {
		return err
	}

	targetID, ok := lib.ParamObjectID(c, "uid")
	if !ok {
		return errUserNotFound
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := uc.users.ClearPosts(ctx, user.UserId, targetID); err != nil {
		return err
	}
	return c.JSON(lib.MessageResponse("Posts deleted."))
}

// DeleteUser removes the caller's account and all of its posts
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	user, err := authUser(c)
	if err != nil {
		return err
	}

	targetID, ok := lib.ParamObjectID(c, "uid")
	if !ok {
		return errUserNotFound
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := uc.users.DeleteUser(ctx, user.UserId, targetID); err != nil {
		return err
	}
	return c.JSON(lib.MessageResponse("User deleted."))
}
