// Package app assembles the Fiber application: middleware, routes and the
// central error handler.
package app

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/mvjl000/socnet-backend/src/controllers"
	"github.com/mvjl000/socnet-backend/src/lib"
	"github.com/mvjl000/socnet-backend/src/middleware"
	"github.com/mvjl000/socnet-backend/src/routes"
	"github.com/mvjl000/socnet-backend/src/services"
	"go.uber.org/zap"
)

type Deps struct {
	Services    *services.Services
	Tokens      *lib.TokenIssuer
	Uploader    *lib.Uploader
	Logger      *zap.Logger
	CORSOrigins string
}

func New(deps Deps) *fiber.App {
	errHandler := middleware.ErrorHandler(deps.Logger)

	app := fiber.New(fiber.Config{
		AppName:      "socnet-backend",
		ErrorHandler: errHandler,
		// request values end up in the in-memory store and the cache
		Immutable: true,
		BodyLimit: 5 * 1024 * 1024,
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogger(deps.Logger, errHandler))
	app.Use(recover.New())

	origins := deps.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, X-Requested-With, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE",
	}))

	app.Static(lib.UploadsPrefix, deps.Uploader.Dir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	protect := middleware.ProtectRoute(deps.Tokens)
	postController := controllers.NewPostController(deps.Services.Posts)
	userController := controllers.NewUserController(deps.Services.Auth, deps.Services.Users, deps.Uploader, deps.Logger)

	routes.PostRoutes(app, postController, protect)
	routes.UserRoutes(app, userController, protect)

	app.Use(middleware.NotFound)
	return app
}
