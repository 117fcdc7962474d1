package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mvjl000/socnet-backend/src/controllers"
)

// UserRoutes sets up account routes: credentials, search, profile and deletion
func UserRoutes(app *fiber.App, uc *controllers.UserController, protect fiber.Handler) {
	user := app.Group("/api/user")

	user.Post("/login", uc.Login)
	user.Post("/signup", uc.Signup)
	user.Get("/getUserData/:uname", uc.GetUserData)
	user.Post("/searchUsers", uc.SearchUsers)

	user.Patch("/updateDesc/:uid", protect, uc.UpdateDescription)
	user.Delete("/deletePosts/:uid", protect, uc.DeletePosts)
	user.Delete("/delete/:uid", protect, uc.DeleteUser)
}
