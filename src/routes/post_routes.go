package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mvjl000/socnet-backend/src/controllers"
)

// PostRoutes sets up post routes for reading, creation, likes, comments, reports and deletion
func PostRoutes(app *fiber.App, pc *controllers.PostController, protect fiber.Handler) {
	post := app.Group("/api/posts")

	post.Get("/getAllPosts", pc.GetAllPosts)
	post.Get("/post/:postId", pc.GetPost)
	post.Get("/getUserPosts/:uname", pc.GetUserPosts)
	post.Get("/comments/:postId", pc.GetComments)
	post.Post("/post/report", pc.ReportPost)

	post.Get("/reportedPosts", protect, pc.GetReportedPosts)
	post.Post("/createPost", protect, pc.CreatePost)
	post.Post("/likeAction", protect, pc.LikeAction)
	post.Post("/comment", protect, pc.CommentPost)
	post.Delete("/comment/:postId/:commentId", protect, pc.DeleteComment)
	post.Patch("/editPost/:postId", protect, pc.EditPost)
	post.Delete("/deletePost/:postId", protect, pc.DeletePost)
}
