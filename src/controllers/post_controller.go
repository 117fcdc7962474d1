package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mvjl000/socnet-backend/src/apperror"
	"github.com/mvjl000/socnet-backend/src/lib"
	"github.com/mvjl000/socnet-backend/src/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errPostNotFound = apperror.New(apperror.NotFound, "Could not find post for provided id.")

type PostController struct {
	posts *services.PostService
}

func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

type createPostRequest struct {
	Title   string `json:"title" form:"title" validate:"max=100"`
	Content string `json:"content" form:"content" validate:"required,min=1,max=1000"`
}

type likeActionRequest struct {
	ActionType string `json:"actionType" form:"actionType" validate:"required,oneof=LIKE DISLIKE"`
	PostId     string `json:"postId" form:"postId" validate:"required,objectid"`
}

type commentRequest struct {
	PostId  string `json:"postId" form:"postId" validate:"required,objectid"`
	Content string `json:"content" form:"content" validate:"required,min=1,max=500"`
}

type editPostRequest struct {
	Content string `json:"content" form:"content" validate:"required,min=1,max=1000"`
}

type reportRequest struct {
	PostId string `json:"postId" form:"postId" validate:"required,objectid"`
}

// GetAllPosts returns every post, newest first
func (pc *PostController) GetAllPosts(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	posts, err := pc.posts.GetAllPosts(ctx)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetPost returns a single post by id
func (pc *PostController) GetPost(c *fiber.Ctx) error {
	postID, ok := lib.ParamObjectID(c, "postId")
	if !ok {
		return errPostNotFound
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	post, err := pc.posts.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"post": post})
}

// GetUserPosts returns the posts created by the named user
func (pc *PostController) GetUserPosts(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	posts, err := pc.posts.GetUserPosts(ctx, c.Params("uname"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"posts": posts})
}

func (pc *PostController) GetComments(c *fiber.Ctx) error {
	postID, ok := lib.ParamObjectID(c, "postId")
	if !ok {
		return errPostNotFound
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comments, err := pc.posts.GetComments(ctx, postID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// GetReportedPosts lists reported posts for the admin account
func (pc *PostController) GetReportedPosts(c *fiber.Ctx) error {
	user, err := authUser(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	posts, err := pc.posts.GetReportedPosts(ctx, user.UserId)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// CreatePost creates a post for the authenticated user
func (pc *PostController) CreatePost(c *fiber.Ctx) error {
	user, err := authUser(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if err := lib.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	post, err := pc.posts.CreatePost(ctx, user.UserId, req.Title, req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"post": post})
}

// LikeAction likes or dislikes a post for the authenticated user
func (pc *PostController) LikeAction(c *fiber.Ctx) error {
	user, err := authUser(c)
	if err != nil {
		return err
	}

	var req likeActionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	postID, _ := primitive.ObjectIDFromHex(req.PostId)

	ctx, cancel := requestContext(c)
	defer cancel()

	post, err := pc.posts.LikeAction(ctx, user.UserId, postID, req.ActionType)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"post": post})
}

// CommentPost adds a comment by the authenticated user
func (pc *PostController) CommentPost(c *fiber.Ctx) error {
	user, err := authUser(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := lib.Validate(&req); err != nil {
		return err
	}
	postID, _ := primitive.ObjectIDFromHex(req.PostId)

	ctx, cancel := requestContext(c)
	defer cancel()

	comment, err := pc.posts.CommentPost(ctx, user.UserId, postID, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"comment": comment})
}

func (pc *PostController) DeleteComment(c *fiber.Ctx) error {
	user, err := authUser(c)
	if err != nil {
		return err
	}

	postID, ok := lib.ParamObjectID(c, "postId")
	if !ok {
		return errPostNotFound
	}
	commentID, ok := lib.ParamObjectID(c, "commentId")
	if !ok {
		return apperror.New(apperror.NotFound, "Could not find comment for provided id.")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := pc.posts.DeleteComment(ctx, user.UserId, postID, commentID); err != nil {
		return err
	}
	return c.JSON(lib.MessageResponse("Comment deleted."))
}

// EditPost replaces the content of a post owned by the caller
func (pc *PostController) EditPost(c *fiber.Ctx) error {
	user, err := authUser(c)
	if err != nil {
		return err
	}

	postID, ok := lib.ParamObjectID(c, "postId")
	if !ok {
		return errPostNotFound
	}

	var req editPostRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := lib.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	content, err := pc.posts.EditPost(ctx, user.UserId, postID, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"content": content})
}

// ReportPost flags a post for moderation. No authentication needed
func (pc *PostController) ReportPost(c *fiber.Ctx) error {
	var req reportRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	postID, _ := primitive.ObjectIDFromHex(req.PostId)

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := pc.posts.ReportPost(ctx, postID); err != nil {
		return err
	}
	return c.JSON(lib.MessageResponse("Post reported."))
}

// DeletePost deletes a post owned by the caller
func (pc *PostController) DeletePost(c *fiber.Ctx) error {
	user, err := authUser(c)
	if err != nil {
		return err
	}

	postID, ok := lib.ParamObjectID(c, "postId")
	if !ok {
		return errPostNotFound
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := pc.posts.DeletePost(ctx, user.UserId, postID); err != nil {
		return err
	}
	return c.JSON(lib.MessageResponse("Post deleted."))
}
