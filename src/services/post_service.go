package services

import (
	"context"
	"errors"
	"time"

	"github.com/mvjl000/socnet-backend/src/apperror"
	"github.com/mvjl000/socnet-backend/src/cache"
	"github.com/mvjl000/socnet-backend/src/events"
	"github.com/mvjl000/socnet-backend/src/models"
	"github.com/mvjl000/socnet-backend/src/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	ActionLike    = "LIKE"
	ActionDislike = "DISLIKE"
)

type PostService struct {
	store   repository.Store
	cache   cache.PostCache
	events  events.Publisher
	logger  *zap.Logger
	adminID string
	now     func() time.Time
}

func newPostService(opts Options) *PostService {
	return &PostService{
		store:   opts.Store,
		cache:   opts.Cache,
		events:  opts.Events,
		logger:  opts.Logger,
		adminID: opts.AdminID,
		now:     opts.Now,
	}
}

// GetAllPosts returns every post, newest first.
func (s *PostService) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.store.Posts().FindAll(ctx)
	if err != nil {
		return nil, internal(s.logger, "get all posts", err, "Could not find posts due to server error. Please try again later.")
	}
	return posts, nil
}

// GetPost reads through the post cache.
func (s *PostService) GetPost(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	post, err := s.cache.Get(ctx, postID.Hex())
	if err == nil {
		return post, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("cache read failed", zap.String("post", postID.Hex()), zap.Error(err))
	}

	post, err = s.store.Posts().FindByID(ctx, postID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errPostNotFound
	}
	if err != nil {
		return nil, internal(s.logger, "get post", err, "Fetching post failed, please try again later.")
	}

	if err := s.cache.Set(ctx, post); err != nil {
		s.logger.Warn("cache write failed", zap.String("post", postID.Hex()), zap.Error(err))
	}
	return post, nil
}

func (s *PostService) GetUserPosts(ctx context.Context, username string) ([]models.Post, error) {
	user, err := s.store.Users().FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errUsernameUnknown
	}
	if err != nil {
		return nil, internal(s.logger, "get user posts", err, "Fetching posts failed, please try again later.")
	}

	posts, err := s.store.Posts().FindByCreator(ctx, user.Id)
	if err != nil {
		return nil, internal(s.logger, "get user posts", err, "Fetching posts failed, please try again later.")
	}
	return posts, nil
}

func (s *PostService) GetComments(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// GetReportedPosts is restricted to the configured admin account.
func (s *PostService) GetReportedPosts(ctx context.Context, authID primitive.ObjectID) ([]models.Post, error) {
	if s.adminID == "" || authID.Hex() != s.adminID {
		return nil, errNotAllowed
	}

	posts, err := s.store.Posts().FindReported(ctx)
	if err != nil {
		return nil, internal(s.logger, "get reported posts", err, "Fetching reported posts failed, please try again later.")
	}
	return posts, nil
}

// CreatePost inserts the post and links it to its creator in one transaction.
func (s *PostService) CreatePost(ctx context.Context, authID primitive.ObjectID, title, content string) (*models.Post, error) {
	user, err := s.store.Users().FindByID(ctx, authID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, internal(s.logger, "create post lookup", err, "Creating post failed, please try again.")
	}

	post := models.NewPost(user, title, content, s.now())
	err = s.store.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.Posts().Create(ctx, post); err != nil {
			return err
		}
		return s.store.Users().PushPost(ctx, user.Id, post.Id)
	})
	if err != nil {
		return nil, internal(s.logger, "create post", err, "Creating post failed, please try again.")
	}

	if err := s.events.PostCreated(ctx, post); err != nil {
		s.logger.Warn("publish post.created failed", zap.String("post", post.Id.Hex()), zap.Error(err))
	}
	return post, nil
}

// DeletePost removes the post and unlinks it from its creator in one
// transaction. Only the creator may delete.
func (s *PostService) DeletePost(ctx context.Context, authID, postID primitive.ObjectID) error {
	post, err := s.store.Posts().FindByID(ctx, postID)
	if errors.Is(err, repository.ErrNotFound) {
		return errPostNotFound
	}
	if err != nil {
		return internal(s.logger, "delete post lookup", err, "Deleting post failed, please try again.")
	}

	if post.CreatorId != authID {
		return apperror.New(apperror.Forbidden, "You are not allowed to delete this post.")
	}

	err = s.store.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.Posts().Delete(ctx, postID); err != nil {
			return err
		}
		return s.store.Users().PullPost(ctx, post.CreatorId, postID)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return errPostNotFound
	}
	if err != nil {
		return internal(s.logger, "delete post", err, "Deleting post failed, please try again.")
	}

	invalidate(ctx, s.logger, s.cache, postID.Hex())
	if err := s.events.PostDeleted(ctx, postID.Hex(), post.CreatorId.Hex()); err != nil {
		s.logger.Warn("publish post.deleted failed", zap.String("post", postID.Hex()), zap.Error(err))
	}
	return nil
}

// LikeAction applies LIKE or DISLIKE as one conditional update, so
// likesCount always matches likedBy.
func (s *PostService) LikeAction(ctx context.Context, authID, postID primitive.ObjectID, action string) (*models.Post, error) {
	var (
		post     *models.Post
		err      error
		conflict string
	)
	switch action {
	case ActionLike:
		post, err = s.store.Posts().AddLike(ctx, postID, authID)
		conflict = "You already liked this post."
	case ActionDislike:
		post, err = s.store.Posts().RemoveLike(ctx, postID, authID)
		conflict = "You did not like this post, cannot dislike."
	default:
		return nil, apperror.New(apperror.Validation, "Unknown action type.")
	}

	if errors.Is(err, repository.ErrNoMatch) {
		return nil, s.explainNoMatch(ctx, postID, apperror.New(apperror.Conflict, conflict))
	}
	if err != nil {
		return nil, internal(s.logger, "like action", err, "Could not update likes, please try again.")
	}

	invalidate(ctx, s.logger, s.cache, postID.Hex())
	return post, nil
}

// explainNoMatch tells a missing post apart from a failed precondition.
func (s *PostService) explainNoMatch(ctx context.Context, postID primitive.ObjectID, preconditionErr error) error {
	_, err := s.store.Posts().FindByID(ctx, postID)
	if errors.Is(err, repository.ErrNotFound) {
		return errPostNotFound
	}
	if err != nil {
		return internal(s.logger, "post lookup", err, "Could not update post, please try again.")
	}
	return preconditionErr
}

func (s *PostService) CommentPost(ctx context.Context, authID, postID primitive.ObjectID, content string) (*models.Comment, error) {
	if _, err := s.store.Posts().FindByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errPostNotFound
		}
		return nil, internal(s.logger, "comment post lookup", err, "Adding comment failed, please try again.")
	}

	author, err := s.store.Users().FindByID(ctx, authID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, internal(s.logger, "comment author lookup", err, "Adding comment failed, please try again.")
	}

	comment := models.NewComment(author, content, s.now())
	err = s.store.Posts().PushComment(ctx, postID, comment)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errPostNotFound
	}
	if err != nil {
		return nil, internal(s.logger, "comment post", err, "Adding comment failed, please try again.")
	}

	invalidate(ctx, s.logger, s.cache, postID.Hex())
	return &comment, nil
}

// DeleteComment removes a comment. Only its author may delete it.
func (s *PostService) DeleteComment(ctx context.Context, authID, postID, commentID primitive.ObjectID) error {
	post, err := s.store.Posts().FindByID(ctx, postID)
	if errors.Is(err, repository.ErrNotFound) {
		return errPostNotFound
	}
	if err != nil {
		return internal(s.logger, "delete comment lookup", err, "Deleting comment failed, please try again.")
	}

	comment := post.FindComment(commentID)
	if comment == nil {
		return errCommentNotFound
	}
	if comment.CommentAuthorId != authID {
		return apperror.New(apperror.Forbidden, "You are not allowed to delete this comment.")
	}

	err = s.store.Posts().PullComment(ctx, postID, commentID)
	if errors.Is(err, repository.ErrNoMatch) {
		return errCommentNotFound
	}
	if err != nil {
		return internal(s.logger, "delete comment", err, "Deleting comment failed, please try again.")
	}

	invalidate(ctx, s.logger, s.cache, postID.Hex())
	return nil
}

func (s *PostService) ReportPost(ctx context.Context, postID primitive.ObjectID) error {
	err := s.store.Posts().MarkReported(ctx, postID)
	if errors.Is(err, repository.ErrNoMatch) {
		return s.explainNoMatch(ctx, postID, apperror.New(apperror.AlreadyReported, "This post has already been reported."))
	}
	if err != nil {
		return internal(s.logger, "report post", err, "Reporting post failed, please try again.")
	}

	invalidate(ctx, s.logger, s.cache, postID.Hex())
	return nil
}

// EditPost replaces the content and marks the post as edited.
func (s *PostService) EditPost(ctx context.Context, authID, postID primitive.ObjectID, content string) (string, error) {
	post, err := s.store.Posts().FindByID(ctx, postID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", errPostNotFound
	}
	if err != nil {
		return "", internal(s.logger, "edit post lookup", err, "Editing post failed, please try again.")
	}

	if post.CreatorId != authID {
		return "", apperror.New(apperror.Forbidden, "You are not allowed to edit this post.")
	}

	err = s.store.Posts().UpdateContent(ctx, postID, content)
	if errors.Is(err, repository.ErrNotFound) {
		return "", errPostNotFound
	}
	if err != nil {
		return "", internal(s.logger, "edit post", err, "Editing post failed, please try again.")
	}

	invalidate(ctx, s.logger, s.cache, postID.Hex())
	return content, nil
}
