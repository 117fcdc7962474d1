// Package repository declares the persistence contracts shared by the MongoDB
// store and the in-memory store.
package repository

import (
	"context"
	"errors"

	"github.com/mvjl000/socnet-backend/src/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound means the addressed document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrNoMatch means a conditional update matched nothing: either the
	// document is missing or its precondition (e.g. "not liked yet") failed.
	ErrNoMatch = errors.New("update precondition not met")
	// ErrDuplicate means a unique index rejected the write.
	ErrDuplicate = errors.New("duplicate key")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// SearchUsernames returns the usernames containing query, ignoring case.
	SearchUsernames(ctx context.Context, query string) ([]string, error)
	// PushPost appends postID to the user's posts. ErrNotFound if the user is gone.
	PushPost(ctx context.Context, userID, postID primitive.ObjectID) error
	// PullPost removes postID from the user's posts. Missing users are ignored.
	PullPost(ctx context.Context, userID, postID primitive.ObjectID) error
	ClearPosts(ctx context.Context, userID primitive.ObjectID) error
	UpdateDescription(ctx context.Context, userID primitive.ObjectID, description string) error
	Delete(ctx context.Context, userID primitive.ObjectID) error
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	// FindAll returns every post, newest first.
	FindAll(ctx context.Context) ([]models.Post, error)
	FindByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.Post, error)
	FindReported(ctx context.Context) ([]models.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByCreator(ctx context.Context, creatorID primitive.ObjectID) (int64, error)

	// AddLike adds userID to likedBy and increments likesCount in one atomic
	// update. ErrNoMatch when the post is missing or already liked by userID.
	AddLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error)
	// RemoveLike is the inverse of AddLike. ErrNoMatch when the post is
	// missing or not liked by userID.
	RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error)
	// PushComment appends comment and increments commentsCount atomically.
	PushComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) error
	// PullComment removes the comment and decrements commentsCount atomically.
	// ErrNoMatch when the post or the comment is missing.
	PullComment(ctx context.Context, postID, commentID primitive.ObjectID) error
	// MarkReported sets isPostReported. ErrNoMatch when missing or already set.
	MarkReported(ctx context.Context, postID primitive.ObjectID) error
	// UpdateContent replaces content and sets edited.
	UpdateContent(ctx context.Context, postID primitive.ObjectID, content string) error
}

// Store groups the repositories with the transaction boundary. Repository
// calls made with the ctx handed to fn take part in the transaction.
type Store interface {
	Users() UserRepository
	Posts() PostRepository
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
