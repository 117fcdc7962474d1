package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewPostSnapshotsCreator(t *testing.T) {
	creator := NewUser("alice", "hash", "uploads/images/a.png")
	now := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

	post := NewPost(creator, "Hello", "First post", now)

	assert.False(t, post.Id.IsZero())
	assert.Equal(t, creator.Id, post.CreatorId)
	assert.Equal(t, "alice", post.CreatorName)
	assert.Equal(t, "uploads/images/a.png", post.CreatorImage)
	assert.Equal(t, "09.03.2024 14:05", post.CreationDate)
	assert.Equal(t, 0, post.LikesCount)
	assert.Empty(t, post.LikedBy)
	assert.NotNil(t, post.LikedBy)
	assert.Equal(t, 0, post.CommentsCount)
	assert.False(t, post.Edited)
	assert.False(t, post.IsPostReported)
}

func TestPostLookups(t *testing.T) {
	author := NewUser("bob", "hash", "")
	post := NewPost(NewUser("alice", "hash", ""), "", "content", time.Now())
	comment := NewComment(author, "nice", time.Now())
	post.Comments = append(post.Comments, comment)
	post.LikedBy = append(post.LikedBy, author.Id)

	assert.True(t, post.IsLikedBy(author.Id))
	assert.False(t, post.IsLikedBy(primitive.NewObjectID()))

	found := post.FindComment(comment.Id)
	require.NotNil(t, found)
	assert.Equal(t, "bob", found.CommentAuthorName)
	assert.Nil(t, post.FindComment(primitive.NewObjectID()))
}

func TestNewUserDefaults(t *testing.T) {
	user := NewUser("carol", "hash", "")

	assert.Equal(t, DefaultDescription, user.Description)
	assert.NotNil(t, user.Posts)
	assert.Empty(t, user.Posts)
}
