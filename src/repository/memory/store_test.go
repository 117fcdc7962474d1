package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mvjl000/socnet-backend/src/models"
	"github.com/mvjl000/socnet-backend/src/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedUser(t *testing.T, s *Store, name string) *models.User {
	t.Helper()
	u := models.NewUser(name, "hash", "")
	require.NoError(t, s.Users().Create(context.Background(), u))
	return u
}

func TestUsernameIsUnique(t *testing.T) {
	s := New()
	seedUser(t, s, "alice")

	err := s.Users().Create(context.Background(), models.NewUser("alice", "other", ""))
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestSearchUsernamesIgnoresCase(t *testing.T) {
	s := New()
	seedUser(t, s, "Alice")
	seedUser(t, s, "malik")
	seedUser(t, s, "bob")

	names, err := s.Users().SearchUsernames(context.Background(), "ALI")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "malik"}, names)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := seedUser(t, s, "alice")
	post := models.NewPost(alice, "", "hello", time.Now())

	boom := errors.New("boom")
	err := s.WithTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, s.Posts().Create(ctx, post))
		require.NoError(t, s.Users().PushPost(ctx, alice.Id, post.Id))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.Posts().FindByID(ctx, post.Id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	stored, err := s.Users().FindByID(ctx, alice.Id)
	require.NoError(t, err)
	assert.Empty(t, stored.Posts)
}

func TestTransactionCommits(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := seedUser(t, s, "alice")
	post := models.NewPost(alice, "", "hello", time.Now())

	err := s.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.Posts().Create(ctx, post); err != nil {
			return err
		}
		return s.Users().PushPost(ctx, alice.Id, post.Id)
	})
	require.NoError(t, err)

	stored, err := s.Users().FindByID(ctx, alice.Id)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{post.Id}, stored.Posts)
}

func TestLikesStayConsistent(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	post := models.NewPost(alice, "", "hello", time.Now())
	require.NoError(t, s.Posts().Create(ctx, post))

	liked, err := s.Posts().AddLike(ctx, post.Id, bob.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.LikesCount)

	_, err = s.Posts().AddLike(ctx, post.Id, bob.Id)
	assert.ErrorIs(t, err, repository.ErrNoMatch)

	unliked, err := s.Posts().RemoveLike(ctx, post.Id, bob.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, unliked.LikesCount)
	assert.Empty(t, unliked.LikedBy)

	_, err = s.Posts().RemoveLike(ctx, post.Id, bob.Id)
	assert.ErrorIs(t, err, repository.ErrNoMatch)

	_, err = s.Posts().AddLike(ctx, primitive.NewObjectID(), bob.Id)
	assert.ErrorIs(t, err, repository.ErrNoMatch)
}

func TestCommentsStayConsistent(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := seedUser(t, s, "alice")
	post := models.NewPost(alice, "", "hello", time.Now())
	require.NoError(t, s.Posts().Create(ctx, post))

	first := models.NewComment(alice, "one", time.Now())
	second := models.NewComment(alice, "two", time.Now())
	require.NoError(t, s.Posts().PushComment(ctx, post.Id, first))
	require.NoError(t, s.Posts().PushComment(ctx, post.Id, second))
	require.NoError(t, s.Posts().PullComment(ctx, post.Id, first.Id))
	assert.ErrorIs(t, s.Posts().PullComment(ctx, post.Id, first.Id), repository.ErrNoMatch)

	stored, err := s.Posts().FindByID(ctx, post.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CommentsCount)
	assert.Len(t, stored.Comments, 1)
	assert.Equal(t, second.Id, stored.Comments[0].Id)

	err = s.Posts().PushComment(ctx, primitive.NewObjectID(), first)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMarkReportedOnlyOnce(t *testing.T) {
	ctx := context.Background()
	s := New()
	post := models.NewPost(seedUser(t, s, "alice"), "", "hello", time.Now())
	require.NoError(t, s.Posts().Create(ctx, post))

	require.NoError(t, s.Posts().MarkReported(ctx, post.Id))
	assert.ErrorIs(t, s.Posts().MarkReported(ctx, post.Id), repository.ErrNoMatch)

	reported, err := s.Posts().FindReported(ctx)
	require.NoError(t, err)
	assert.Len(t, reported, 1)
}

func TestFindAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := seedUser(t, s, "alice")
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	older := models.NewPost(alice, "", "older", base)
	newer := models.NewPost(alice, "", "newer", base.Add(time.Minute))
	require.NoError(t, s.Posts().Create(ctx, older))
	require.NoError(t, s.Posts().Create(ctx, newer))

	posts, err := s.Posts().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "newer", posts[0].Content)
	assert.Equal(t, "older", posts[1].Content)
}

func TestReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := seedUser(t, s, "alice")

	found, err := s.Users().FindByID(ctx, alice.Id)
	require.NoError(t, err)
	found.Posts = append(found.Posts, primitive.NewObjectID())

	again, err := s.Users().FindByID(ctx, alice.Id)
	require.NoError(t, err)
	assert.Empty(t, again.Posts)
}

func TestDeleteByCreator(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	require.NoError(t, s.Posts().Create(ctx, models.NewPost(alice, "", "a1", time.Now())))
	require.NoError(t, s.Posts().Create(ctx, models.NewPost(alice, "", "a2", time.Now())))
	require.NoError(t, s.Posts().Create(ctx, models.NewPost(bob, "", "b1", time.Now())))

	n, err := s.Posts().DeleteByCreator(ctx, alice.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := s.Posts().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, bob.Id, left[0].CreatorId)
}
