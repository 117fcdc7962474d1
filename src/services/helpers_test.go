package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mvjl000/socnet-backend/src/cache"
	"github.com/mvjl000/socnet-backend/src/lib"
	"github.com/mvjl000/socnet-backend/src/models"
	"github.com/mvjl000/socnet-backend/src/repository"
	"github.com/mvjl000/socnet-backend/src/repository/memory"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

type fixture struct {
	svc    *Services
	store  *faultyStore
	cache  *mapCache
	events *recordingPublisher
	tokens *lib.TokenIssuer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := newMapCache()
	f := newFixtureWithCache(t, c)
	f.cache = c
	return f
}

// newRedisFixture backs the post cache with an in-process Redis.
func newRedisFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return newFixtureWithCache(t, cache.NewRedisPostCache(rdb, time.Minute))
}

func newFixtureWithCache(t *testing.T, postCache cache.PostCache) *fixture {
	t.Helper()
	f := &fixture{
		store:  &faultyStore{Store: memory.New()},
		events: &recordingPublisher{},
		tokens: lib.NewTokenIssuer("test-secret", time.Hour),
	}
	f.svc = New(Options{
		Store:      f.store,
		Tokens:     f.tokens,
		Cache:      postCache,
		Events:     f.events,
		BcryptCost: bcrypt.MinCost,
		Now:        func() time.Time { return fixedNow },
	})
	return f
}

func (f *fixture) signup(t *testing.T, username string) primitive.ObjectID {
	t.Helper()
	res, err := f.svc.Auth.Signup(context.Background(), username, "secret1", "")
	require.NoError(t, err)
	id, err := primitive.ObjectIDFromHex(res.UserId)
	require.NoError(t, err)
	return id
}

func (f *fixture) createPost(t *testing.T, author primitive.ObjectID, content string) *models.Post {
	t.Helper()
	post, err := f.svc.Posts.CreatePost(context.Background(), author, "", content)
	require.NoError(t, err)
	return post
}

// faultyStore wraps the memory store and fails selected calls.
type faultyStore struct {
	*memory.Store

	failPushPost   error
	failCreatePost error
	failDeleteUser error
	failDeleteMany error

	findGate atomic.Pointer[readGate]
}

// readGate holds the next FindByID after it has read the post, until release
// is closed.
type readGate struct {
	reached chan struct{}
	release chan struct{}
}

func (s *faultyStore) holdNextFind() *readGate {
	g := &readGate{reached: make(chan struct{}), release: make(chan struct{})}
	s.findGate.Store(g)
	return g
}

func (s *faultyStore) Users() repository.UserRepository {
	return &faultyUsers{UserRepository: s.Store.Users(), s: s}
}

func (s *faultyStore) Posts() repository.PostRepository {
	return &faultyPosts{PostRepository: s.Store.Posts(), s: s}
}

type faultyUsers struct {
	repository.UserRepository
	s *faultyStore
}

func (u *faultyUsers) PushPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	if u.s.failPushPost != nil {
		return u.s.failPushPost
	}
	return u.UserRepository.PushPost(ctx, userID, postID)
}

func (u *faultyUsers) Delete(ctx context.Context, userID primitive.ObjectID) error {
	if u.s.failDeleteUser != nil {
		return u.s.failDeleteUser
	}
	return u.UserRepository.Delete(ctx, userID)
}

type faultyPosts struct {
	repository.PostRepository
	s *faultyStore
}

func (p *faultyPosts) FindByID(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	post, err := p.PostRepository.FindByID(ctx, postID)
	if g := p.s.findGate.Swap(nil); g != nil {
		close(g.reached)
		<-g.release
	}
	return post, err
}

func (p *faultyPosts) Create(ctx context.Context, post *models.Post) error {
	if p.s.failCreatePost != nil {
		return p.s.failCreatePost
	}
	return p.PostRepository.Create(ctx, post)
}

func (p *faultyPosts) DeleteByCreator(ctx context.Context, creatorID primitive.ObjectID) (int64, error) {
	if p.s.failDeleteMany != nil {
		return 0, p.s.failDeleteMany
	}
	return p.PostRepository.DeleteByCreator(ctx, creatorID)
}

type mapCache struct {
	mu          sync.Mutex
	posts       map[string]models.Post
	invalidated []string
}

func newMapCache() *mapCache {
	return &mapCache{posts: make(map[string]models.Post)}
}

func (c *mapCache) Get(_ context.Context, postID string) (*models.Post, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.posts[postID]
	if !ok {
		return nil, cache.ErrMiss
	}
	return &p, nil
}

func (c *mapCache) Set(_ context.Context, post *models.Post) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts[post.Id.Hex()] = *post
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, postIDs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range postIDs {
		delete(c.posts, id)
		c.invalidated = append(c.invalidated, id)
	}
	return nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	created []string
	deleted []string
	users   []string
}

func (r *recordingPublisher) PostCreated(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, post.Id.Hex())
	return nil
}

func (r *recordingPublisher) PostDeleted(_ context.Context, postID, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, postID)
	return nil
}

func (r *recordingPublisher) UserDeleted(_ context.Context, userID string, _ int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, userID)
	return nil
}
