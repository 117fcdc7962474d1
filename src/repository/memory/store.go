// Package memory is an in-process repository.Store used for local runs
// (DB_DRIVER=memory) and tests. Transactions are serialized and roll back by
// restoring a snapshot taken when they start.
package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/mvjl000/socnet-backend/src/models"
	"github.com/mvjl000/socnet-backend/src/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	users map[primitive.ObjectID]*models.User
	posts map[primitive.ObjectID]*models.Post
}

func New() *Store {
	return &Store{
		users: make(map[primitive.ObjectID]*models.User),
		posts: make(map[primitive.ObjectID]*models.Post),
	}
}

func (s *Store) Users() repository.UserRepository { return &userRepository{s: s} }

func (s *Store) Posts() repository.PostRepository { return &postRepository{s: s} }

func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	users, posts := s.snapshot()
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.users, s.posts = users, posts
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) snapshot() (map[primitive.ObjectID]*models.User, map[primitive.ObjectID]*models.Post) {
	users := make(map[primitive.ObjectID]*models.User, len(s.users))
	for id, u := range s.users {
		users[id] = cloneUser(u)
	}
	posts := make(map[primitive.ObjectID]*models.Post, len(s.posts))
	for id, p := range s.posts {
		posts[id] = clonePost(p)
	}
	return users, posts
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Posts = append([]primitive.ObjectID{}, u.Posts...)
	return &c
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.LikedBy = append([]primitive.ObjectID{}, p.LikedBy...)
	c.Comments = append([]models.Comment{}, p.Comments...)
	return &c
}

// sortNewestFirst orders by createdAt, then id, both descending.
func sortNewestFirst(posts []models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return bytes.Compare(posts[i].Id[:], posts[j].Id[:]) > 0
	})
}
