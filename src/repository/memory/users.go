package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/mvjl000/socnet-backend/src/models"
	"github.com/mvjl000/socnet-backend/src/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	if user.Id.IsZero() {
		user.Id = primitive.NewObjectID()
	}
	if _, ok := r.s.users[user.Id]; ok {
		return repository.ErrDuplicate
	}
	if user.Posts == nil {
		user.Posts = []primitive.ObjectID{}
	}
	r.s.users[user.Id] = cloneUser(user)
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) SearchUsernames(ctx context.Context, query string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	needle := strings.ToLower(query)
	usernames := []string{}
	for _, u := range r.s.users {
		if strings.Contains(strings.ToLower(u.Username), needle) {
			usernames = append(usernames, u.Username)
		}
	}
	sort.Strings(usernames)
	return usernames, nil
}

func (r *userRepository) PushPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	return r.update(ctx, userID, func(u *models.User) {
		u.Posts = append(u.Posts, postID)
	})
}

func (r *userRepository) PullPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	err := r.update(ctx, userID, func(u *models.User) {
		kept := u.Posts[:0]
		for _, id := range u.Posts {
			if id != postID {
				kept = append(kept, id)
			}
		}
		u.Posts = kept
	})
	if err == repository.ErrNotFound {
		return nil
	}
	return err
}

func (r *userRepository) ClearPosts(ctx context.Context, userID primitive.ObjectID) error {
	return r.update(ctx, userID, func(u *models.User) {
		u.Posts = []primitive.ObjectID{}
	})
}

func (r *userRepository) UpdateDescription(ctx context.Context, userID primitive.ObjectID, description string) error {
	return r.update(ctx, userID, func(u *models.User) {
		u.Description = description
	})
}

func (r *userRepository) update(ctx context.Context, userID primitive.ObjectID, apply func(u *models.User)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	apply(u)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, userID primitive.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, userID)
	return nil
}
